package main

import (
	"strings"
	"time"

	"satis-takip-backend/internal/audit"
	"satis-takip-backend/internal/auth"
	"satis-takip-backend/internal/config"
	"satis-takip-backend/internal/database"
	"satis-takip-backend/internal/digest"
	"satis-takip-backend/internal/leave"
	"satis-takip-backend/internal/report"
	"satis-takip-backend/internal/sales"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg := config.Load()
	log := config.Logger()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.WithError(err).Error("Beklenmeyen hata")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Raporlama çekirdeği
	store := report.NewGormStore(database.DB)
	engine := report.NewEngine(store, time.Now, cfg.DBQueryTimeout, cfg.IncludeOrphanOwners)
	reports := report.NewHandler(engine, store, cfg)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Günlük satış kayıtları
	protected.Post("/sales", sales.CreateSalesRecordHandler())
	protected.Get("/sales", sales.ListSalesRecordsHandler())
	protected.Get("/sales/today", sales.GetTodayHandler())
	protected.Put("/sales/today", sales.UpdateTodayHandler())
	protected.Get("/sales/:id", sales.GetSalesRecordHandler())

	// İzin başvuruları
	protected.Post("/leaves", leave.CreateLeaveHandler())
	protected.Get("/leaves", leave.ListLeavesHandler())

	// Raporlar
	protected.Get("/reports/buckets", reports.BucketsHandler())
	protected.Get("/reports/download", reports.DownloadHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireAdmin())

	adminRoutes.Get("/users", auth.ListUsersHandler())
	adminRoutes.Put("/users/:id/verify", auth.VerifyUserHandler())
	adminRoutes.Put("/leaves/:id", leave.DecideLeaveHandler())
	adminRoutes.Get("/reports/employees", reports.EmployeesHandler())
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	// Günlük özet: sabit saatte admin'lere PDF rapor postalar
	mailer := digest.NewSMTPMailer(cfg)
	job := digest.NewJob(engine, store, mailer, log)
	scheduler := cron.New()
	if _, err := scheduler.AddJob(cfg.DigestCronSpec, job); err != nil {
		log.WithError(err).Fatal("Digest cron tanımı geçersiz")
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Info("Server çalışıyor port: ", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
