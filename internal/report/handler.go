package report

import (
	"context"
	"errors"
	"fmt"

	"satis-takip-backend/internal/auth"
	"satis-takip-backend/internal/config"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	engine *Engine
	store  Store
	cfg    *config.Config
}

func NewHandler(engine *Engine, store Store, cfg *config.Config) *Handler {
	return &Handler{engine: engine, store: store, cfg: cfg}
}

// Tipli rapor hatalarını HTTP durum kodlarına çevir
func toFiberError(err error) error {
	var ve *ValidationError
	var nfe *NotFoundError
	var ce *ConflictError
	var re *RenderError

	switch {
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusBadRequest, ve.Msg)
	case errors.As(err, &nfe):
		return fiber.NewError(fiber.StatusNotFound, nfe.Msg)
	case errors.As(err, &ce):
		return fiber.NewError(fiber.StatusConflict, ce.Msg)
	case errors.As(err, &re):
		return fiber.NewError(fiber.StatusInternalServerError, "Rapor belgesi üretilemedi")
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusGatewayTimeout, "Sorgu zaman aşımına uğradı, tekrar deneyin")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Rapor verisi toplanırken hata oluştu")
}

func (h *Handler) windowFromQuery(c *fiber.Ctx) (Window, error) {
	kind := WindowKind(c.Query("kind", string(WindowToday)))
	params := WindowParams{
		Date:                 c.Query("date"),
		From:                 c.Query("from"),
		To:                   c.Query("to"),
		Month:                c.QueryInt("month", 0),
		Year:                 c.QueryInt("year", 0),
		PartialCurrentPeriod: h.cfg.PartialCurrentPeriod,
	}
	return ResolveWindow(kind, params, h.engine.Clock())
}

// Çalışan kendi kayıtlarını görür; admin owner_id ile daraltabilir
// veya boş bırakıp tüm çalışanları kapsayabilir.
func (h *Handler) resolveOwnerScope(c *fiber.Ctx) (*uint, error) {
	isAdmin, _ := c.Locals(auth.CtxIsAdminKey).(bool)
	if !isAdmin {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return nil, err
		}
		return &userID, nil
	}

	ownerID := c.QueryInt("owner_id", 0)
	if ownerID <= 0 {
		return nil, nil
	}
	id := uint(ownerID)
	return &id, nil
}

// GET /api/reports/buckets?metric=sales&kind=monthly&month=3&year=2024
func (h *Handler) BucketsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		metric, err := ParseMetric(c.Query("metric", string(MetricSales)))
		if err != nil {
			return toFiberError(err)
		}

		w, err := h.windowFromQuery(c)
		if err != nil {
			return toFiberError(err)
		}

		ownerID, err := h.resolveOwnerScope(c)
		if err != nil {
			return err
		}

		buckets, err := h.engine.BucketedAggregate(c.UserContext(), metric, w, ownerID)
		if err != nil {
			return toFiberError(err)
		}

		return c.JSON(fiber.Map{
			"metric":  metric,
			"start":   w.Start.Format("2006-01-02"),
			"end":     w.End.Format("2006-01-02"),
			"buckets": buckets,
		})
	}
}

// GET /api/reports/employees?metric=sales&kind=today (sadece admin)
func (h *Handler) EmployeesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		metric, err := ParseMetric(c.Query("metric", string(MetricSales)))
		if err != nil {
			return toFiberError(err)
		}

		w, err := h.windowFromQuery(c)
		if err != nil {
			return toFiberError(err)
		}

		totals, err := h.engine.EmployeeAggregate(c.UserContext(), metric, w)
		if err != nil {
			return toFiberError(err)
		}

		return c.JSON(fiber.Map{
			"metric": metric,
			"start":  w.Start.Format("2006-01-02"),
			"end":    w.End.Format("2006-01-02"),
			"totals": totals,
		})
	}
}

// GET /api/reports/download?format=pdf&kind=monthly&month=3&year=2024&owner_id=5
func (h *Handler) DownloadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		format, err := ParseFormat(c.Query("format", string(FormatPDF)))
		if err != nil {
			return toFiberError(err)
		}

		w, err := h.windowFromQuery(c)
		if err != nil {
			return toFiberError(err)
		}

		ownerID, err := h.resolveOwnerScope(c)
		if err != nil {
			return err
		}

		ctx, cancel := h.engine.queryCtx(c.UserContext())
		defer cancel()

		records, err := h.store.FindRecordsInWindow(ctx, ownerID, w)
		if err != nil {
			return toFiberError(err)
		}

		rangeLabel := fmt.Sprintf("%s - %s", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
		summary, rows := BuildReportData(records, "Satış Raporu", rangeLabel)

		// Tek çalışan kapsamı: kimlik bloğu için kullanıcıyı yükle.
		// Render yolunda öznenin var olması şarttır.
		var username string
		if ownerID != nil {
			users, err := h.store.FindUsersByIDs(ctx, []uint{*ownerID})
			if err != nil {
				return toFiberError(err)
			}
			if len(users) == 0 {
				return toFiberError(&NotFoundError{Msg: "Çalışan bulunamadı"})
			}
			summary.Username = users[0].Username
			summary.Email = users[0].Email
			username = users[0].Username
		}

		generatedAt := h.engine.Clock()()
		data, err := RenderReport(format, summary, rows, generatedAt)
		if err != nil {
			return toFiberError(err)
		}

		filename := SuggestedFilename(format, username, generatedAt)
		if format == FormatPDF {
			c.Set(fiber.HeaderContentType, "application/pdf")
		} else {
			c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		}
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))

		return c.Send(data)
	}
}
