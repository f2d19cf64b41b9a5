package sales

import (
	"errors"
	"time"

	"satis-takip-backend/internal/audit"
	"satis-takip-backend/internal/auth"
	"satis-takip-backend/internal/database"
	"satis-takip-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var validate = validator.New()

// Parasal alanlar pointer: alanın hiç gönderilmemesi kayıt anında
// doğrulama hatasıdır, sessizce 0 varsayılmaz.
type LineItemRequest struct {
	FileRef     *int     `json:"file_ref" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Sales       *float64 `json:"sales" validate:"required,gte=0"`
	Profit      *float64 `json:"profit" validate:"required,gte=0"`
	Credit      *float64 `json:"credit" validate:"required,gte=0"`
	Expense     *float64 `json:"expense" validate:"required,gte=0"`
	VAT         *float64 `json:"vat" validate:"required,gte=0"`
	Parts       *float64 `json:"parts" validate:"required,gte=0"`
}

type CreateSalesRecordRequest struct {
	TotalSales   *float64          `json:"total_sales" validate:"required,gte=0"`
	TotalExpense *float64          `json:"total_expense" validate:"required,gte=0"`
	TotalProfit  *float64          `json:"total_profit" validate:"required,gte=0"`
	LineItems    []LineItemRequest `json:"line_items" validate:"dive"`
}

type LineItemResponse struct {
	FileRef     int    `json:"file_ref"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Sales       string `json:"sales"`
	Profit      string `json:"profit"`
	Credit      string `json:"credit"`
	Expense     string `json:"expense"`
	VAT         string `json:"vat"`
	Parts       string `json:"parts"`
}

type SalesRecordResponse struct {
	ID           uint               `json:"id"`
	OwnerID      uint               `json:"owner_id"`
	EntryDate    string             `json:"entry_date"`
	TotalSales   string             `json:"total_sales"`
	TotalExpense string             `json:"total_expense"`
	TotalProfit  string             `json:"total_profit"`
	TotalCredit  string             `json:"total_credit"` // satır kalemlerinden türetilir
	LineItems    []LineItemResponse `json:"line_items"`
	CreatedAt    string             `json:"created_at"`
}

func toResponse(r *models.SalesRecord) SalesRecordResponse {
	items := make([]LineItemResponse, 0, len(r.LineItems))
	for _, li := range r.LineItems {
		items = append(items, LineItemResponse{
			FileRef:     li.FileRef,
			Name:        li.Name,
			Description: li.Description,
			Sales:       li.Sales.StringFixed(2),
			Profit:      li.Profit.StringFixed(2),
			Credit:      li.Credit.StringFixed(2),
			Expense:     li.Expense.StringFixed(2),
			VAT:         li.VAT.StringFixed(2),
			Parts:       li.Parts.StringFixed(2),
		})
	}
	return SalesRecordResponse{
		ID:           r.ID,
		OwnerID:      r.OwnerID,
		EntryDate:    r.EntryDate.Format("2006-01-02"),
		TotalSales:   r.TotalSales.StringFixed(2),
		TotalExpense: r.TotalExpense.StringFixed(2),
		TotalProfit:  r.TotalProfit.StringFixed(2),
		TotalCredit:  r.TotalCredit().StringFixed(2),
		LineItems:    items,
		CreatedAt:    r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func buildLineItems(reqs []LineItemRequest) []models.CustomerLine {
	items := make([]models.CustomerLine, 0, len(reqs))
	for i, li := range reqs {
		items = append(items, models.CustomerLine{
			Position:    i, // giriş sırası korunur
			FileRef:     *li.FileRef,
			Name:        li.Name,
			Description: li.Description,
			Sales:       decimal.NewFromFloat(*li.Sales),
			Profit:      decimal.NewFromFloat(*li.Profit),
			Credit:      decimal.NewFromFloat(*li.Credit),
			Expense:     decimal.NewFromFloat(*li.Expense),
			VAT:         decimal.NewFromFloat(*li.VAT),
			Parts:       decimal.NewFromFloat(*li.Parts),
		})
	}
	return items
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// POST /api/sales
// Günün satış kaydını oluştur. (owner_id, entry_date) unique index'i
// sayesinde aynı güne ikinci kayıt insert anında 409 döner.
func CreateSalesRecordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateSalesRecordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Eksik veya negatif alan: "+err.Error())
		}

		record := models.SalesRecord{
			OwnerID:      userID,
			EntryDate:    startOfToday(),
			TotalSales:   decimal.NewFromFloat(*body.TotalSales),
			TotalExpense: decimal.NewFromFloat(*body.TotalExpense),
			// Girildiği gibi saklanır, satış - giderden yeniden hesaplanmaz
			TotalProfit: decimal.NewFromFloat(*body.TotalProfit),
			LineItems:   buildLineItems(body.LineItems),
		}

		if err := database.DB.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Bugün için zaten bir satış kaydınız var")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Satış kaydı oluşturulamadı")
		}

		username, _ := c.Locals(auth.CtxUsernameKey).(string)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    username,
			EntityType:  "sales_record",
			EntityID:    record.ID,
			Action:      models.AuditActionCreate,
			Description: "Günlük satış kaydı oluşturuldu: " + record.EntryDate.Format("2006-01-02"),
			After:       record,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(&record))
	}
}

// PUT /api/sales/today
// Bugünün kaydını günceller: toplamlar ve satır kalemleri değişir,
// CreatedAt ve EntryDate korunur.
func UpdateTodayHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateSalesRecordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Eksik veya negatif alan: "+err.Error())
		}

		var record models.SalesRecord
		if err := database.DB.Preload("LineItems").
			Where("owner_id = ? AND entry_date = ?", userID, startOfToday()).
			First(&record).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bugün için satış kaydı bulunamadı")
		}
		before := toResponse(&record)

		newItems := buildLineItems(body.LineItems)
		for i := range newItems {
			newItems[i].SalesRecordID = record.ID
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			updates := map[string]interface{}{
				"total_sales":   decimal.NewFromFloat(*body.TotalSales),
				"total_expense": decimal.NewFromFloat(*body.TotalExpense),
				"total_profit":  decimal.NewFromFloat(*body.TotalProfit),
			}
			if err := tx.Model(&record).Updates(updates).Error; err != nil {
				return err
			}
			if err := tx.Where("sales_record_id = ?", record.ID).Delete(&models.CustomerLine{}).Error; err != nil {
				return err
			}
			if len(newItems) > 0 {
				if err := tx.Create(&newItems).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satış kaydı güncellenemedi")
		}

		record.LineItems = newItems

		username, _ := c.Locals(auth.CtxUsernameKey).(string)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    username,
			EntityType:  "sales_record",
			EntityID:    record.ID,
			Action:      models.AuditActionUpdate,
			Description: "Günlük satış kaydı güncellendi: " + record.EntryDate.Format("2006-01-02"),
			Before:      before,
			After:       toResponse(&record),
		})

		return c.JSON(toResponse(&record))
	}
}

// GET /api/sales/today
func GetTodayHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var record models.SalesRecord
		if err := database.DB.
			Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
			Where("owner_id = ? AND entry_date = ?", userID, startOfToday()).
			First(&record).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bugün için satış kaydı bulunamadı")
		}

		return c.JSON(toResponse(&record))
	}
}

// GET /api/sales?from=2024-03-01&to=2024-03-31&owner_id=5
// Çalışan kendi kayıtlarını, admin herkesinkini görür.
func ListSalesRecordsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		isAdmin, _ := c.Locals(auth.CtxIsAdminKey).(bool)

		q := database.DB.
			Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
			Order("entry_date DESC")

		if isAdmin {
			if ownerID := c.QueryInt("owner_id", 0); ownerID > 0 {
				q = q.Where("owner_id = ?", ownerID)
			}
		} else {
			q = q.Where("owner_id = ?", userID)
		}

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from tarihi geçersiz")
			}
			q = q.Where("entry_date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to tarihi geçersiz")
			}
			q = q.Where("entry_date <= ?", to)
		}

		var records []models.SalesRecord
		if err := q.Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satış kayıtları listelenemedi")
		}

		resp := make([]SalesRecordResponse, 0, len(records))
		for i := range records {
			resp = append(resp, toResponse(&records[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/sales/:id
func GetSalesRecordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		isAdmin, _ := c.Locals(auth.CtxIsAdminKey).(bool)

		var record models.SalesRecord
		if err := database.DB.
			Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
			First(&record, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Satış kaydı bulunamadı")
		}

		if !isAdmin && record.OwnerID != userID {
			return fiber.NewError(fiber.StatusForbidden, "Bu kayda erişim yetkiniz yok")
		}

		return c.JSON(toResponse(&record))
	}
}
