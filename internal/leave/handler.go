package leave

import (
	"time"

	"satis-takip-backend/internal/audit"
	"satis-takip-backend/internal/auth"
	"satis-takip-backend/internal/database"
	"satis-takip-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateLeaveRequest struct {
	StartDate string `json:"start_date"` // "2025-12-09"
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

type DecideLeaveRequest struct {
	Status string `json:"status"` // "approved" | "rejected"
}

type LeaveResponse struct {
	ID        uint   `json:"id"`
	OwnerID   uint   `json:"owner_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
	DecidedBy *uint  `json:"decided_by"`
	CreatedAt string `json:"created_at"`
}

func toResponse(l *models.LeaveApplication) LeaveResponse {
	return LeaveResponse{
		ID:        l.ID,
		OwnerID:   l.OwnerID,
		StartDate: l.StartDate.Format("2006-01-02"),
		EndDate:   l.EndDate.Format("2006-01-02"),
		Reason:    l.Reason,
		Status:    string(l.Status),
		DecidedBy: l.DecidedBy,
		CreatedAt: l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/leaves
// Yeni izin başvurusu, her zaman "pending" ile açılır
func CreateLeaveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateLeaveRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		start, err := time.Parse("2006-01-02", body.StartDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "start_date geçersiz (YYYY-MM-DD)")
		}
		end, err := time.Parse("2006-01-02", body.EndDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "end_date geçersiz (YYYY-MM-DD)")
		}
		if end.Before(start) {
			return fiber.NewError(fiber.StatusBadRequest, "end_date, start_date'den önce olamaz")
		}

		leave := models.LeaveApplication{
			OwnerID:   userID,
			StartDate: start,
			EndDate:   end,
			Reason:    body.Reason,
			Status:    models.LeaveStatusPending,
		}

		if err := database.DB.Create(&leave).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İzin başvurusu oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&leave))
	}
}

// GET /api/leaves
// Çalışan kendi başvurularını, admin herkesinkini görür
func ListLeavesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		isAdmin, _ := c.Locals(auth.CtxIsAdminKey).(bool)

		q := database.DB.Order("created_at DESC")
		if !isAdmin {
			q = q.Where("owner_id = ?", userID)
		}
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var leaves []models.LeaveApplication
		if err := q.Find(&leaves).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İzin başvuruları listelenemedi")
		}

		resp := make([]LeaveResponse, 0, len(leaves))
		for i := range leaves {
			resp = append(resp, toResponse(&leaves[i]))
		}
		return c.JSON(resp)
	}
}

// PUT /api/admin/leaves/:id
// Admin kararı: approved / rejected
func DecideLeaveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body DecideLeaveRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		status := models.LeaveStatus(body.Status)
		if status != models.LeaveStatusApproved && status != models.LeaveStatusRejected {
			return fiber.NewError(fiber.StatusBadRequest, "status 'approved' veya 'rejected' olmalı")
		}

		var leave models.LeaveApplication
		if err := database.DB.First(&leave, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "İzin başvurusu bulunamadı")
		}

		if leave.Status != models.LeaveStatusPending {
			return fiber.NewError(fiber.StatusConflict, "Bu başvuru zaten karara bağlanmış")
		}

		before := toResponse(&leave)
		now := time.Now()
		leave.Status = status
		leave.DecidedBy = &adminID
		leave.DecidedAt = &now

		if err := database.DB.Save(&leave).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İzin başvurusu güncellenemedi")
		}

		username, _ := c.Locals(auth.CtxUsernameKey).(string)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      adminID,
			UserName:    username,
			EntityType:  "leave_application",
			EntityID:    leave.ID,
			Action:      models.AuditActionUpdate,
			Description: "İzin başvurusu karara bağlandı: " + string(status),
			Before:      before,
			After:       toResponse(&leave),
		})

		return c.JSON(toResponse(&leave))
	}
}
