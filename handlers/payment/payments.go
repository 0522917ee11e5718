package payment

import (
	"errors"
	"strconv"
	"time"

	"github.com/abhi1580/coaching-center-sub003/model"
	"github.com/abhi1580/coaching-center-sub003/utils/middleware"
	"github.com/abhi1580/coaching-center-sub003/utils/response"
	"github.com/abhi1580/coaching-center-sub003/utils/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentHandler handles fee payment records
type PaymentHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(db *gorm.DB) *PaymentHandler {
	return &PaymentHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreatePaymentRequest represents the request body for recording a payment
type CreatePaymentRequest struct {
	StudentID uint    `json:"student_id" validate:"required"`
	BatchID   uint    `json:"batch_id" validate:"omitempty"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Mode      string  `json:"mode" validate:"omitempty,oneof=cash upi card online"`
	PaidAt    string  `json:"paid_at" validate:"omitempty"` // YYYY-MM-DD, defaults to today
	Notes     string  `json:"notes" validate:"omitempty,max=1000"`
}

// ListPayments handles GET /api/v1/payments
func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	query := h.db.Model(&model.Payment{})
	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if batchID := c.Query("batch_id"); batchID != "" {
		query = query.Where("batch_id = ?", batchID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count payments")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var payments []model.Payment
	if err := query.Order("paid_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&payments).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch payments")
	}

	return response.Paginated(c, payments, pagination)
}

// GetPayment handles GET /api/v1/payments/:id
func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	var payment model.Payment
	if err := h.db.First(&payment, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Payment not found")
		}
		return response.InternalServerError(c, "Failed to fetch payment")
	}
	return response.Success(c, payment)
}

// CreatePayment handles POST /api/v1/payments. A receipt number is issued on
// creation and never reused; payments are append-only.
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var student model.Student
	if err := h.db.First(&student, req.StudentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.BadRequest(c, "Student does not exist")
		}
		return response.InternalServerError(c, "Failed to verify student")
	}

	if req.BatchID != 0 {
		var batch model.Batch
		if err := h.db.First(&batch, req.BatchID).Error; err != nil {
			return response.BadRequest(c, "Batch does not exist")
		}
	}

	paidAt := time.Now()
	if req.PaidAt != "" {
		parsed, err := validation.ParseISODate(req.PaidAt)
		if err != nil {
			return response.BadRequest(c, "Invalid payment date, expected YYYY-MM-DD")
		}
		paidAt = parsed
	}

	mode := req.Mode
	if mode == "" {
		mode = model.PaymentCash
	}

	payment := model.Payment{
		StudentID:     req.StudentID,
		BatchID:       req.BatchID,
		Amount:        req.Amount,
		Mode:          mode,
		PaidAt:        paidAt,
		ReceiptNumber: uuid.New().String(),
		RecordedBy:    userID,
		Notes:         validation.SanitizeString(req.Notes),
	}
	if err := h.db.Create(&payment).Error; err != nil {
		return response.InternalServerError(c, "Failed to record payment")
	}

	return response.Created(c, payment)
}

// StudentPayments handles GET /api/v1/students/:id/payments
func (h *PaymentHandler) StudentPayments(c *fiber.Ctx) error {
	studentID := c.Params("id")

	var student model.Student
	if err := h.db.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to fetch student")
	}

	var payments []model.Payment
	if err := h.db.Where("student_id = ?", studentID).
		Order("paid_at DESC").
		Find(&payments).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch payments")
	}

	return response.Success(c, payments)
}
