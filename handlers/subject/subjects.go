package subject

import (
	"errors"
	"strings"

	"github.com/abhi1580/coaching-center-sub003/model"
	"github.com/abhi1580/coaching-center-sub003/utils/response"
	"github.com/abhi1580/coaching-center-sub003/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SubjectHandler handles subject reference data
type SubjectHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewSubjectHandler creates a new subject handler
func NewSubjectHandler(db *gorm.DB) *SubjectHandler {
	return &SubjectHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateSubjectRequest represents the request body for creating a subject
type CreateSubjectRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Code        string `json:"code" validate:"required,min=2,max=50"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// UpdateSubjectRequest represents the request body for updating a subject
type UpdateSubjectRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=255"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// ListSubjects handles GET /api/v1/subjects
func (h *SubjectHandler) ListSubjects(c *fiber.Ctx) error {
	query := h.db.Model(&model.Subject{})
	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var subjects []model.Subject
	if err := query.Order("code ASC").Find(&subjects).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch subjects")
	}
	return response.Success(c, subjects)
}

// GetSubject handles GET /api/v1/subjects/:id
func (h *SubjectHandler) GetSubject(c *fiber.Ctx) error {
	var subject model.Subject
	if err := h.db.First(&subject, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Subject not found")
		}
		return response.InternalServerError(c, "Failed to fetch subject")
	}
	return response.Success(c, subject)
}

// CreateSubject handles POST /api/v1/subjects
func (h *SubjectHandler) CreateSubject(c *fiber.Ctx) error {
	var req CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))

	var existing model.Subject
	if err := h.db.Where("code = ?", code).First(&existing).Error; err == nil {
		return response.Conflict(c, "A subject with this code already exists")
	}

	subject := model.Subject{
		Name:        validation.SanitizeString(req.Name),
		Code:        code,
		Description: validation.SanitizeString(req.Description),
	}
	if err := h.db.Create(&subject).Error; err != nil {
		return response.InternalServerError(c, "Failed to create subject")
	}

	return response.Created(c, subject)
}

// UpdateSubject handles PUT /api/v1/subjects/:id. The code is immutable once
// issued; students and teachers reference subjects by ID but humans use the
// code, so it never changes under them.
func (h *SubjectHandler) UpdateSubject(c *fiber.Ctx) error {
	var subject model.Subject
	if err := h.db.First(&subject, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Subject not found")
		}
		return response.InternalServerError(c, "Failed to fetch subject")
	}

	var req UpdateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = validation.SanitizeString(req.Name)
	}
	if req.Description != "" {
		updates["description"] = validation.SanitizeString(req.Description)
	}

	if len(updates) > 0 {
		if err := h.db.Model(&subject).Updates(updates).Error; err != nil {
			return response.InternalServerError(c, "Failed to update subject")
		}
	}

	return response.Success(c, subject)
}

// DeleteSubject handles DELETE /api/v1/subjects/:id
func (h *SubjectHandler) DeleteSubject(c *fiber.Ctx) error {
	res := h.db.Delete(&model.Subject{}, c.Params("id"))
	if res.Error != nil {
		return response.InternalServerError(c, "Failed to delete subject")
	}
	if res.RowsAffected == 0 {
		return response.NotFound(c, "Subject not found")
	}
	return response.SuccessWithMessage(c, "Subject deleted successfully", nil)
}
