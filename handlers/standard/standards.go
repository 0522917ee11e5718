package standard

import (
	"errors"

	"github.com/abhi1580/coaching-center-sub003/model"
	"github.com/abhi1580/coaching-center-sub003/utils/response"
	"github.com/abhi1580/coaching-center-sub003/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StandardHandler handles class/grade level reference data
type StandardHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewStandardHandler creates a new standard handler
func NewStandardHandler(db *gorm.DB) *StandardHandler {
	return &StandardHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateStandardRequest represents the request body for creating a standard
type CreateStandardRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Level       int    `json:"level" validate:"required,min=1,max=20"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// UpdateStandardRequest represents the request body for updating a standard
type UpdateStandardRequest struct {
	Name        string `json:"name" validate:"omitempty,min=1,max=255"`
	Level       *int   `json:"level" validate:"omitempty,min=1,max=20"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// ListStandards handles GET /api/v1/standards
func (h *StandardHandler) ListStandards(c *fiber.Ctx) error {
	var standards []model.Standard
	if err := h.db.Order("level ASC").Find(&standards).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch standards")
	}
	return response.Success(c, standards)
}

// GetStandard handles GET /api/v1/standards/:id
func (h *StandardHandler) GetStandard(c *fiber.Ctx) error {
	var standard model.Standard
	if err := h.db.First(&standard, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Standard not found")
		}
		return response.InternalServerError(c, "Failed to fetch standard")
	}
	return response.Success(c, standard)
}

// CreateStandard handles POST /api/v1/standards
func (h *StandardHandler) CreateStandard(c *fiber.Ctx) error {
	var req CreateStandardRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var existing model.Standard
	if err := h.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return response.Conflict(c, "A standard with this name already exists")
	}

	standard := model.Standard{
		Name:        validation.SanitizeString(req.Name),
		Level:       req.Level,
		Description: validation.SanitizeString(req.Description),
	}
	if err := h.db.Create(&standard).Error; err != nil {
		return response.InternalServerError(c, "Failed to create standard")
	}

	return response.Created(c, standard)
}

// UpdateStandard handles PUT /api/v1/standards/:id
func (h *StandardHandler) UpdateStandard(c *fiber.Ctx) error {
	var standard model.Standard
	if err := h.db.First(&standard, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Standard not found")
		}
		return response.InternalServerError(c, "Failed to fetch standard")
	}

	var req UpdateStandardRequest
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
	if req.Level != nil {
		updates["level"] = *req.Level
	}
	if req.Description != "" {
		updates["description"] = validation.SanitizeString(req.Description)
	}

	if len(updates) > 0 {
		if err := h.db.Model(&standard).Updates(updates).Error; err != nil {
			return response.InternalServerError(c, "Failed to update standard")
		}
	}

	return response.Success(c, standard)
}

// DeleteStandard handles DELETE /api/v1/standards/:id
func (h *StandardHandler) DeleteStandard(c *fiber.Ctx) error {
	res := h.db.Delete(&model.Standard{}, c.Params("id"))
	if res.Error != nil {
		return response.InternalServerError(c, "Failed to delete standard")
	}
	if res.RowsAffected == 0 {
		return response.NotFound(c, "Standard not found")
	}
	return response.SuccessWithMessage(c, "Standard deleted successfully", nil)
}
