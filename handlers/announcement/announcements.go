package announcement

import (
	"errors"
	"strconv"

	"github.com/abhi1580/coaching-center-sub003/model"
	"github.com/abhi1580/coaching-center-sub003/services"
	"github.com/abhi1580/coaching-center-sub003/utils/middleware"
	"github.com/abhi1580/coaching-center-sub003/utils/response"
	"github.com/abhi1580/coaching-center-sub003/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AnnouncementHandler handles announcement requests
type AnnouncementHandler struct {
	db            *gorm.DB
	validator     *validation.Validator
	announcements *services.AnnouncementService
}

// NewAnnouncementHandler creates a new announcement handler
func NewAnnouncementHandler(db *gorm.DB, announcements *services.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{
		db:            db,
		validator:     validation.NewValidator(),
		announcements: announcements,
	}
}

// CreateAnnouncementRequest represents the request body for an announcement
type CreateAnnouncementRequest struct {
	Title          string `json:"title" validate:"required,min=2,max=255"`
	Content        string `json:"content" validate:"required"`
	TargetAudience string `json:"target_audience" validate:"omitempty,oneof=All Students Teachers Staff"`
	StartDate      string `json:"start_date" validate:"required"` // YYYY-MM-DD
	EndDate        string `json:"end_date" validate:"required"`   // YYYY-MM-DD
}

// UpdateAnnouncementRequest represents the request body for updating one
type UpdateAnnouncementRequest struct {
	Title          string `json:"title" validate:"omitempty,min=2,max=255"`
	Content        string `json:"content" validate:"omitempty"`
	TargetAudience string `json:"target_audience" validate:"omitempty,oneof=All Students Teachers Staff"`
	StartDate      string `json:"start_date" validate:"omitempty"`
	EndDate        string `json:"end_date" validate:"omitempty"`
}

// List handles GET /api/v1/announcements. The result is filtered to what the
// caller's role is allowed to see.
func (h *AnnouncementHandler) List(c *fiber.Ctx) error {
	role, ok := middleware.GetUserRole(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var (
		anns []model.Announcement
		err  error
	)
	if c.Query("active") == "true" {
		anns, err = h.announcements.ListActiveForRole(c.Context(), role)
	} else {
		anns, err = h.announcements.ListForRole(c.Context(), role)
	}
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch announcements")
	}

	return response.Success(c, anns)
}

// Get handles GET /api/v1/announcements/:id
func (h *AnnouncementHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid announcement ID")
	}

	ann, err := h.announcements.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrAnnouncementNotFound) {
			return response.NotFound(c, "Announcement not found")
		}
		return response.InternalServerError(c, "Failed to fetch announcement")
	}

	return response.Success(c, ann)
}

// Create handles POST /api/v1/announcements
func (h *AnnouncementHandler) Create(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req CreateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	startDate, err := validation.ParseISODate(req.StartDate)
	if err != nil {
		return response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
	}
	endDate, err := validation.ParseISODate(req.EndDate)
	if err != nil {
		return response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
	}

	ann := model.Announcement{
		Title:          validation.SanitizeString(req.Title),
		Content:        req.Content,
		TargetAudience: req.TargetAudience,
		StartDate:      startDate,
		EndDate:        endDate,
		CreatedBy:      userID,
	}
	if err := h.announcements.Create(c.Context(), &ann); err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidDateRange):
			return response.BadRequest(c, "End date must not be before start date")
		case errors.Is(err, services.ErrInvalidAudience):
			return response.BadRequest(c, "Invalid target audience")
		}
		return response.InternalServerError(c, "Failed to create announcement")
	}

	return response.Created(c, ann)
}

// Update handles PUT /api/v1/announcements/:id
func (h *AnnouncementHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid announcement ID")
	}

	var req UpdateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = validation.SanitizeString(req.Title)
	}
	if req.Content != "" {
		updates["content"] = req.Content
	}
	if req.TargetAudience != "" {
		updates["target_audience"] = req.TargetAudience
	}
	if req.StartDate != "" {
		startDate, err := validation.ParseISODate(req.StartDate)
		if err != nil {
			return response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
		}
		updates["start_date"] = startDate
	}
	if req.EndDate != "" {
		endDate, err := validation.ParseISODate(req.EndDate)
		if err != nil {
			return response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
		}
		updates["end_date"] = endDate
	}

	ann, err := h.announcements.Update(c.Context(), uint(id), updates)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAnnouncementNotFound):
			return response.NotFound(c, "Announcement not found")
		case errors.Is(err, model.ErrInvalidDateRange):
			return response.BadRequest(c, "End date must not be before start date")
		case errors.Is(err, services.ErrInvalidAudience):
			return response.BadRequest(c, "Invalid target audience")
		}
		return response.InternalServerError(c, "Failed to update announcement")
	}

	return response.Success(c, ann)
}

// Delete handles DELETE /api/v1/announcements/:id
func (h *AnnouncementHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid announcement ID")
	}

	if err := h.announcements.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrAnnouncementNotFound) {
			return response.NotFound(c, "Announcement not found")
		}
		return response.InternalServerError(c, "Failed to delete announcement")
	}

	return response.SuccessWithMessage(c, "Announcement deleted successfully", nil)
}
