package batch

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/abhi1580/coaching-center-sub003/model"
	"github.com/abhi1580/coaching-center-sub003/services"
	"github.com/abhi1580/coaching-center-sub003/utils/response"
	"github.com/abhi1580/coaching-center-sub003/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BatchHandler handles batch lifecycle requests
type BatchHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	batches   *services.BatchService
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(db *gorm.DB, batches *services.BatchService) *BatchHandler {
	return &BatchHandler{
		db:        db,
		validator: validation.NewValidator(),
		batches:   batches,
	}
}

// CreateBatchRequest represents the request body for creating a batch.
// Status is absent on purpose: it is derived from the date window.
type CreateBatchRequest struct {
	Name       string               `json:"name" validate:"required,min=2,max=255"`
	StandardID uint                 `json:"standard_id" validate:"required"`
	SubjectID  uint                 `json:"subject_id" validate:"required"`
	TeacherID  uint                 `json:"teacher_id" validate:"required"`
	StartDate  string               `json:"start_date" validate:"required"` // YYYY-MM-DD
	EndDate    string               `json:"end_date" validate:"required"`   // YYYY-MM-DD
	Schedule   *model.BatchSchedule `json:"schedule"`
	Capacity   int                  `json:"capacity" validate:"required,min=1"`
	Fees       float64              `json:"fees" validate:"omitempty,min=0"`
}

// UpdateBatchRequest represents the request body for updating a batch
type UpdateBatchRequest struct {
	Name      string               `json:"name" validate:"omitempty,min=2,max=255"`
	TeacherID *uint                `json:"teacher_id"`
	StartDate string               `json:"start_date" validate:"omitempty"`
	EndDate   string               `json:"end_date" validate:"omitempty"`
	Schedule  *model.BatchSchedule `json:"schedule"`
	Capacity  *int                 `json:"capacity" validate:"omitempty,min=1"`
	Fees      *float64             `json:"fees" validate:"omitempty,min=0"`
}

// ListBatches handles GET /api/v1/batches
func (h *BatchHandler) ListBatches(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	query := h.db.Model(&model.Batch{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if standardID := c.Query("standard_id"); standardID != "" {
		query = query.Where("standard_id = ?", standardID)
	}
	if subjectID := c.Query("subject_id"); subjectID != "" {
		query = query.Where("subject_id = ?", subjectID)
	}
	if teacherID := c.Query("teacher_id"); teacherID != "" {
		query = query.Where("teacher_id = ?", teacherID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count batches")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var batches []model.Batch
	if err := query.Preload("Standard").Preload("Subject").Preload("Teacher").
		Order("start_date DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&batches).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch batches")
	}

	return response.Paginated(c, batches, pagination)
}

// GetBatch handles GET /api/v1/batches/:id
func (h *BatchHandler) GetBatch(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid batch ID")
	}

	batch, err := h.batches.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrBatchNotFound) {
			return response.NotFound(c, "Batch not found")
		}
		return response.InternalServerError(c, "Failed to fetch batch")
	}

	return response.Success(c, batch)
}

// CreateBatch handles POST /api/v1/batches
func (h *BatchHandler) CreateBatch(c *fiber.Ctx) error {
	var req CreateBatchRequest
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

	if err := h.verifyReferences(req.StandardID, req.SubjectID, req.TeacherID); err != nil {
		return response.BadRequest(c, err.Error())
	}

	batch := model.Batch{
		Name:       validation.SanitizeString(req.Name),
		StandardID: req.StandardID,
		SubjectID:  req.SubjectID,
		TeacherID:  req.TeacherID,
		StartDate:  startDate,
		EndDate:    endDate,
		Capacity:   req.Capacity,
		Fees:       req.Fees,
	}
	if req.Schedule != nil {
		raw, err := json.Marshal(req.Schedule)
		if err != nil {
			return response.BadRequest(c, "Invalid schedule")
		}
		batch.Schedule = datatypes.JSON(raw)
	}

	if err := h.batches.Create(c.Context(), &batch); err != nil {
		switch {
		case errors.Is(err, services.ErrDateRange):
			return response.BadRequest(c, "End date must not be before start date")
		case errors.Is(err, services.ErrInvalidCapacity):
			return response.BadRequest(c, "Capacity must be a positive integer")
		}
		return response.InternalServerError(c, "Failed to create batch")
	}

	return response.Created(c, batch)
}

// UpdateBatch handles PUT /api/v1/batches/:id
func (h *BatchHandler) UpdateBatch(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid batch ID")
	}

	var req UpdateBatchRequest
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
	if req.TeacherID != nil {
		var teacher model.Teacher
		if err := h.db.First(&teacher, *req.TeacherID).Error; err != nil {
			return response.BadRequest(c, "Teacher does not exist")
		}
		updates["teacher_id"] = *req.TeacherID
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
	if req.Schedule != nil {
		raw, err := json.Marshal(req.Schedule)
		if err != nil {
			return response.BadRequest(c, "Invalid schedule")
		}
		updates["schedule"] = datatypes.JSON(raw)
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.Fees != nil {
		updates["fees"] = *req.Fees
	}

	batch, err := h.batches.Update(c.Context(), uint(id), updates)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBatchNotFound):
			return response.NotFound(c, "Batch not found")
		case errors.Is(err, services.ErrDateRange):
			return response.BadRequest(c, "End date must not be before start date")
		case errors.Is(err, services.ErrInvalidCapacity):
			return response.BadRequest(c, "Capacity must be a positive integer")
		case errors.Is(err, services.ErrCapacityBelowRoster):
			return response.BadRequest(c, "Capacity cannot be below the current roster size")
		}
		return response.InternalServerError(c, "Failed to update batch")
	}

	return response.Success(c, batch)
}

// DeleteBatch handles DELETE /api/v1/batches/:id
func (h *BatchHandler) DeleteBatch(c *fiber.Ctx) error {
	res := h.db.Delete(&model.Batch{}, c.Params("id"))
	if res.Error != nil {
		return response.InternalServerError(c, "Failed to delete batch")
	}
	if res.RowsAffected == 0 {
		return response.NotFound(c, "Batch not found")
	}
	return response.SuccessWithMessage(c, "Batch deleted successfully", nil)
}

func (h *BatchHandler) verifyReferences(standardID, subjectID, teacherID uint) error {
	var standard model.Standard
	if err := h.db.First(&standard, standardID).Error; err != nil {
		return errors.New("standard does not exist")
	}
	var subject model.Subject
	if err := h.db.First(&subject, subjectID).Error; err != nil {
		return errors.New("subject does not exist")
	}
	var teacher model.Teacher
	if err := h.db.First(&teacher, teacherID).Error; err != nil {
		return errors.New("teacher does not exist")
	}
	return nil
}
