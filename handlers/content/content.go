package content

import (
	"strconv"

	"github.com/abhi1580/coaching-center-sub003/model"
	"github.com/abhi1580/coaching-center-sub003/utils/middleware"
	"github.com/abhi1580/coaching-center-sub003/utils/response"
	"github.com/abhi1580/coaching-center-sub003/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ContentHandler handles study material metadata: notes and videos. Files
// live on external storage; only URLs are kept here.
type ContentHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewContentHandler creates a new content handler
func NewContentHandler(db *gorm.DB) *ContentHandler {
	return &ContentHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateNoteRequest represents the request body for sharing a note
type CreateNoteRequest struct {
	Title      string `json:"title" validate:"required,min=2,max=255"`
	SubjectID  uint   `json:"subject_id" validate:"required"`
	StandardID uint   `json:"standard_id" validate:"required"`
	FileURL    string `json:"file_url" validate:"required,url,max=512"`
}

// CreateVideoRequest represents the request body for sharing a video
type CreateVideoRequest struct {
	Title      string `json:"title" validate:"required,min=2,max=255"`
	SubjectID  uint   `json:"subject_id" validate:"required"`
	StandardID uint   `json:"standard_id" validate:"required"`
	VideoURL   string `json:"video_url" validate:"required,url,max=512"`
	Duration   int    `json:"duration" validate:"omitempty,min=0"`
}

// ListNotes handles GET /api/v1/notes
func (h *ContentHandler) ListNotes(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	query := h.db.Model(&model.Note{})
	if subjectID := c.Query("subject_id"); subjectID != "" {
		query = query.Where("subject_id = ?", subjectID)
	}
	if standardID := c.Query("standard_id"); standardID != "" {
		query = query.Where("standard_id = ?", standardID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count notes")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var notes []model.Note
	if err := query.Order("created_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&notes).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch notes")
	}

	return response.Paginated(c, notes, pagination)
}

// CreateNote handles POST /api/v1/notes
func (h *ContentHandler) CreateNote(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	note := model.Note{
		Title:      validation.SanitizeString(req.Title),
		SubjectID:  req.SubjectID,
		StandardID: req.StandardID,
		FileURL:    req.FileURL,
		UploadedBy: userID,
	}
	if err := h.db.Create(&note).Error; err != nil {
		return response.InternalServerError(c, "Failed to create note")
	}

	return response.Created(c, note)
}

// DeleteNote handles DELETE /api/v1/notes/:id
func (h *ContentHandler) DeleteNote(c *fiber.Ctx) error {
	res := h.db.Delete(&model.Note{}, c.Params("id"))
	if res.Error != nil {
		return response.InternalServerError(c, "Failed to delete note")
	}
	if res.RowsAffected == 0 {
		return response.NotFound(c, "Note not found")
	}
	return response.SuccessWithMessage(c, "Note deleted successfully", nil)
}

// ListVideos handles GET /api/v1/videos
func (h *ContentHandler) ListVideos(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	query := h.db.Model(&model.Video{})
	if subjectID := c.Query("subject_id"); subjectID != "" {
		query = query.Where("subject_id = ?", subjectID)
	}
	if standardID := c.Query("standard_id"); standardID != "" {
		query = query.Where("standard_id = ?", standardID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count videos")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var videos []model.Video
	if err := query.Order("created_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&videos).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch videos")
	}

	return response.Paginated(c, videos, pagination)
}

// CreateVideo handles POST /api/v1/videos
func (h *ContentHandler) CreateVideo(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req CreateVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	video := model.Video{
		Title:      validation.SanitizeString(req.Title),
		SubjectID:  req.SubjectID,
		StandardID: req.StandardID,
		VideoURL:   req.VideoURL,
		Duration:   req.Duration,
		UploadedBy: userID,
	}
	if err := h.db.Create(&video).Error; err != nil {
		return response.InternalServerError(c, "Failed to create video")
	}

	return response.Created(c, video)
}

// DeleteVideo handles DELETE /api/v1/videos/:id
func (h *ContentHandler) DeleteVideo(c *fiber.Ctx) error {
	res := h.db.Delete(&model.Video{}, c.Params("id"))
	if res.Error != nil {
		return response.InternalServerError(c, "Failed to delete video")
	}
	if res.RowsAffected == 0 {
		return response.NotFound(c, "Video not found")
	}
	return response.SuccessWithMessage(c, "Video deleted successfully", nil)
}
