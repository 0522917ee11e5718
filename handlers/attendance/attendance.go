package attendance

import (
	"errors"
	"strconv"

	"github.com/abhi1580/coaching-center-sub003/services"
	"github.com/abhi1580/coaching-center-sub003/utils/middleware"
	"github.com/abhi1580/coaching-center-sub003/utils/response"
	"github.com/abhi1580/coaching-center-sub003/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AttendanceHandler handles attendance submission and statistics
type AttendanceHandler struct {
	db         *gorm.DB
	validator  *validation.Validator
	attendance *services.AttendanceService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(db *gorm.DB, attendance *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		db:         db,
		validator:  validation.NewValidator(),
		attendance: attendance,
	}
}

// SubmitAttendanceRequest represents a batch-day attendance submission
type SubmitAttendanceRequest struct {
	Date    string                      `json:"date" validate:"required"` // YYYY-MM-DD
	Records []services.AttendanceRecord `json:"records" validate:"required,min=1,dive"`
}

// Submit handles POST /api/v1/batches/:id/attendance. The response carries a
// per-record outcome list; a 200 does not mean every record landed.
func (h *AttendanceHandler) Submit(c *fiber.Ctx) error {
	batchID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid batch ID")
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req SubmitAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(req.Records) == 0 {
		return response.BadRequest(c, "At least one attendance record is required")
	}

	result, err := h.attendance.SubmitBatchAttendance(c.Context(), uint(batchID), req.Date, userID, req.Records)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDate):
			return response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		case errors.Is(err, services.ErrBatchNotFound):
			return response.NotFound(c, "Batch not found")
		case errors.Is(err, services.ErrTooManyRecords):
			return response.BadRequest(c, "More records than the batch capacity allows")
		}
		return response.InternalServerError(c, "Failed to record attendance")
	}

	return response.Success(c, result)
}

// GetByDay handles GET /api/v1/batches/:id/attendance?date=YYYY-MM-DD
func (h *AttendanceHandler) GetByDay(c *fiber.Ctx) error {
	batchID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid batch ID")
	}

	date := c.Query("date")
	if date == "" {
		return response.BadRequest(c, "date query parameter is required")
	}

	records, err := h.attendance.GetBatchAttendance(c.Context(), uint(batchID), date)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDate):
			return response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		case errors.Is(err, services.ErrBatchNotFound):
			return response.NotFound(c, "Batch not found")
		}
		return response.InternalServerError(c, "Failed to fetch attendance")
	}

	return response.Success(c, records)
}

// GetStudentStats handles GET /api/v1/students/:id/attendance/:batch_id
func (h *AttendanceHandler) GetStudentStats(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid student ID")
	}
	batchID, err := strconv.ParseUint(c.Params("batch_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid batch ID")
	}

	stats, err := h.attendance.GetStudentBatchStats(c.Context(), uint(studentID), uint(batchID))
	if err != nil {
		return response.InternalServerError(c, "Failed to compute attendance statistics")
	}

	return response.Success(c, stats)
}

// GetBatchDayStats handles GET /api/v1/batches/:id/attendance/stats?date=YYYY-MM-DD
func (h *AttendanceHandler) GetBatchDayStats(c *fiber.Ctx) error {
	batchID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid batch ID")
	}

	date := c.Query("date")
	if date == "" {
		return response.BadRequest(c, "date query parameter is required")
	}

	stats, err := h.attendance.GetBatchDayStats(c.Context(), uint(batchID), date)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDate):
			return response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		case errors.Is(err, services.ErrBatchNotFound):
			return response.NotFound(c, "Batch not found")
		}
		return response.InternalServerError(c, "Failed to compute attendance statistics")
	}

	return response.Success(c, stats)
}
