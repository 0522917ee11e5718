package enrollment

import (
	"errors"
	"strconv"

	"github.com/abhi1580/coaching-center-sub003/services"
	"github.com/abhi1580/coaching-center-sub003/utils/response"
	"github.com/abhi1580/coaching-center-sub003/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EnrollmentHandler exposes the enrollment operations. All roster changes go
// through the enrollment service so a student's batch list and the batch
// roster always move together.
type EnrollmentHandler struct {
	db         *gorm.DB
	validator  *validation.Validator
	enrollment *services.EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(db *gorm.DB, enrollment *services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		db:         db,
		validator:  validation.NewValidator(),
		enrollment: enrollment,
	}
}

// EnrollRequest represents an enroll or unenroll request
type EnrollRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
	BatchID   uint `json:"batch_id" validate:"required"`
}

// Enroll handles POST /api/v1/enrollments
func (h *EnrollmentHandler) Enroll(c *fiber.Ctx) error {
	var req EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.enrollment.Enroll(c.Context(), req.StudentID, req.BatchID); err != nil {
		switch {
		case errors.Is(err, services.ErrStudentNotFound):
			return response.NotFound(c, "Student not found")
		case errors.Is(err, services.ErrBatchNotFound):
			return response.NotFound(c, "Batch not found")
		case errors.Is(err, services.ErrAlreadyEnrolled):
			return response.Conflict(c, "Student is already enrolled in this batch")
		case errors.Is(err, services.ErrBatchFull):
			return response.Conflict(c, "Batch has reached its capacity")
		}
		return response.InternalServerError(c, "Failed to enroll student")
	}

	return response.SuccessWithMessage(c, "Student enrolled successfully", nil)
}

// Unenroll handles DELETE /api/v1/enrollments
func (h *EnrollmentHandler) Unenroll(c *fiber.Ctx) error {
	var req EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.enrollment.Unenroll(c.Context(), req.StudentID, req.BatchID); err != nil {
		switch {
		case errors.Is(err, services.ErrStudentNotFound):
			return response.NotFound(c, "Student not found")
		case errors.Is(err, services.ErrBatchNotFound):
			return response.NotFound(c, "Batch not found")
		case errors.Is(err, services.ErrNotEnrolled):
			return response.Conflict(c, "Student is not enrolled in this batch")
		}
		return response.InternalServerError(c, "Failed to unenroll student")
	}

	return response.SuccessWithMessage(c, "Student unenrolled successfully", nil)
}

// ListBatchStudents handles GET /api/v1/batches/:id/students
func (h *EnrollmentHandler) ListBatchStudents(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid batch ID")
	}

	students, err := h.enrollment.ListBatchStudents(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrBatchNotFound) {
			return response.NotFound(c, "Batch not found")
		}
		return response.InternalServerError(c, "Failed to fetch enrolled students")
	}

	return response.Success(c, students)
}

// Reconcile handles POST /api/v1/enrollments/reconcile. Admin-only: runs the
// convergence sweep on demand and returns the repair report.
func (h *EnrollmentHandler) Reconcile(c *fiber.Ctx) error {
	report, err := h.enrollment.Reconcile(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Reconciliation failed")
	}

	if report.Empty() {
		return response.SuccessWithMessage(c, "Enrollment data is consistent", report)
	}
	return response.SuccessWithMessage(c, "Enrollment data repaired", report)
}
