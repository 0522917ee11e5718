package student

import (
	"errors"
	"strconv"

	"github.com/abhi1580/coaching-center-sub003/model"
	"github.com/abhi1580/coaching-center-sub003/services"
	"github.com/abhi1580/coaching-center-sub003/utils/response"
	"github.com/abhi1580/coaching-center-sub003/utils/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// StudentHandler handles student record requests
type StudentHandler struct {
	db         *gorm.DB
	validator  *validation.Validator
	enrollment *services.EnrollmentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(db *gorm.DB, enrollment *services.EnrollmentService) *StudentHandler {
	return &StudentHandler{
		db:         db,
		validator:  validation.NewValidator(),
		enrollment: enrollment,
	}
}

// CreateStudentRequest represents the request body for admitting a student
type CreateStudentRequest struct {
	Name       string  `json:"name" validate:"required,min=2,max=255"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      string  `json:"phone" validate:"omitempty,max=20"`
	StandardID uint    `json:"standard_id" validate:"required"`
	SubjectIDs []int64 `json:"subject_ids" validate:"omitempty,dive,min=1"`
	Guardian   string  `json:"guardian" validate:"omitempty,max=255"`
	Address    string  `json:"address" validate:"omitempty,max=1000"`
}

// UpdateStudentRequest represents the request body for updating a student
type UpdateStudentRequest struct {
	Name       string   `json:"name" validate:"omitempty,min=2,max=255"`
	Phone      string   `json:"phone" validate:"omitempty,max=20"`
	StandardID *uint    `json:"standard_id"`
	SubjectIDs *[]int64 `json:"subject_ids" validate:"omitempty,dive,min=1"`
	Status     string   `json:"status" validate:"omitempty,oneof=active inactive"`
	Guardian   string   `json:"guardian" validate:"omitempty,max=255"`
	Address    string   `json:"address" validate:"omitempty,max=1000"`
}

// ListStudents handles GET /api/v1/students
func (h *StudentHandler) ListStudents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")
	status := c.Query("status", "")

	query := h.db.Model(&model.Student{})
	if search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if standardID := c.Query("standard_id"); standardID != "" {
		query = query.Where("standard_id = ?", standardID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count students")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var students []model.Student
	if err := query.Preload("Standard").
		Order("name ASC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&students).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch students")
	}

	return response.Paginated(c, students, pagination)
}

// GetStudent handles GET /api/v1/students/:id
func (h *StudentHandler) GetStudent(c *fiber.Ctx) error {
	id := c.Params("id")

	var student model.Student
	if err := h.db.Preload("Standard").First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to fetch student")
	}

	return response.Success(c, student)
}

// CreateStudent handles POST /api/v1/students
func (h *StudentHandler) CreateStudent(c *fiber.Ctx) error {
	var req CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var standard model.Standard
	if err := h.db.First(&standard, req.StandardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.BadRequest(c, "Standard does not exist")
		}
		return response.InternalServerError(c, "Failed to verify standard")
	}

	var existing model.Student
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return response.Conflict(c, "A student with this email already exists")
	}

	subjectIDs := pq.Int64Array{}
	if req.SubjectIDs != nil {
		subjectIDs = pq.Int64Array(req.SubjectIDs)
	}

	student := model.Student{
		Name:       validation.SanitizeString(req.Name),
		Email:      req.Email,
		Phone:      req.Phone,
		StandardID: req.StandardID,
		SubjectIDs: subjectIDs,
		BatchIDs:   pq.Int64Array{},
		Status:     model.StudentActive,
		Guardian:   validation.SanitizeString(req.Guardian),
		Address:    validation.SanitizeString(req.Address),
	}
	if err := h.db.Create(&student).Error; err != nil {
		return response.InternalServerError(c, "Failed to create student")
	}

	return response.Created(c, student)
}

// UpdateStudent handles PUT /api/v1/students/:id. Batch membership is not
// editable here; enrollment has its own endpoints so both sides of the
// pairing always move together.
func (h *StudentHandler) UpdateStudent(c *fiber.Ctx) error {
	id := c.Params("id")

	var student model.Student
	if err := h.db.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to fetch student")
	}

	var req UpdateStudentRequest
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
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.StandardID != nil {
		var standard model.Standard
		if err := h.db.First(&standard, *req.StandardID).Error; err != nil {
			return response.BadRequest(c, "Standard does not exist")
		}
		updates["standard_id"] = *req.StandardID
	}
	if req.SubjectIDs != nil {
		updates["subject_ids"] = pq.Int64Array(*req.SubjectIDs)
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.Guardian != "" {
		updates["guardian"] = validation.SanitizeString(req.Guardian)
	}
	if req.Address != "" {
		updates["address"] = validation.SanitizeString(req.Address)
	}

	if len(updates) > 0 {
		if err := h.db.Model(&student).Updates(updates).Error; err != nil {
			return response.InternalServerError(c, "Failed to update student")
		}
	}

	return response.Success(c, student)
}

// DeleteStudent handles DELETE /api/v1/students/:id. Withdrawal cascades:
// the student is removed from every batch roster and their attendance facts
// are erased before the record itself goes.
func (h *StudentHandler) DeleteStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid student ID")
	}

	if err := h.enrollment.DeleteStudent(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to delete student")
	}

	return response.SuccessWithMessage(c, "Student deleted successfully", nil)
}
