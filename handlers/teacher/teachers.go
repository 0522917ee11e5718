package teacher

import (
	"errors"
	"strconv"

	"github.com/abhi1580/coaching-center-sub003/model"
	"github.com/abhi1580/coaching-center-sub003/utils/response"
	"github.com/abhi1580/coaching-center-sub003/utils/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// TeacherHandler handles teacher record requests
type TeacherHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewTeacherHandler creates a new teacher handler
func NewTeacherHandler(db *gorm.DB) *TeacherHandler {
	return &TeacherHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateTeacherRequest represents the request body for adding a teacher
type CreateTeacherRequest struct {
	Name          string  `json:"name" validate:"required,min=2,max=255"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         string  `json:"phone" validate:"omitempty,max=20"`
	Qualification string  `json:"qualification" validate:"omitempty,max=255"`
	SubjectIDs    []int64 `json:"subject_ids" validate:"omitempty,dive,min=1"`
}

// UpdateTeacherRequest represents the request body for updating a teacher
type UpdateTeacherRequest struct {
	Name          string   `json:"name" validate:"omitempty,min=2,max=255"`
	Phone         string   `json:"phone" validate:"omitempty,max=20"`
	Qualification string   `json:"qualification" validate:"omitempty,max=255"`
	SubjectIDs    *[]int64 `json:"subject_ids" validate:"omitempty,dive,min=1"`
}

// ListTeachers handles GET /api/v1/teachers
func (h *TeacherHandler) ListTeachers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")

	query := h.db.Model(&model.Teacher{})
	if search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count teachers")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var teachers []model.Teacher
	if err := query.Order("name ASC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&teachers).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch teachers")
	}

	return response.Paginated(c, teachers, pagination)
}

// GetTeacher handles GET /api/v1/teachers/:id
func (h *TeacherHandler) GetTeacher(c *fiber.Ctx) error {
	var teacher model.Teacher
	if err := h.db.First(&teacher, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Teacher not found")
		}
		return response.InternalServerError(c, "Failed to fetch teacher")
	}
	return response.Success(c, teacher)
}

// CreateTeacher handles POST /api/v1/teachers
func (h *TeacherHandler) CreateTeacher(c *fiber.Ctx) error {
	var req CreateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var existing model.Teacher
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return response.Conflict(c, "A teacher with this email already exists")
	}

	subjectIDs := pq.Int64Array{}
	if req.SubjectIDs != nil {
		subjectIDs = pq.Int64Array(req.SubjectIDs)
	}

	teacher := model.Teacher{
		Name:          validation.SanitizeString(req.Name),
		Email:         req.Email,
		Phone:         req.Phone,
		Qualification: validation.SanitizeString(req.Qualification),
		SubjectIDs:    subjectIDs,
	}
	if err := h.db.Create(&teacher).Error; err != nil {
		return response.InternalServerError(c, "Failed to create teacher")
	}

	return response.Created(c, teacher)
}

// UpdateTeacher handles PUT /api/v1/teachers/:id
func (h *TeacherHandler) UpdateTeacher(c *fiber.Ctx) error {
	var teacher model.Teacher
	if err := h.db.First(&teacher, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Teacher not found")
		}
		return response.InternalServerError(c, "Failed to fetch teacher")
	}

	var req UpdateTeacherRequest
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
	if req.Qualification != "" {
		updates["qualification"] = validation.SanitizeString(req.Qualification)
	}
	if req.SubjectIDs != nil {
		updates["subject_ids"] = pq.Int64Array(*req.SubjectIDs)
	}

	if len(updates) > 0 {
		if err := h.db.Model(&teacher).Updates(updates).Error; err != nil {
			return response.InternalServerError(c, "Failed to update teacher")
		}
	}

	return response.Success(c, teacher)
}

// DeleteTeacher handles DELETE /api/v1/teachers/:id
func (h *TeacherHandler) DeleteTeacher(c *fiber.Ctx) error {
	res := h.db.Delete(&model.Teacher{}, c.Params("id"))
	if res.Error != nil {
		return response.InternalServerError(c, "Failed to delete teacher")
	}
	if res.RowsAffected == 0 {
		return response.NotFound(c, "Teacher not found")
	}
	return response.SuccessWithMessage(c, "Teacher deleted successfully", nil)
}
