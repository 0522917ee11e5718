package staff

import (
	"errors"
	"strconv"

	"github.com/abhi1580/coaching-center-sub003/model"
	"github.com/abhi1580/coaching-center-sub003/utils/response"
	"github.com/abhi1580/coaching-center-sub003/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StaffHandler handles non-teaching staff records. Plain record keeping, no
// invariants beyond unique email.
type StaffHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(db *gorm.DB) *StaffHandler {
	return &StaffHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateStaffRequest represents the request body for adding a staff member
type CreateStaffRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`
	Designation string `json:"designation" validate:"omitempty,max=100"`
}

// UpdateStaffRequest represents the request body for updating a staff member
type UpdateStaffRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=255"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`
	Designation string `json:"designation" validate:"omitempty,max=100"`
}

// ListStaff handles GET /api/v1/staff
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	query := h.db.Model(&model.Staff{})
	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count staff")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var staff []model.Staff
	if err := query.Order("name ASC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&staff).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch staff")
	}

	return response.Paginated(c, staff, pagination)
}

// GetStaff handles GET /api/v1/staff/:id
func (h *StaffHandler) GetStaff(c *fiber.Ctx) error {
	var staff model.Staff
	if err := h.db.First(&staff, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Staff member not found")
		}
		return response.InternalServerError(c, "Failed to fetch staff member")
	}
	return response.Success(c, staff)
}

// CreateStaff handles POST /api/v1/staff
func (h *StaffHandler) CreateStaff(c *fiber.Ctx) error {
	var req CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var existing model.Staff
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return response.Conflict(c, "A staff member with this email already exists")
	}

	staff := model.Staff{
		Name:        validation.SanitizeString(req.Name),
		Email:       req.Email,
		Phone:       req.Phone,
		Designation: validation.SanitizeString(req.Designation),
	}
	if err := h.db.Create(&staff).Error; err != nil {
		return response.InternalServerError(c, "Failed to create staff member")
	}

	return response.Created(c, staff)
}

// UpdateStaff handles PUT /api/v1/staff/:id
func (h *StaffHandler) UpdateStaff(c *fiber.Ctx) error {
	var staff model.Staff
	if err := h.db.First(&staff, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Staff member not found")
		}
		return response.InternalServerError(c, "Failed to fetch staff member")
	}

	var req UpdateStaffRequest
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
	if req.Designation != "" {
		updates["designation"] = validation.SanitizeString(req.Designation)
	}

	if len(updates) > 0 {
		if err := h.db.Model(&staff).Updates(updates).Error; err != nil {
			return response.InternalServerError(c, "Failed to update staff member")
		}
	}

	return response.Success(c, staff)
}

// DeleteStaff handles DELETE /api/v1/staff/:id
func (h *StaffHandler) DeleteStaff(c *fiber.Ctx) error {
	res := h.db.Delete(&model.Staff{}, c.Params("id"))
	if res.Error != nil {
		return response.InternalServerError(c, "Failed to delete staff member")
	}
	if res.RowsAffected == 0 {
		return response.NotFound(c, "Staff member not found")
	}
	return response.SuccessWithMessage(c, "Staff member deleted successfully", nil)
}
