package auth

import (
	"time"

	"github.com/abhi1580/coaching-center-sub003/utils/auth"
	"github.com/abhi1580/coaching-center-sub003/utils/validation"
	"gorm.io/gorm"
)

// AuthHandler handles account registration, login and token lifecycle.
type AuthHandler struct {
	db         *gorm.DB
	validator  *validation.Validator
	jwtManager *auth.JWTManager
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(db *gorm.DB, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		db:         db,
		validator:  validation.NewValidator(),
		jwtManager: jwtManager,
	}
}

// UserResponse is the account shape returned by auth endpoints.
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
