package model

import (
	"time"

	"gorm.io/gorm"
)

// Standard represents a class/grade level offered by the center (e.g., "Class 10")
type Standard struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"not null;uniqueIndex" json:"name"`
	Level       int            `gorm:"not null" json:"level"`
	Description string         `gorm:"type:text" json:"description"`
}

// Subject represents a taught subject (e.g., "Physics")
type Subject struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"not null" json:"name"`
	Code        string         `gorm:"uniqueIndex;not null" json:"code"` // e.g., "PHY", "MATH"
	Description string         `gorm:"type:text" json:"description"`
}
