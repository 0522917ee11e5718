package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Teacher represents a teaching staff member
type Teacher struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Name          string         `gorm:"not null" json:"name"`
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone         string         `gorm:"type:varchar(20)" json:"phone"`
	Qualification string         `gorm:"type:varchar(255)" json:"qualification"`
	SubjectIDs    pq.Int64Array  `gorm:"type:bigint[];not null;default:'{}'" json:"subject_ids"`
	JoinedAt      *time.Time     `json:"joined_at,omitempty"`
}

// Staff represents non-teaching staff (plain record keeping, no invariants)
type Staff struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"not null" json:"name"`
	Email       string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone       string         `gorm:"type:varchar(20)" json:"phone"`
	Designation string         `gorm:"type:varchar(100)" json:"designation"`
}
