package model

import (
	"time"

	"gorm.io/gorm"
)

// Payment modes
const (
	PaymentCash   = "cash"
	PaymentUPI    = "upi"
	PaymentCard   = "card"
	PaymentOnline = "online"
)

// Payment records a fee payment by a student towards a batch.
type Payment struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	StudentID     uint           `gorm:"not null;index" json:"student_id"`
	BatchID       uint           `gorm:"index" json:"batch_id"`
	Amount        float64        `gorm:"not null" json:"amount"`
	Mode          string         `gorm:"type:varchar(20);default:'cash'" json:"mode"`
	PaidAt        time.Time      `gorm:"not null" json:"paid_at"`
	ReceiptNumber string         `gorm:"uniqueIndex;not null" json:"receipt_number"` // uuid, issued on creation
	RecordedBy    uint           `gorm:"not null" json:"recorded_by"`
	Notes         string         `gorm:"type:text" json:"notes"`
}
