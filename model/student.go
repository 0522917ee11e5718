package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Student lifecycle status
const (
	StudentActive   = "active"
	StudentInactive = "inactive"
)

// Student represents an admitted student.
//
// BatchIDs is the student's own view of enrollment. The authoritative pairing
// with Batch.EnrolledStudentIDs is maintained by the enrollment service and
// converged by its reconcile sweep.
type Student struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Name       string         `gorm:"not null" json:"name"`
	Email      string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone      string         `gorm:"type:varchar(20)" json:"phone"`
	StandardID uint           `gorm:"index" json:"standard_id"`
	SubjectIDs pq.Int64Array  `gorm:"type:bigint[];not null;default:'{}'" json:"subject_ids"`
	BatchIDs   pq.Int64Array  `gorm:"type:bigint[];not null;default:'{}'" json:"batch_ids"`
	Status     string         `gorm:"type:varchar(20);default:'active'" json:"status"` // active, inactive
	Guardian   string         `gorm:"type:varchar(255)" json:"guardian"`
	Address    string         `gorm:"type:text" json:"address"`

	// Relationships
	Standard Standard `gorm:"foreignKey:StandardID" json:"standard,omitempty"`
}

// HasBatch reports whether the student's own batch list contains id.
func (s *Student) HasBatch(id uint) bool {
	return containsID(s.BatchIDs, id)
}

func containsID(arr pq.Int64Array, id uint) bool {
	for _, v := range arr {
		if v == int64(id) {
			return true
		}
	}
	return false
}
