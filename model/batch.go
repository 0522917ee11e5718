package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Derived batch status values. Status is never accepted from clients; it is a
// pure function of the batch date range and the current day.
const (
	BatchUpcoming  = "upcoming"
	BatchActive    = "active"
	BatchCompleted = "completed"
)

// BatchSchedule is the weekly timetable stored as a JSON document on the batch.
type BatchSchedule struct {
	Days      []string `json:"days"`       // weekday names, e.g. ["Monday", "Wednesday"]
	StartTime string   `json:"start_time"` // HH:MM
	EndTime   string   `json:"end_time"`   // HH:MM
}

// Batch represents a scheduled group of students studying one subject under
// one teacher for a fixed date range.
//
// EnrolledStudentIDs is the batch's view of enrollment (the roster). Invariant:
// len(EnrolledStudentIDs) <= Capacity, enforced by a conditional roster update
// in the enrollment service.
type Batch struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	Name               string         `gorm:"not null" json:"name"`
	StandardID         uint           `gorm:"index" json:"standard_id"`
	SubjectID          uint           `gorm:"index" json:"subject_id"`
	TeacherID          uint           `gorm:"index" json:"teacher_id"`
	StartDate          time.Time      `gorm:"not null" json:"start_date"`
	EndDate            time.Time      `gorm:"not null" json:"end_date"`
	Schedule           datatypes.JSON `json:"schedule"`
	Capacity           int            `gorm:"not null" json:"capacity"`
	EnrolledStudentIDs pq.Int64Array  `gorm:"type:bigint[];not null;default:'{}'" json:"enrolled_student_ids"`
	Status             string         `gorm:"type:varchar(20);default:'upcoming'" json:"status"` // derived
	Fees               float64        `gorm:"default:0" json:"fees"`

	// Relationships
	Standard Standard `gorm:"foreignKey:StandardID" json:"standard,omitempty"`
	Subject  Subject  `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Teacher  Teacher  `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

// HasStudent reports whether the roster contains id.
func (b *Batch) HasStudent(id uint) bool {
	return containsID(b.EnrolledStudentIDs, id)
}

// IsFull reports whether the roster has reached capacity.
func (b *Batch) IsFull() bool {
	return len(b.EnrolledStudentIDs) >= b.Capacity
}

// BatchStatusAt derives the batch status from its date range and the given
// instant. Comparison is at calendar-day granularity: a batch is active for
// the whole of its start and end days. Recomputing an already-correct status
// is a no-op in effect.
func BatchStatusAt(now, startDate, endDate time.Time) string {
	today := DateOnly(now)
	start := DateOnly(startDate)
	end := DateOnly(endDate)

	switch {
	case today.Before(start):
		return BatchUpcoming
	case today.After(end):
		return BatchCompleted
	default:
		return BatchActive
	}
}

// DateOnly truncates t to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
