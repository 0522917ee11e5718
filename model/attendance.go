package model

import (
	"time"
)

// Attendance status values. The tri-state enum is canonical; there is no
// boolean representation anywhere in the system.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
)

// Attendance records one presence fact per (student, batch, calendar day).
// The composite unique index is the source of truth against duplicates:
// conflicting writes are coalesced by upsert, never duplicated.
//
// Rows are never deleted except when a student is withdrawn (cascade in the
// enrollment service). No soft delete.
type Attendance struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_attendance_student_batch_date,priority:1" json:"student_id"`
	BatchID   uint      `gorm:"not null;uniqueIndex:idx_attendance_student_batch_date,priority:2;index" json:"batch_id"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_attendance_student_batch_date,priority:3" json:"date"` // YYYY-MM-DD
	Status    string    `gorm:"type:varchar(10);not null" json:"status"`                                                        // present, absent, late
	MarkedBy  uint      `gorm:"not null" json:"marked_by"`
}

// IsValidAttendanceStatus reports whether s is a known attendance status.
func IsValidAttendanceStatus(s string) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	}
	return false
}

// AttendancePercentage computes round-half-up(present/total*100). A student
// with no recorded facts has 0 percent, not an error.
func AttendancePercentage(present, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(present)/float64(total)*100 + 0.5)
}
