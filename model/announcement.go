package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Announcement target audiences
const (
	AudienceAll      = "All"
	AudienceStudents = "Students"
	AudienceTeachers = "Teachers"
	AudienceStaff    = "Staff"
)

// Derived announcement status values
const (
	AnnouncementScheduled = "scheduled"
	AnnouncementActive    = "active"
	AnnouncementExpired   = "expired"
)

var ErrInvalidDateRange = errors.New("end date must not be before start date")

// Announcement is a time-bound notice shown to a target audience. Status is
// derived from the date window, recomputed on read and by the periodic sweep.
type Announcement struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Title          string         `gorm:"not null" json:"title"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	TargetAudience string         `gorm:"type:varchar(20);default:'All'" json:"target_audience"` // All, Students, Teachers, Staff
	StartDate      time.Time      `gorm:"not null" json:"start_date"`
	EndDate        time.Time      `gorm:"not null" json:"end_date"`
	Status         string         `gorm:"type:varchar(20);default:'scheduled'" json:"status"` // derived
	CreatedBy      uint           `gorm:"not null" json:"created_by"`
}

// IsValidAudience reports whether a is a known target audience.
func IsValidAudience(a string) bool {
	switch a {
	case AudienceAll, AudienceStudents, AudienceTeachers, AudienceStaff:
		return true
	}
	return false
}

// AnnouncementStatusAt derives the announcement status at the given instant.
func AnnouncementStatusAt(now, startDate, endDate time.Time) string {
	switch {
	case now.Before(startDate):
		return AnnouncementScheduled
	case now.After(endDate):
		return AnnouncementExpired
	default:
		return AnnouncementActive
	}
}

// NormalizeAnnouncementWindow validates an announcement date pair.
//
// endDate before startDate is rejected, with one carve-out kept on purpose:
// when both fall on the same calendar date the pair is accepted and widened to
// span that whole day (start-of-day to end-of-day). Same-day pairs in the
// right order get the same widening so a single-day notice is visible all day.
func NormalizeAnnouncementWindow(startDate, endDate time.Time) (time.Time, time.Time, error) {
	if DateOnly(startDate).Equal(DateOnly(endDate)) {
		day := DateOnly(startDate)
		return day, day.Add(24*time.Hour - time.Second), nil
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return startDate, endDate, nil
}
