package model

import (
	"time"

	"gorm.io/gorm"
)

// Note is shared study material. Only metadata lives here; the file itself is
// stored externally and referenced by URL.
type Note struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Title      string         `gorm:"not null" json:"title"`
	SubjectID  uint           `gorm:"index" json:"subject_id"`
	StandardID uint           `gorm:"index" json:"standard_id"`
	FileURL    string         `gorm:"type:varchar(512);not null" json:"file_url"`
	UploadedBy uint           `gorm:"not null" json:"uploaded_by"`
}

// Video is a shared lecture recording or link, metadata only.
type Video struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Title      string         `gorm:"not null" json:"title"`
	SubjectID  uint           `gorm:"index" json:"subject_id"`
	StandardID uint           `gorm:"index" json:"standard_id"`
	VideoURL   string         `gorm:"type:varchar(512);not null" json:"video_url"`
	Duration   int            `gorm:"default:0" json:"duration"` // seconds
	UploadedBy uint           `gorm:"not null" json:"uploaded_by"`
}
