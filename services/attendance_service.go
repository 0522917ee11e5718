package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/abhi1580/coaching-center-sub003/model"
	"github.com/abhi1580/coaching-center-sub003/utils/cache"
	"github.com/abhi1580/coaching-center-sub003/utils/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const statsCacheTTL = 10 * time.Minute

// AttendanceService records presence facts and serves the read-side
// statistics computed from them. One fact per (student, batch, day); the
// composite unique index backs the upsert, so retries and duplicate
// submissions coalesce instead of duplicating rows.
type AttendanceService struct {
	db    *gorm.DB
	cache *cache.RedisCache // nil disables stats caching
}

// NewAttendanceService creates an attendance service.
func NewAttendanceService(db *gorm.DB, c *cache.RedisCache) *AttendanceService {
	return &AttendanceService{db: db, cache: c}
}

// AttendanceRecord is one (student, status) pair within a submission.
type AttendanceRecord struct {
	StudentID uint   `json:"student_id"`
	Status    string `json:"status"` // present, absent, late
}

// RecordOutcome reports the fate of one record in a bulk submission.
type RecordOutcome struct {
	StudentID uint   `json:"student_id"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

// SubmitResult is the per-record outcome list for one batch-day submission.
type SubmitResult struct {
	BatchID   uint            `json:"batch_id"`
	Date      string          `json:"date"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Outcomes  []RecordOutcome `json:"outcomes"`
}

// SubmitBatchAttendance upserts one attendance fact per record, keyed on
// (student, batch, date). Existing facts have their status and marker
// overwritten. The submission is not all-or-nothing: a failure partway is
// reported per record, and the unique key guarantees retries never duplicate.
//
// The record count is capped at the batch capacity; exceeding the cap is a
// validation error, not a silent truncation.
func (s *AttendanceService) SubmitBatchAttendance(ctx context.Context, batchID uint, date string, markedBy uint, records []AttendanceRecord) (*SubmitResult, error) {
	if _, err := validation.ParseISODate(date); err != nil {
		return nil, ErrInvalidDate
	}

	var batch model.Batch
	if err := s.db.WithContext(ctx).First(&batch, batchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("load batch %d: %w", batchID, err)
	}

	if batch.Capacity > 0 && len(records) > batch.Capacity {
		return nil, ErrTooManyRecords
	}

	roster := make(map[uint]bool, len(batch.EnrolledStudentIDs))
	for _, sid := range batch.EnrolledStudentIDs {
		roster[uint(sid)] = true
	}

	result := &SubmitResult{BatchID: batchID, Date: date}
	for _, rec := range records {
		outcome := RecordOutcome{StudentID: rec.StudentID}

		switch {
		case !model.IsValidAttendanceStatus(rec.Status):
			outcome.Error = ErrInvalidStatus.Error()
		case !roster[rec.StudentID]:
			outcome.Error = ErrNotEnrolled.Error()
		default:
			row := model.Attendance{
				StudentID: rec.StudentID,
				BatchID:   batchID,
				Date:      date,
				Status:    rec.Status,
				MarkedBy:  markedBy,
			}
			err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "student_id"}, {Name: "batch_id"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"status", "marked_by", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				outcome.Error = fmt.Sprintf("store attendance: %v", err)
			} else {
				outcome.OK = true
			}
		}

		if outcome.OK {
			result.Succeeded++
		} else {
			result.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	s.invalidateStats(ctx, batchID, date, records)
	return result, nil
}

// GetBatchAttendance returns every fact recorded for the batch-day. An empty
// result is the valid "nothing recorded yet" state, distinct from
// ErrBatchNotFound.
func (s *AttendanceService) GetBatchAttendance(ctx context.Context, batchID uint, date string) ([]model.Attendance, error) {
	if _, err := validation.ParseISODate(date); err != nil {
		return nil, ErrInvalidDate
	}

	var exists int64
	if err := s.db.WithContext(ctx).Model(&model.Batch{}).Where("id = ?", batchID).Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("check batch %d: %w", batchID, err)
	}
	if exists == 0 {
		return nil, ErrBatchNotFound
	}

	rows := []model.Attendance{}
	if err := s.db.WithContext(ctx).
		Where("batch_id = ? AND date = ?", batchID, date).
		Order("student_id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load attendance for batch %d on %s: %w", batchID, date, err)
	}
	return rows, nil
}

// StudentBatchStats is the per-student-per-batch attendance summary.
type StudentBatchStats struct {
	StudentID  uint `json:"student_id"`
	BatchID    uint `json:"batch_id"`
	Present    int  `json:"present"`
	Absent     int  `json:"absent"`
	Late       int  `json:"late"`
	Total      int  `json:"total"`
	Percentage int  `json:"percentage"` // round-half-up of present/total
}

// GetStudentBatchStats computes a student's attendance summary within a
// batch. A student with no recorded facts gets zero percent, not an error.
func (s *AttendanceService) GetStudentBatchStats(ctx context.Context, studentID, batchID uint) (*StudentBatchStats, error) {
	key := studentStatsKey(studentID, batchID)
	cached := &StudentBatchStats{}
	if err := s.cache.GetJSON(ctx, key, cached); err == nil {
		return cached, nil
	}

	var rows []model.Attendance
	if err := s.db.WithContext(ctx).
		Where("student_id = ? AND batch_id = ?", studentID, batchID).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load attendance for student %d in batch %d: %w", studentID, batchID, err)
	}

	stats := &StudentBatchStats{StudentID: studentID, BatchID: batchID}
	for _, row := range rows {
		switch row.Status {
		case model.AttendancePresent:
			stats.Present++
		case model.AttendanceAbsent:
			stats.Absent++
		case model.AttendanceLate:
			stats.Late++
		}
	}
	stats.Total = len(rows)
	stats.Percentage = model.AttendancePercentage(stats.Present, stats.Total)

	if err := s.cache.SetJSON(ctx, key, stats, statsCacheTTL); err != nil {
		log.Printf("cache student stats %s: %v", key, err)
	}
	return stats, nil
}

// BatchDayStats is the per-batch-per-day attendance summary.
type BatchDayStats struct {
	BatchID    uint   `json:"batch_id"`
	Date       string `json:"date"`
	Present    int    `json:"present"`
	Absent     int    `json:"absent"`
	Late       int    `json:"late"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// GetBatchDayStats computes the summary over all students recorded for one
// batch-day. A day with no records is all zeroes.
func (s *AttendanceService) GetBatchDayStats(ctx context.Context, batchID uint, date string) (*BatchDayStats, error) {
	rows, err := s.GetBatchAttendance(ctx, batchID, date)
	if err != nil {
		return nil, err
	}

	stats := &BatchDayStats{BatchID: batchID, Date: date}
	for _, row := range rows {
		switch row.Status {
		case model.AttendancePresent:
			stats.Present++
		case model.AttendanceAbsent:
			stats.Absent++
		case model.AttendanceLate:
			stats.Late++
		}
	}
	stats.Total = len(rows)
	stats.Percentage = model.AttendancePercentage(stats.Present, stats.Total)
	return stats, nil
}

func (s *AttendanceService) invalidateStats(ctx context.Context, batchID uint, date string, records []AttendanceRecord) {
	keys := make([]string, 0, len(records)+1)
	keys = append(keys, batchDayStatsKey(batchID, date))
	for _, rec := range records {
		keys = append(keys, studentStatsKey(rec.StudentID, batchID))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Printf("invalidate attendance stats cache: %v", err)
	}
}

func studentStatsKey(studentID, batchID uint) string {
	return fmt.Sprintf("attendance:stats:student:%d:batch:%d", studentID, batchID)
}

func batchDayStatsKey(batchID uint, date string) string {
	return fmt.Sprintf("attendance:stats:batch:%d:day:%s", batchID, date)
}
