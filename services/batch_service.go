package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhi1580/coaching-center-sub003/model"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// BatchService owns batch lifecycle state. The status column is derived from
// the date window and the current day; it is recomputed after every write,
// refreshed by the periodic sweep, and corrected on read so a stale stored
// value can never reach a caller.
type BatchService struct {
	db *gorm.DB
}

// NewBatchService creates a batch service.
func NewBatchService(db *gorm.DB) *BatchService {
	return &BatchService{db: db}
}

// ValidateWindow rejects batches whose end date precedes the start date or
// whose capacity is not positive.
func (s *BatchService) ValidateWindow(startDate, endDate time.Time, capacity int) error {
	if capacity <= 0 {
		return ErrInvalidCapacity
	}
	if model.DateOnly(endDate).Before(model.DateOnly(startDate)) {
		return ErrDateRange
	}
	return nil
}

// Create validates and stores a batch. The status is computed from the date
// window before the insert, never taken from the caller.
func (s *BatchService) Create(ctx context.Context, batch *model.Batch) error {
	if err := s.ValidateWindow(batch.StartDate, batch.EndDate, batch.Capacity); err != nil {
		return err
	}
	batch.Status = model.BatchStatusAt(time.Now(), batch.StartDate, batch.EndDate)
	if batch.EnrolledStudentIDs == nil {
		batch.EnrolledStudentIDs = pq.Int64Array{}
	}
	if err := s.db.WithContext(ctx).Create(batch).Error; err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// Update validates the prospective date window and capacity against the
// stored row, then applies the changes together with the status derived from
// the resulting window. A rejected update writes nothing.
func (s *BatchService) Update(ctx context.Context, id uint, updates map[string]interface{}) (*model.Batch, error) {
	batch, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	start, end, capacity := batch.StartDate, batch.EndDate, batch.Capacity
	if v, ok := updates["start_date"].(time.Time); ok {
		start = v
	}
	if v, ok := updates["end_date"].(time.Time); ok {
		end = v
	}
	if v, ok := updates["capacity"].(int); ok {
		capacity = v
	}
	if err := s.ValidateWindow(start, end, capacity); err != nil {
		return nil, err
	}
	if capacity < len(batch.EnrolledStudentIDs) {
		return nil, ErrCapacityBelowRoster
	}
	updates["status"] = model.BatchStatusAt(time.Now(), start, end)

	if err := s.db.WithContext(ctx).Model(batch).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update batch %d: %w", id, err)
	}

	// Re-read so the caller sees what actually landed.
	if err := s.db.WithContext(ctx).First(batch, id).Error; err != nil {
		return nil, fmt.Errorf("reload batch %d: %w", id, err)
	}
	return batch, nil
}

// Get loads one batch, correcting a stale stored status in place before
// returning it.
func (s *BatchService) Get(ctx context.Context, id uint) (*model.Batch, error) {
	var batch model.Batch
	if err := s.db.WithContext(ctx).First(&batch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("load batch %d: %w", id, err)
	}

	status := model.BatchStatusAt(time.Now(), batch.StartDate, batch.EndDate)
	if status != batch.Status {
		if err := s.db.WithContext(ctx).Model(&batch).Update("status", status).Error; err != nil {
			return nil, fmt.Errorf("refresh batch %d status: %w", id, err)
		}
		batch.Status = status
	}
	return &batch, nil
}

// List returns batches, newest first. Stored statuses may lag by up to one
// sweep interval; Get is the authoritative single-batch read.
func (s *BatchService) List(ctx context.Context) ([]model.Batch, error) {
	batches := []model.Batch{}
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}

// RefreshStatuses brings every stored batch status in line with the current
// day in three set-based updates. Returns the number of rows changed. The
// sweep is idempotent: a second run on the same day changes nothing. Day
// boundaries are evaluated in UTC regardless of the session timezone so the
// sweep agrees with BatchStatusAt.
func (s *BatchService) RefreshStatuses(ctx context.Context) (int64, error) {
	var changed int64

	res := s.db.WithContext(ctx).Model(&model.Batch{}).
		Where("status <> ? AND (start_date AT TIME ZONE 'UTC')::date <= (NOW() AT TIME ZONE 'UTC')::date AND (end_date AT TIME ZONE 'UTC')::date >= (NOW() AT TIME ZONE 'UTC')::date", model.BatchActive).
		Update("status", model.BatchActive)
	if res.Error != nil {
		return changed, fmt.Errorf("refresh active batches: %w", res.Error)
	}
	changed += res.RowsAffected

	res = s.db.WithContext(ctx).Model(&model.Batch{}).
		Where("status <> ? AND (end_date AT TIME ZONE 'UTC')::date < (NOW() AT TIME ZONE 'UTC')::date", model.BatchCompleted).
		Update("status", model.BatchCompleted)
	if res.Error != nil {
		return changed, fmt.Errorf("refresh completed batches: %w", res.Error)
	}
	changed += res.RowsAffected

	res = s.db.WithContext(ctx).Model(&model.Batch{}).
		Where("status <> ? AND (start_date AT TIME ZONE 'UTC')::date > (NOW() AT TIME ZONE 'UTC')::date", model.BatchUpcoming).
		Update("status", model.BatchUpcoming)
	if res.Error != nil {
		return changed, fmt.Errorf("refresh upcoming batches: %w", res.Error)
	}
	changed += res.RowsAffected

	return changed, nil
}
