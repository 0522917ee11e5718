package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhi1580/coaching-center-sub003/model"
	"gorm.io/gorm"
)

var (
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrInvalidAudience      = errors.New("invalid target audience")
)

// AnnouncementService manages time-bound notices. Like batches, the stored
// status is derived state: it is computed at write time, kept fresh by the
// sweep, and corrected on read.
type AnnouncementService struct {
	db *gorm.DB
}

// NewAnnouncementService creates an announcement service.
func NewAnnouncementService(db *gorm.DB) *AnnouncementService {
	return &AnnouncementService{db: db}
}

// Create validates the audience and date window, widens same-day windows to
// span the whole day, and stores the announcement with its derived status.
func (s *AnnouncementService) Create(ctx context.Context, a *model.Announcement) error {
	if a.TargetAudience == "" {
		a.TargetAudience = model.AudienceAll
	}
	if !model.IsValidAudience(a.TargetAudience) {
		return ErrInvalidAudience
	}

	start, end, err := model.NormalizeAnnouncementWindow(a.StartDate, a.EndDate)
	if err != nil {
		return err
	}
	a.StartDate, a.EndDate = start, end
	a.Status = model.AnnouncementStatusAt(time.Now(), a.StartDate, a.EndDate)

	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// Update validates the prospective window against the stored row, then
// applies the changes with the normalized window and the status it derives.
// A rejected update writes nothing.
func (s *AnnouncementService) Update(ctx context.Context, id uint, updates map[string]interface{}) (*model.Announcement, error) {
	ann, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if aud, ok := updates["target_audience"].(string); ok && !model.IsValidAudience(aud) {
		return nil, ErrInvalidAudience
	}

	start, end := ann.StartDate, ann.EndDate
	if v, ok := updates["start_date"].(time.Time); ok {
		start = v
	}
	if v, ok := updates["end_date"].(time.Time); ok {
		end = v
	}
	start, end, err = model.NormalizeAnnouncementWindow(start, end)
	if err != nil {
		return nil, err
	}
	updates["start_date"] = start
	updates["end_date"] = end
	updates["status"] = model.AnnouncementStatusAt(time.Now(), start, end)

	if err := s.db.WithContext(ctx).Model(ann).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update announcement %d: %w", id, err)
	}
	if err := s.db.WithContext(ctx).First(ann, id).Error; err != nil {
		return nil, fmt.Errorf("reload announcement %d: %w", id, err)
	}
	return ann, nil
}

// Get loads one announcement with its status corrected for the current
// instant.
func (s *AnnouncementService) Get(ctx context.Context, id uint) (*model.Announcement, error) {
	var ann model.Announcement
	if err := s.db.WithContext(ctx).First(&ann, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("load announcement %d: %w", id, err)
	}

	status := model.AnnouncementStatusAt(time.Now(), ann.StartDate, ann.EndDate)
	if status != ann.Status {
		if err := s.db.WithContext(ctx).Model(&ann).Update("status", status).Error; err != nil {
			return nil, fmt.Errorf("refresh announcement %d status: %w", id, err)
		}
		ann.Status = status
	}
	return &ann, nil
}

// Delete soft-deletes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Announcement{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete announcement %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAnnouncementNotFound
	}
	return nil
}

// ListForRole returns announcements visible to the given user role, newest
// first. Admins see everything; other roles see notices addressed to All plus
// their own audience.
func (s *AnnouncementService) ListForRole(ctx context.Context, role string) ([]model.Announcement, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")

	switch role {
	case model.RoleAdmin:
		// no filter
	case model.RoleStudent:
		q = q.Where("target_audience IN ?", []string{model.AudienceAll, model.AudienceStudents})
	case model.RoleTeacher:
		q = q.Where("target_audience IN ?", []string{model.AudienceAll, model.AudienceTeachers})
	case model.RoleStaff:
		q = q.Where("target_audience IN ?", []string{model.AudienceAll, model.AudienceStaff})
	default:
		q = q.Where("target_audience = ?", model.AudienceAll)
	}

	anns := []model.Announcement{}
	if err := q.Find(&anns).Error; err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}

	now := time.Now()
	for i := range anns {
		anns[i].Status = model.AnnouncementStatusAt(now, anns[i].StartDate, anns[i].EndDate)
	}
	return anns, nil
}

// ListActiveForRole returns only the currently active announcements for a
// role, used for the dashboard feed.
func (s *AnnouncementService) ListActiveForRole(ctx context.Context, role string) ([]model.Announcement, error) {
	anns, err := s.ListForRole(ctx, role)
	if err != nil {
		return nil, err
	}
	active := anns[:0]
	for _, a := range anns {
		if a.Status == model.AnnouncementActive {
			active = append(active, a)
		}
	}
	return active, nil
}

// RefreshStatuses brings stored announcement statuses in line with the
// current instant in three set-based updates. Returns the number of rows
// changed.
func (s *AnnouncementService) RefreshStatuses(ctx context.Context) (int64, error) {
	var changed int64

	res := s.db.WithContext(ctx).Model(&model.Announcement{}).
		Where("status <> ? AND start_date <= NOW() AND end_date >= NOW()", model.AnnouncementActive).
		Update("status", model.AnnouncementActive)
	if res.Error != nil {
		return changed, fmt.Errorf("refresh active announcements: %w", res.Error)
	}
	changed += res.RowsAffected

	res = s.db.WithContext(ctx).Model(&model.Announcement{}).
		Where("status <> ? AND end_date < NOW()", model.AnnouncementExpired).
		Update("status", model.AnnouncementExpired)
	if res.Error != nil {
		return changed, fmt.Errorf("refresh expired announcements: %w", res.Error)
	}
	changed += res.RowsAffected

	res = s.db.WithContext(ctx).Model(&model.Announcement{}).
		Where("status <> ? AND start_date > NOW()", model.AnnouncementScheduled).
		Update("status", model.AnnouncementScheduled)
	if res.Error != nil {
		return changed, fmt.Errorf("refresh scheduled announcements: %w", res.Error)
	}
	changed += res.RowsAffected

	return changed, nil
}
