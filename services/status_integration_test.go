package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abhi1580/coaching-center-sub003/model"
)

func TestBatchStatusCorrectedOnRead(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)
	ctx := context.Background()

	// Stored with a stale status on purpose; the window ended long ago.
	batch := &model.Batch{
		Name:               "stale-status",
		StartDate:          mustDate(t, "2020-01-01"),
		EndDate:            mustDate(t, "2020-06-30"),
		Capacity:           10,
		EnrolledStudentIDs: []int64{},
		Status:             model.BatchActive,
	}
	if err := db.Create(batch).Error; err != nil {
		t.Fatal(err)
	}

	got, err := svc.Get(ctx, batch.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != model.BatchCompleted {
		t.Errorf("status on read = %q, want %q", got.Status, model.BatchCompleted)
	}

	// The correction is persisted, not just reported.
	var stored model.Batch
	if err := db.First(&stored, batch.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.Status != model.BatchCompleted {
		t.Errorf("stored status = %q, want %q", stored.Status, model.BatchCompleted)
	}
}

func TestBatchRefreshStatusesSweep(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)
	ctx := context.Background()

	past := &model.Batch{
		Name:               "sweep-past",
		StartDate:          mustDate(t, "2020-01-01"),
		EndDate:            mustDate(t, "2020-06-30"),
		Capacity:           10,
		EnrolledStudentIDs: []int64{},
		Status:             model.BatchActive,
	}
	future := &model.Batch{
		Name:               "sweep-future",
		StartDate:          mustDate(t, "2099-01-01"),
		EndDate:            mustDate(t, "2099-06-30"),
		Capacity:           10,
		EnrolledStudentIDs: []int64{},
		Status:             model.BatchActive,
	}
	for _, b := range []*model.Batch{past, future} {
		if err := db.Create(b).Error; err != nil {
			t.Fatal(err)
		}
	}

	changed, err := svc.RefreshStatuses(ctx)
	if err != nil {
		t.Fatalf("RefreshStatuses: %v", err)
	}
	if changed != 2 {
		t.Errorf("changed = %d, want 2", changed)
	}

	again, err := svc.RefreshStatuses(ctx)
	if err != nil {
		t.Fatalf("second RefreshStatuses: %v", err)
	}
	if again != 0 {
		t.Errorf("second sweep changed %d rows, want 0", again)
	}
}

func TestBatchCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)
	ctx := context.Background()

	reversed := &model.Batch{
		Name:      "reversed",
		StartDate: mustDate(t, "2025-06-30"),
		EndDate:   mustDate(t, "2025-06-01"),
		Capacity:  10,
	}
	if err := svc.Create(ctx, reversed); !errors.Is(err, ErrDateRange) {
		t.Errorf("reversed window error = %v, want ErrDateRange", err)
	}

	zeroCap := &model.Batch{
		Name:      "zero-cap",
		StartDate: mustDate(t, "2025-06-01"),
		EndDate:   mustDate(t, "2025-06-30"),
		Capacity:  0,
	}
	if err := svc.Create(ctx, zeroCap); !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("zero capacity error = %v, want ErrInvalidCapacity", err)
	}
}

func TestAnnouncementSameDayWindow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAnnouncementService(db)
	ctx := context.Background()

	today := model.DateOnly(time.Now())
	ann := &model.Announcement{
		Title:     "exam tomorrow",
		Content:   "Bring your hall tickets.",
		StartDate: today.Add(10 * time.Hour),
		EndDate:   today.Add(2 * time.Hour), // reversed, same calendar day
		CreatedBy: 1,
	}
	if err := svc.Create(ctx, ann); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !ann.StartDate.Equal(today) {
		t.Errorf("start = %v, want start of day %v", ann.StartDate, today)
	}
	wantEnd := today.Add(24*time.Hour - time.Second)
	if !ann.EndDate.Equal(wantEnd) {
		t.Errorf("end = %v, want end of day %v", ann.EndDate, wantEnd)
	}
	if ann.Status != model.AnnouncementActive {
		t.Errorf("status = %q, want %q for a same-day notice", ann.Status, model.AnnouncementActive)
	}
}

func TestAnnouncementRejectsReversedRange(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAnnouncementService(db)
	ctx := context.Background()

	ann := &model.Announcement{
		Title:     "bad window",
		Content:   "x",
		StartDate: mustDate(t, "2025-07-10"),
		EndDate:   mustDate(t, "2025-07-04"),
		CreatedBy: 1,
	}
	if err := svc.Create(ctx, ann); !errors.Is(err, model.ErrInvalidDateRange) {
		t.Errorf("reversed range error = %v, want ErrInvalidDateRange", err)
	}
}

func TestBatchUpdateRejectedWindowWritesNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)
	ctx := context.Background()

	batch := createTestBatch(t, db, "window-guard", 10)

	updates := map[string]interface{}{
		"start_date": mustDate(t, "2025-06-30"),
		"end_date":   mustDate(t, "2025-06-01"),
	}
	if _, err := svc.Update(ctx, batch.ID, updates); !errors.Is(err, ErrDateRange) {
		t.Fatalf("reversed window error = %v, want ErrDateRange", err)
	}

	// The stored row keeps its valid window.
	var stored model.Batch
	if err := db.First(&stored, batch.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !model.DateOnly(stored.StartDate).Equal(mustDate(t, "2025-01-01")) {
		t.Errorf("stored start = %v, want 2025-01-01", stored.StartDate)
	}
	if !model.DateOnly(stored.EndDate).Equal(mustDate(t, "2025-12-31")) {
		t.Errorf("stored end = %v, want 2025-12-31", stored.EndDate)
	}
}

func TestBatchUpdateRejectsCapacityBelowRoster(t *testing.T) {
	db := setupTestDB(t)
	batches := NewBatchService(db)
	enrollment := NewEnrollmentService(db)
	ctx := context.Background()

	batch := createTestBatch(t, db, "shrink-guard", 5)
	for i := 0; i < 2; i++ {
		s := createTestStudent(t, db, fmt.Sprintf("shrink-guard-%d", i))
		if err := enrollment.Enroll(ctx, s.ID, batch.ID); err != nil {
			t.Fatalf("Enroll: %v", err)
		}
	}

	_, err := batches.Update(ctx, batch.ID, map[string]interface{}{"capacity": 1})
	if !errors.Is(err, ErrCapacityBelowRoster) {
		t.Fatalf("shrink below roster error = %v, want ErrCapacityBelowRoster", err)
	}

	var stored model.Batch
	if err := db.First(&stored, batch.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.Capacity != 5 {
		t.Errorf("stored capacity = %d, want 5", stored.Capacity)
	}

	// Shrinking down to the roster size is still allowed.
	if _, err := batches.Update(ctx, batch.ID, map[string]interface{}{"capacity": 2}); err != nil {
		t.Fatalf("shrink to roster size: %v", err)
	}
}

func TestAnnouncementUpdateRejectedWindowWritesNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAnnouncementService(db)
	ctx := context.Background()

	ann := &model.Announcement{
		Title:     "window guard",
		Content:   "x",
		StartDate: mustDate(t, "2025-07-01"),
		EndDate:   mustDate(t, "2025-07-10"),
		CreatedBy: 1,
	}
	if err := svc.Create(ctx, ann); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updates := map[string]interface{}{
		"end_date": mustDate(t, "2025-06-01"), // before the stored start, different day
	}
	if _, err := svc.Update(ctx, ann.ID, updates); !errors.Is(err, model.ErrInvalidDateRange) {
		t.Fatalf("reversed window error = %v, want ErrInvalidDateRange", err)
	}

	var stored model.Announcement
	if err := db.First(&stored, ann.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !stored.StartDate.Equal(ann.StartDate) || !stored.EndDate.Equal(ann.EndDate) {
		t.Errorf("stored window = %v..%v, want %v..%v unchanged",
			stored.StartDate, stored.EndDate, ann.StartDate, ann.EndDate)
	}
}

func TestAnnouncementAudienceFiltering(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAnnouncementService(db)
	ctx := context.Background()

	seed := []model.Announcement{
		{Title: "for everyone", Content: "x", TargetAudience: model.AudienceAll},
		{Title: "for students", Content: "x", TargetAudience: model.AudienceStudents},
		{Title: "for teachers", Content: "x", TargetAudience: model.AudienceTeachers},
	}
	for i := range seed {
		seed[i].StartDate = mustDate(t, "2025-01-01")
		seed[i].EndDate = mustDate(t, "2099-01-01")
		seed[i].CreatedBy = 1
		if err := svc.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("Create %q: %v", seed[i].Title, err)
		}
	}

	studentView, err := svc.ListForRole(ctx, model.RoleStudent)
	if err != nil {
		t.Fatalf("ListForRole student: %v", err)
	}
	if len(studentView) != 2 {
		t.Errorf("student sees %d announcements, want 2", len(studentView))
	}
	for _, a := range studentView {
		if a.TargetAudience == model.AudienceTeachers {
			t.Errorf("student sees teacher-only announcement %q", a.Title)
		}
	}

	adminView, err := svc.ListForRole(ctx, model.RoleAdmin)
	if err != nil {
		t.Fatalf("ListForRole admin: %v", err)
	}
	if len(adminView) != 3 {
		t.Errorf("admin sees %d announcements, want 3", len(adminView))
	}
}
