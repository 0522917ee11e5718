package services

import (
	"context"
	"errors"
	"testing"

	"github.com/abhi1580/coaching-center-sub003/model"
)

func TestSubmitAttendanceUpserts(t *testing.T) {
	db := setupTestDB(t)
	enrollment := NewEnrollmentService(db)
	svc := NewAttendanceService(db, nil)
	ctx := context.Background()

	student := createTestStudent(t, db, "att-upsert")
	batch := createTestBatch(t, db, "batch-att", 10)
	if err := enrollment.Enroll(ctx, student.ID, batch.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	records := []AttendanceRecord{{StudentID: student.ID, Status: model.AttendanceAbsent}}
	result, err := svc.SubmitBatchAttendance(ctx, batch.ID, "2025-06-02", 1, records)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if result.Succeeded != 1 || result.Failed != 0 {
		t.Fatalf("first submit outcome = %d/%d, want 1/0", result.Succeeded, result.Failed)
	}

	// Resubmission for the same day overwrites, never duplicates.
	records[0].Status = model.AttendancePresent
	if _, err := svc.SubmitBatchAttendance(ctx, batch.ID, "2025-06-02", 2, records); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	var rows []model.Attendance
	if err := db.Where("student_id = ? AND batch_id = ?", student.ID, batch.ID).Find(&rows).Error; err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("attendance rows = %d, want 1", len(rows))
	}
	if rows[0].Status != model.AttendancePresent {
		t.Errorf("status = %q, want %q after overwrite", rows[0].Status, model.AttendancePresent)
	}
	if rows[0].MarkedBy != 2 {
		t.Errorf("marked_by = %d, want 2 after overwrite", rows[0].MarkedBy)
	}
}

func TestSubmitAttendanceRejectsPerRecord(t *testing.T) {
	db := setupTestDB(t)
	enrollment := NewEnrollmentService(db)
	svc := NewAttendanceService(db, nil)
	ctx := context.Background()

	enrolled := createTestStudent(t, db, "att-enrolled")
	outsider := createTestStudent(t, db, "att-outsider")
	batch := createTestBatch(t, db, "batch-mixed", 10)
	if err := enrollment.Enroll(ctx, enrolled.ID, batch.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	records := []AttendanceRecord{
		{StudentID: enrolled.ID, Status: model.AttendanceLate},
		{StudentID: outsider.ID, Status: model.AttendancePresent}, // not on roster
		{StudentID: enrolled.ID, Status: "vanished"},              // bad status
	}
	result, err := svc.SubmitBatchAttendance(ctx, batch.ID, "2025-06-03", 1, records)
	if err != nil {
		t.Fatalf("SubmitBatchAttendance: %v", err)
	}

	if result.Succeeded != 1 || result.Failed != 2 {
		t.Errorf("outcome = %d/%d, want 1 succeeded, 2 failed", result.Succeeded, result.Failed)
	}
	if result.Outcomes[1].OK || result.Outcomes[1].Error == "" {
		t.Error("non-enrolled record not rejected with a reason")
	}
	if result.Outcomes[2].OK {
		t.Error("invalid status record accepted")
	}
}

func TestSubmitAttendanceValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db, nil)
	ctx := context.Background()

	batch := createTestBatch(t, db, "batch-valid", 1)
	records := []AttendanceRecord{{StudentID: 1, Status: model.AttendancePresent}}

	if _, err := svc.SubmitBatchAttendance(ctx, batch.ID, "03-06-2025", 1, records); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad date error = %v, want ErrInvalidDate", err)
	}
	if _, err := svc.SubmitBatchAttendance(ctx, 999999, "2025-06-03", 1, records); !errors.Is(err, ErrBatchNotFound) {
		t.Errorf("missing batch error = %v, want ErrBatchNotFound", err)
	}

	tooMany := []AttendanceRecord{
		{StudentID: 1, Status: model.AttendancePresent},
		{StudentID: 2, Status: model.AttendancePresent},
	}
	if _, err := svc.SubmitBatchAttendance(ctx, batch.ID, "2025-06-03", 1, tooMany); !errors.Is(err, ErrTooManyRecords) {
		t.Errorf("oversized submission error = %v, want ErrTooManyRecords", err)
	}
}

func TestGetBatchAttendanceEmptyDay(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db, nil)
	ctx := context.Background()

	batch := createTestBatch(t, db, "batch-empty", 10)

	rows, err := svc.GetBatchAttendance(ctx, batch.ID, "2025-06-04")
	if err != nil {
		t.Fatalf("GetBatchAttendance: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %d, want 0 for an unrecorded day", len(rows))
	}

	if _, err := svc.GetBatchAttendance(ctx, 999999, "2025-06-04"); !errors.Is(err, ErrBatchNotFound) {
		t.Errorf("missing batch error = %v, want ErrBatchNotFound", err)
	}
}

func TestStudentBatchStats(t *testing.T) {
	db := setupTestDB(t)
	enrollment := NewEnrollmentService(db)
	svc := NewAttendanceService(db, nil)
	ctx := context.Background()

	student := createTestStudent(t, db, "att-stats")
	batch := createTestBatch(t, db, "batch-stats", 10)
	if err := enrollment.Enroll(ctx, student.ID, batch.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	days := map[string]string{
		"2025-06-01": model.AttendancePresent,
		"2025-06-02": model.AttendancePresent,
		"2025-06-03": model.AttendanceLate,
	}
	for date, status := range days {
		records := []AttendanceRecord{{StudentID: student.ID, Status: status}}
		if _, err := svc.SubmitBatchAttendance(ctx, batch.ID, date, 1, records); err != nil {
			t.Fatalf("submit %s: %v", date, err)
		}
	}

	stats, err := svc.GetStudentBatchStats(ctx, student.ID, batch.ID)
	if err != nil {
		t.Fatalf("GetStudentBatchStats: %v", err)
	}
	if stats.Present != 2 || stats.Late != 1 || stats.Total != 3 {
		t.Errorf("counts = present %d late %d total %d, want 2/1/3", stats.Present, stats.Late, stats.Total)
	}
	// Late days do not count as present: 2/3 rounds half up to 67.
	if stats.Percentage != 67 {
		t.Errorf("percentage = %d, want 67", stats.Percentage)
	}
}

func TestBatchDayStats(t *testing.T) {
	db := setupTestDB(t)
	enrollment := NewEnrollmentService(db)
	svc := NewAttendanceService(db, nil)
	ctx := context.Background()

	batch := createTestBatch(t, db, "batch-day-stats", 10)
	statuses := []string{model.AttendancePresent, model.AttendanceAbsent, model.AttendancePresent}
	var records []AttendanceRecord
	for i, status := range statuses {
		student := createTestStudent(t, db, "day-stats-"+string(rune('a'+i)))
		if err := enrollment.Enroll(ctx, student.ID, batch.ID); err != nil {
			t.Fatalf("Enroll: %v", err)
		}
		records = append(records, AttendanceRecord{StudentID: student.ID, Status: status})
	}

	if _, err := svc.SubmitBatchAttendance(ctx, batch.ID, "2025-06-05", 1, records); err != nil {
		t.Fatalf("SubmitBatchAttendance: %v", err)
	}

	stats, err := svc.GetBatchDayStats(ctx, batch.ID, "2025-06-05")
	if err != nil {
		t.Fatalf("GetBatchDayStats: %v", err)
	}
	if stats.Present != 2 || stats.Absent != 1 || stats.Total != 3 {
		t.Errorf("counts = present %d absent %d total %d, want 2/1/3", stats.Present, stats.Absent, stats.Total)
	}
	if stats.Percentage != 67 {
		t.Errorf("percentage = %d, want 67", stats.Percentage)
	}
}
