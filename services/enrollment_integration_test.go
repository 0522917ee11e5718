package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/abhi1580/coaching-center-sub003/model"
	"github.com/lib/pq"
)

func TestEnrollUpdatesBothSides(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	ctx := context.Background()

	student := createTestStudent(t, db, "enroll-both")
	batch := createTestBatch(t, db, "batch-both", 10)

	if err := svc.Enroll(ctx, student.ID, batch.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	var gotStudent model.Student
	var gotBatch model.Batch
	if err := db.First(&gotStudent, student.ID).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.First(&gotBatch, batch.ID).Error; err != nil {
		t.Fatal(err)
	}

	if !gotStudent.HasBatch(batch.ID) {
		t.Error("student side missing batch after enroll")
	}
	if !gotBatch.HasStudent(student.ID) {
		t.Error("batch roster missing student after enroll")
	}
}

func TestEnrollDuplicateRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	ctx := context.Background()

	student := createTestStudent(t, db, "enroll-dup")
	batch := createTestBatch(t, db, "batch-dup", 10)

	if err := svc.Enroll(ctx, student.ID, batch.ID); err != nil {
		t.Fatalf("first enroll: %v", err)
	}
	if err := svc.Enroll(ctx, student.ID, batch.ID); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("second enroll error = %v, want ErrAlreadyEnrolled", err)
	}

	var gotBatch model.Batch
	if err := db.First(&gotBatch, batch.ID).Error; err != nil {
		t.Fatal(err)
	}
	if len(gotBatch.EnrolledStudentIDs) != 1 {
		t.Errorf("roster has %d entries, want 1", len(gotBatch.EnrolledStudentIDs))
	}
}

func TestEnrollRespectsCapacity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	ctx := context.Background()

	batch := createTestBatch(t, db, "batch-cap", 2)
	a := createTestStudent(t, db, "cap-a")
	b := createTestStudent(t, db, "cap-b")
	c := createTestStudent(t, db, "cap-c")

	if err := svc.Enroll(ctx, a.ID, batch.ID); err != nil {
		t.Fatalf("enroll a: %v", err)
	}
	if err := svc.Enroll(ctx, b.ID, batch.ID); err != nil {
		t.Fatalf("enroll b: %v", err)
	}
	if err := svc.Enroll(ctx, c.ID, batch.ID); !errors.Is(err, ErrBatchFull) {
		t.Errorf("enroll past capacity error = %v, want ErrBatchFull", err)
	}
}

func TestConcurrentEnrollSingleSeat(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	ctx := context.Background()

	batch := createTestBatch(t, db, "batch-race", 1)

	const contenders = 8
	students := make([]*model.Student, contenders)
	for i := range students {
		students[i] = createTestStudent(t, db, "race-"+string(rune('a'+i)))
	}

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Enroll(ctx, students[i].ID, batch.ID)
		}(i)
	}
	wg.Wait()

	var won int
	for _, err := range errs {
		if err == nil {
			won++
		} else if !errors.Is(err, ErrBatchFull) {
			t.Errorf("unexpected enroll error: %v", err)
		}
	}
	if won != 1 {
		t.Errorf("%d enrollments succeeded for a single seat, want exactly 1", won)
	}

	var gotBatch model.Batch
	if err := db.First(&gotBatch, batch.ID).Error; err != nil {
		t.Fatal(err)
	}
	if len(gotBatch.EnrolledStudentIDs) != 1 {
		t.Errorf("roster has %d entries, want 1", len(gotBatch.EnrolledStudentIDs))
	}
}

func TestUnenrollClearsBothSides(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	ctx := context.Background()

	student := createTestStudent(t, db, "unenroll")
	batch := createTestBatch(t, db, "batch-unenroll", 10)

	if err := svc.Enroll(ctx, student.ID, batch.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if err := svc.Unenroll(ctx, student.ID, batch.ID); err != nil {
		t.Fatalf("Unenroll: %v", err)
	}

	var gotStudent model.Student
	var gotBatch model.Batch
	if err := db.First(&gotStudent, student.ID).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.First(&gotBatch, batch.ID).Error; err != nil {
		t.Fatal(err)
	}
	if gotStudent.HasBatch(batch.ID) {
		t.Error("student side still holds batch after unenroll")
	}
	if gotBatch.HasStudent(student.ID) {
		t.Error("roster still holds student after unenroll")
	}

	if err := svc.Unenroll(ctx, student.ID, batch.ID); !errors.Is(err, ErrNotEnrolled) {
		t.Errorf("second unenroll error = %v, want ErrNotEnrolled", err)
	}
}

func TestReconcileRepairsHalfEnrollments(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	ctx := context.Background()

	student := createTestStudent(t, db, "recon-half")
	batch := createTestBatch(t, db, "batch-recon", 10)

	// Damage the pairing by writing only the roster side.
	if err := db.Model(&model.Batch{}).Where("id = ?", batch.ID).
		Update("enrolled_student_ids", pq.Int64Array{int64(student.ID)}).Error; err != nil {
		t.Fatal(err)
	}

	report, err := svc.Reconcile(ctx)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(report.StudentSideAdded) != 1 {
		t.Errorf("StudentSideAdded = %d, want 1", len(report.StudentSideAdded))
	}

	var gotStudent model.Student
	if err := db.First(&gotStudent, student.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !gotStudent.HasBatch(batch.ID) {
		t.Error("student side not restored by reconcile")
	}
}

func TestReconcileDropsDanglingReferences(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	ctx := context.Background()

	student := createTestStudent(t, db, "recon-dangling")
	batch := createTestBatch(t, db, "batch-dangling", 10)

	// Point the student at a batch that does not exist and the roster at a
	// student that does not exist.
	if err := db.Model(&model.Student{}).Where("id = ?", student.ID).
		Update("batch_ids", pq.Int64Array{999999}).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Model(&model.Batch{}).Where("id = ?", batch.ID).
		Update("enrolled_student_ids", pq.Int64Array{888888}).Error; err != nil {
		t.Fatal(err)
	}

	report, err := svc.Reconcile(ctx)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(report.DanglingBatchesDropped) != 1 {
		t.Errorf("DanglingBatchesDropped = %d, want 1", len(report.DanglingBatchesDropped))
	}
	if len(report.DanglingStudentsDropped) != 1 {
		t.Errorf("DanglingStudentsDropped = %d, want 1", len(report.DanglingStudentsDropped))
	}
}

func TestReconcileIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	ctx := context.Background()

	student := createTestStudent(t, db, "recon-idem")
	batch := createTestBatch(t, db, "batch-idem", 10)

	if err := db.Model(&model.Batch{}).Where("id = ?", batch.ID).
		Update("enrolled_student_ids", pq.Int64Array{int64(student.ID)}).Error; err != nil {
		t.Fatal(err)
	}

	first, err := svc.Reconcile(ctx)
	if err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}
	if first.Empty() {
		t.Fatal("first reconcile reported no repairs on damaged data")
	}

	second, err := svc.Reconcile(ctx)
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if !second.Empty() {
		t.Errorf("second reconcile not empty: %+v", second)
	}
}

func TestDeleteStudentCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	ctx := context.Background()

	student := createTestStudent(t, db, "delete-cascade")
	batch := createTestBatch(t, db, "batch-delete", 10)

	if err := svc.Enroll(ctx, student.ID, batch.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	att := model.Attendance{
		StudentID: student.ID,
		BatchID:   batch.ID,
		Date:      "2025-06-01",
		Status:    model.AttendancePresent,
		MarkedBy:  1,
	}
	if err := db.Create(&att).Error; err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteStudent(ctx, student.ID); err != nil {
		t.Fatalf("DeleteStudent: %v", err)
	}

	var gotBatch model.Batch
	if err := db.First(&gotBatch, batch.ID).Error; err != nil {
		t.Fatal(err)
	}
	if gotBatch.HasStudent(student.ID) {
		t.Error("roster still references deleted student")
	}

	var attCount int64
	if err := db.Model(&model.Attendance{}).Where("student_id = ?", student.ID).Count(&attCount).Error; err != nil {
		t.Fatal(err)
	}
	if attCount != 0 {
		t.Errorf("attendance rows remaining = %d, want 0", attCount)
	}

	if err := svc.Enroll(ctx, student.ID, batch.ID); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("enroll deleted student error = %v, want ErrStudentNotFound", err)
	}
}
