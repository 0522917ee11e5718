package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/abhi1580/coaching-center-sub003/model"
	"gorm.io/gorm"
)

// EnrollmentService maintains the bidirectional relationship between a
// batch's roster (Batch.EnrolledStudentIDs) and each student's batch list
// (Student.BatchIDs).
//
// The two sides live in different rows, and each side is updated by one
// atomic single-row statement; no cross-row transaction is assumed. A crash
// between the two writes leaves a half-applied state, which Enroll/Unenroll
// complete on retry and Reconcile converges in the background.
type EnrollmentService struct {
	db *gorm.DB
}

// NewEnrollmentService creates an enrollment service.
func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{db: db}
}

// Enroll adds the student to the batch roster and the batch to the student's
// list. Exactly one of two concurrent attempts for the same pair succeeds;
// the other observes ErrAlreadyEnrolled. The roster append is a conditional
// single-row update, so capacity can never be exceeded regardless of
// concurrent attempts.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, batchID uint) error {
	student, err := s.getStudent(ctx, studentID)
	if err != nil {
		return err
	}
	batch, err := s.getBatch(ctx, batchID)
	if err != nil {
		return err
	}

	batchHas := batch.HasStudent(studentID)
	studentHas := student.HasBatch(batchID)

	switch {
	case batchHas && studentHas:
		return ErrAlreadyEnrolled

	case batchHas && !studentHas:
		// Half-applied enroll: the roster already holds the student.
		// Complete the missing side instead of erroring.
		return s.addBatchToStudent(ctx, studentID, batchID)

	case !batchHas && studentHas:
		// Half-applied the other way round.
		if err := s.appendToRoster(ctx, studentID, batchID); err != nil && !errors.Is(err, ErrAlreadyEnrolled) {
			return err
		}
		return nil

	default:
		if err := s.appendToRoster(ctx, studentID, batchID); err != nil {
			return err
		}
		return s.addBatchToStudent(ctx, studentID, batchID)
	}
}

// Unenroll removes the relationship from both sides symmetrically. A
// half-applied removal is completed on retry rather than reported as
// ErrNotEnrolled.
func (s *EnrollmentService) Unenroll(ctx context.Context, studentID, batchID uint) error {
	student, err := s.getStudent(ctx, studentID)
	if err != nil {
		return err
	}
	batch, err := s.getBatch(ctx, batchID)
	if err != nil {
		return err
	}

	batchHas := batch.HasStudent(studentID)
	studentHas := student.HasBatch(batchID)

	if !batchHas && !studentHas {
		return ErrNotEnrolled
	}

	if batchHas {
		if err := s.removeFromRoster(ctx, studentID, batchID); err != nil {
			return err
		}
	}
	if studentHas {
		if err := s.removeBatchFromStudent(ctx, studentID, batchID); err != nil {
			return err
		}
	}
	return nil
}

// RepairPair identifies one repaired (student, batch) link.
type RepairPair struct {
	StudentID uint `json:"student_id"`
	BatchID   uint `json:"batch_id"`
}

// ReconcileReport summarizes the repairs one sweep performed. Repairs are not
// errors; only store failures land in Errors.
type ReconcileReport struct {
	StudentSideAdded        []RepairPair `json:"student_side_added"`        // batch restored to a student's list
	RosterAdded             []RepairPair `json:"roster_added"`              // student restored to a batch roster
	DanglingStudentsDropped []RepairPair `json:"dangling_students_dropped"` // roster entries for missing students
	DanglingBatchesDropped  []RepairPair `json:"dangling_batches_dropped"`  // student entries for missing batches
	CapacityDropped         []RepairPair `json:"capacity_dropped"`          // entries dropped because the roster is full
	Errors                  []string     `json:"errors,omitempty"`
}

// TotalRepairs counts every change the sweep made.
func (r *ReconcileReport) TotalRepairs() int {
	return len(r.StudentSideAdded) + len(r.RosterAdded) +
		len(r.DanglingStudentsDropped) + len(r.DanglingBatchesDropped) +
		len(r.CapacityDropped)
}

// Empty reports whether the sweep found nothing to do.
func (r *ReconcileReport) Empty() bool {
	return r.TotalRepairs() == 0 && len(r.Errors) == 0
}

// Reconcile walks every batch roster and every student batch list, repairing
// divergence between the two views:
//
//   - a roster entry whose student is missing is dropped from the roster;
//   - a roster entry the student does not mirror is added to the student;
//   - a student entry whose batch is missing is dropped from the student;
//   - a student entry the roster does not mirror is added to the roster,
//     unless the roster is full, in which case the student entry is dropped
//     and reported.
//
// Each repair is one atomic row update, so a sweep that stops partway leaves
// nothing corrupted. The result is idempotent to a fixed point: an immediate
// second run returns an empty report.
func (s *EnrollmentService) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{}

	var students []model.Student
	if err := s.db.WithContext(ctx).Find(&students).Error; err != nil {
		return nil, fmt.Errorf("reconcile: load students: %w", err)
	}
	var batches []model.Batch
	if err := s.db.WithContext(ctx).Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("reconcile: load batches: %w", err)
	}

	// In-memory membership mirrors, updated as repairs land so the second
	// pass never re-repairs what the first pass fixed.
	studentSets := make(map[uint]map[uint]bool, len(students))
	for _, st := range students {
		set := make(map[uint]bool, len(st.BatchIDs))
		for _, bid := range st.BatchIDs {
			set[uint(bid)] = true
		}
		studentSets[st.ID] = set
	}
	rosterSets := make(map[uint]map[uint]bool, len(batches))
	for _, b := range batches {
		set := make(map[uint]bool, len(b.EnrolledStudentIDs))
		for _, sid := range b.EnrolledStudentIDs {
			set[uint(sid)] = true
		}
		rosterSets[b.ID] = set
	}

	// Pass 1: roster entries.
	for _, b := range batches {
		for _, raw := range b.EnrolledStudentIDs {
			sid := uint(raw)
			pair := RepairPair{StudentID: sid, BatchID: b.ID}

			if _, ok := studentSets[sid]; !ok {
				if err := s.removeFromRoster(ctx, sid, b.ID); err != nil {
					report.Errors = append(report.Errors, fmt.Sprintf("drop student %d from batch %d roster: %v", sid, b.ID, err))
					continue
				}
				delete(rosterSets[b.ID], sid)
				report.DanglingStudentsDropped = append(report.DanglingStudentsDropped, pair)
				continue
			}

			if !studentSets[sid][b.ID] {
				if err := s.addBatchToStudent(ctx, sid, b.ID); err != nil {
					report.Errors = append(report.Errors, fmt.Sprintf("restore batch %d to student %d: %v", b.ID, sid, err))
					continue
				}
				studentSets[sid][b.ID] = true
				report.StudentSideAdded = append(report.StudentSideAdded, pair)
			}
		}
	}

	// Pass 2: student entries.
	for _, st := range students {
		for _, raw := range st.BatchIDs {
			bid := uint(raw)
			pair := RepairPair{StudentID: st.ID, BatchID: bid}

			if _, ok := rosterSets[bid]; !ok {
				if err := s.removeBatchFromStudent(ctx, st.ID, bid); err != nil {
					report.Errors = append(report.Errors, fmt.Sprintf("drop batch %d from student %d: %v", bid, st.ID, err))
					continue
				}
				report.DanglingBatchesDropped = append(report.DanglingBatchesDropped, pair)
				continue
			}

			if !rosterSets[bid][st.ID] {
				err := s.appendToRoster(ctx, st.ID, bid)
				switch {
				case err == nil:
					rosterSets[bid][st.ID] = true
					report.RosterAdded = append(report.RosterAdded, pair)
				case errors.Is(err, ErrAlreadyEnrolled):
					// A concurrent enroll got there first; nothing to report.
					rosterSets[bid][st.ID] = true
				case errors.Is(err, ErrBatchFull):
					if derr := s.removeBatchFromStudent(ctx, st.ID, bid); derr != nil {
						report.Errors = append(report.Errors, fmt.Sprintf("drop over-capacity batch %d from student %d: %v", bid, st.ID, derr))
						continue
					}
					report.CapacityDropped = append(report.CapacityDropped, pair)
				case errors.Is(err, ErrBatchNotFound):
					if derr := s.removeBatchFromStudent(ctx, st.ID, bid); derr != nil {
						report.Errors = append(report.Errors, fmt.Sprintf("drop batch %d from student %d: %v", bid, st.ID, derr))
						continue
					}
					report.DanglingBatchesDropped = append(report.DanglingBatchesDropped, pair)
				default:
					report.Errors = append(report.Errors, fmt.Sprintf("restore student %d to batch %d roster: %v", st.ID, bid, err))
				}
			}
		}
	}

	if report.TotalRepairs() > 0 {
		log.Printf("enrollment reconcile: %d repairs applied", report.TotalRepairs())
	}
	return report, nil
}

// DeleteStudent withdraws a student: removed from every batch roster, its
// attendance facts hard-deleted, then the record itself removed.
func (s *EnrollmentService) DeleteStudent(ctx context.Context, studentID uint) error {
	if _, err := s.getStudent(ctx, studentID); err != nil {
		return err
	}

	// One set-based statement clears every roster referencing the student,
	// including rosters the student's own list never knew about.
	if err := s.db.WithContext(ctx).Model(&model.Batch{}).
		Where("? = ANY(enrolled_student_ids)", int64(studentID)).
		Update("enrolled_student_ids", gorm.Expr("array_remove(enrolled_student_ids, ?)", int64(studentID))).Error; err != nil {
		return fmt.Errorf("remove student %d from rosters: %w", studentID, err)
	}

	if err := s.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&model.Attendance{}).Error; err != nil {
		return fmt.Errorf("delete attendance for student %d: %w", studentID, err)
	}

	if err := s.db.WithContext(ctx).Delete(&model.Student{}, studentID).Error; err != nil {
		return fmt.Errorf("delete student %d: %w", studentID, err)
	}
	return nil
}

// ListBatchStudents returns the students on a batch roster, by roster
// membership. An empty roster yields an empty slice.
func (s *EnrollmentService) ListBatchStudents(ctx context.Context, batchID uint) ([]model.Student, error) {
	batch, err := s.getBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	students := []model.Student{}
	if len(batch.EnrolledStudentIDs) == 0 {
		return students, nil
	}

	if err := s.db.WithContext(ctx).
		Where("id IN ?", []int64(batch.EnrolledStudentIDs)).
		Order("name ASC").
		Find(&students).Error; err != nil {
		return nil, fmt.Errorf("load students for batch %d: %w", batchID, err)
	}
	return students, nil
}

func (s *EnrollmentService) getStudent(ctx context.Context, id uint) (*model.Student, error) {
	var student model.Student
	if err := s.db.WithContext(ctx).First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("load student %d: %w", id, err)
	}
	return &student, nil
}

func (s *EnrollmentService) getBatch(ctx context.Context, id uint) (*model.Batch, error) {
	var batch model.Batch
	if err := s.db.WithContext(ctx).First(&batch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("load batch %d: %w", id, err)
	}
	return &batch, nil
}

// appendToRoster adds the student to the roster in one conditional atomic
// update. The WHERE clause carries both the duplicate check and the capacity
// check, so the append can never double-add or overfill under concurrency.
func (s *EnrollmentService) appendToRoster(ctx context.Context, studentID, batchID uint) error {
	res := s.db.WithContext(ctx).Model(&model.Batch{}).
		Where("id = ? AND NOT (? = ANY(enrolled_student_ids)) AND cardinality(enrolled_student_ids) < capacity",
			batchID, int64(studentID)).
		Update("enrolled_student_ids", gorm.Expr("array_append(enrolled_student_ids, ?)", int64(studentID)))
	if res.Error != nil {
		return fmt.Errorf("append student %d to batch %d roster: %w", studentID, batchID, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// The guarded update did not apply: a concurrent enroll won, the batch
	// is full, or the batch is gone. Re-read to tell which.
	batch, err := s.getBatch(ctx, batchID)
	if err != nil {
		return err
	}
	if batch.HasStudent(studentID) {
		return ErrAlreadyEnrolled
	}
	if batch.IsFull() {
		return ErrBatchFull
	}
	return fmt.Errorf("append student %d to batch %d roster: update did not apply", studentID, batchID)
}

func (s *EnrollmentService) removeFromRoster(ctx context.Context, studentID, batchID uint) error {
	err := s.db.WithContext(ctx).Model(&model.Batch{}).
		Where("id = ?", batchID).
		Update("enrolled_student_ids", gorm.Expr("array_remove(enrolled_student_ids, ?)", int64(studentID))).Error
	if err != nil {
		return fmt.Errorf("remove student %d from batch %d roster: %w", studentID, batchID, err)
	}
	return nil
}

func (s *EnrollmentService) addBatchToStudent(ctx context.Context, studentID, batchID uint) error {
	// The NOT ... ANY guard keeps this idempotent under concurrent retries.
	err := s.db.WithContext(ctx).Model(&model.Student{}).
		Where("id = ? AND NOT (? = ANY(batch_ids))", studentID, int64(batchID)).
		Update("batch_ids", gorm.Expr("array_append(batch_ids, ?)", int64(batchID))).Error
	if err != nil {
		return fmt.Errorf("add batch %d to student %d: %w", batchID, studentID, err)
	}
	return nil
}

func (s *EnrollmentService) removeBatchFromStudent(ctx context.Context, studentID, batchID uint) error {
	err := s.db.WithContext(ctx).Model(&model.Student{}).
		Where("id = ?", studentID).
		Update("batch_ids", gorm.Expr("array_remove(batch_ids, ?)", int64(batchID))).Error
	if err != nil {
		return fmt.Errorf("remove batch %d from student %d: %w", batchID, studentID, err)
	}
	return nil
}
