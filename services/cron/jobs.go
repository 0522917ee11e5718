package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/abhi1580/coaching-center-sub003/model"
)

const jobTimeout = 5 * time.Minute

// ReconcileEnrollments runs the enrollment reconciler to a fixed point and
// records the repair counts. A non-empty report is normal after manual data
// fixes; repeated non-empty reports point at a writer bypassing the service.
func (m *CronManager) ReconcileEnrollments() {
	jobName := "reconcile_enrollments"
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report, err := m.enrollment.Reconcile(ctx)
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	if report.Empty() {
		m.logJobComplete(jobName, "no repairs needed")
		return
	}
	m.logJobComplete(jobName, fmt.Sprintf(
		"repairs=%d (student_side_added=%d roster_added=%d dangling_students=%d dangling_batches=%d capacity_dropped=%d) errors=%d",
		report.TotalRepairs(),
		len(report.StudentSideAdded), len(report.RosterAdded),
		len(report.DanglingStudentsDropped), len(report.DanglingBatchesDropped),
		len(report.CapacityDropped), len(report.Errors)))
}

// RefreshStatuses sweeps stored batch and announcement statuses forward to
// the current time.
func (m *CronManager) RefreshStatuses() {
	jobName := "refresh_statuses"
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	batchChanged, err := m.batches.RefreshStatuses(ctx)
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	annChanged, err := m.announcements.RefreshStatuses(ctx)
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("batches=%d announcements=%d", batchChanged, annChanged))
}

// CleanupOldData removes cron job logs older than 30 days.
func (m *CronManager) CleanupOldData() {
	jobName := "cleanup_old_data"

	cutoff := time.Now().AddDate(0, 0, -30)
	res := m.db.Where("started_at < ?", cutoff).Delete(&model.CronJobLog{})
	if res.Error != nil {
		m.logJobError(jobName, res.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("removed %d old cron logs", res.RowsAffected))
}
