package cron

import (
	"log"
	"time"

	"github.com/abhi1580/coaching-center-sub003/model"
	"github.com/abhi1580/coaching-center-sub003/services"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CronManager schedules the background sweeps: enrollment reconciliation,
// derived-status refresh, and log cleanup. Each run is tracked as a
// CronJobLog row so failed sweeps are visible after the fact.
type CronManager struct {
	cron *cron.Cron
	db   *gorm.DB

	enrollment    *services.EnrollmentService
	batches       *services.BatchService
	announcements *services.AnnouncementService

	reconcileEvery  time.Duration
	statusSweepSpec string
}

// NewCronManager creates a cron manager with seconds precision schedules.
func NewCronManager(db *gorm.DB, enrollment *services.EnrollmentService, batches *services.BatchService, announcements *services.AnnouncementService, reconcileEvery time.Duration, statusSweepSpec string) *CronManager {
	return &CronManager{
		cron:            cron.New(cron.WithSeconds()),
		db:              db,
		enrollment:      enrollment,
		batches:         batches,
		announcements:   announcements,
		reconcileEvery:  reconcileEvery,
		statusSweepSpec: statusSweepSpec,
	}
}

// Start registers all jobs and starts the scheduler.
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

func (m *CronManager) registerJobs() error {
	// Enrollment reconcile sweep, period from RECONCILE_EVERY.
	m.cron.Schedule(cron.Every(m.reconcileEvery), cron.FuncJob(func() {
		m.logJobStart("reconcile_enrollments")
		m.ReconcileEnrollments()
	}))

	// Derived status refresh for batches and announcements.
	_, err := m.cron.AddFunc(m.statusSweepSpec, func() {
		m.logJobStart("refresh_statuses")
		m.RefreshStatuses()
	})
	if err != nil {
		return err
	}

	// Daily at 3 AM: drop old cron logs.
	_, err = m.cron.AddFunc("0 0 3 * * *", func() {
		m.logJobStart("cleanup_old_data")
		m.CleanupOldData()
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

func (m *CronManager) logJobStart(jobName string) {
	log.Printf("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))

	cronLog := model.CronJobLog{
		JobName:   jobName,
		Status:    "running",
		StartedAt: time.Now(),
	}
	m.db.Create(&cronLog)
}

func (m *CronManager) logJobComplete(jobName string, message string) {
	log.Printf("[CRON] Completed job: %s - %s", jobName, message)

	m.db.Model(&model.CronJobLog{}).
		Where("job_name = ? AND status = ?", jobName, "running").
		Order("started_at DESC").
		Limit(1).
		Updates(map[string]interface{}{
			"status":       "completed",
			"completed_at": time.Now(),
			"message":      message,
		})
}

func (m *CronManager) logJobError(jobName string, err error) {
	log.Printf("[CRON] Error in job: %s - %v", jobName, err)

	m.db.Model(&model.CronJobLog{}).
		Where("job_name = ? AND status = ?", jobName, "running").
		Order("started_at DESC").
		Limit(1).
		Updates(map[string]interface{}{
			"status":       "failed",
			"completed_at": time.Now(),
			"error_msg":    err.Error(),
		})
}
