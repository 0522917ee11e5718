package services

import (
	"os"
	"testing"
	"time"

	"github.com/abhi1580/coaching-center-sub003/database"
	"github.com/abhi1580/coaching-center-sub003/model"
	"github.com/abhi1580/coaching-center-sub003/utils/validation"
	"gorm.io/gorm"
)

// setupTestDB connects to the postgres instance configured through the usual
// DB_* environment variables. Tests using it are skipped unless
// RUN_INTEGRATION_TESTS=true.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run")
	}

	store, err := database.StartGORM()
	if err != nil {
		t.Fatalf("connect to postgres: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	db := store.GetDB()
	cleanTables(t, db)
	t.Cleanup(func() {
		cleanTables(t, db)
		store.Close()
	})
	return db
}

func cleanTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, m := range []interface{}{
		&model.Attendance{},
		&model.Announcement{},
		&model.Payment{},
		&model.Batch{},
		&model.Student{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error; err != nil {
			t.Fatalf("clean table %T: %v", m, err)
		}
	}
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := validation.ParseISODate(s)
	if err != nil {
		t.Fatalf("parse date %s: %v", s, err)
	}
	return d
}

func createTestStudent(t *testing.T, db *gorm.DB, name string) *model.Student {
	t.Helper()
	student := &model.Student{
		Name:       name,
		Email:      name + "@test.local",
		Status:     model.StudentActive,
		SubjectIDs: []int64{},
		BatchIDs:   []int64{},
	}
	if err := db.Create(student).Error; err != nil {
		t.Fatalf("create student %s: %v", name, err)
	}
	return student
}

func createTestBatch(t *testing.T, db *gorm.DB, name string, capacity int) *model.Batch {
	t.Helper()
	batch := &model.Batch{
		Name:               name,
		StartDate:          mustDate(t, "2025-01-01"),
		EndDate:            mustDate(t, "2025-12-31"),
		Capacity:           capacity,
		EnrolledStudentIDs: []int64{},
		Status:             model.BatchActive,
	}
	if err := db.Create(batch).Error; err != nil {
		t.Fatalf("create batch %s: %v", name, err)
	}
	return batch
}
