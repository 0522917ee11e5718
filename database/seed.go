package database

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/abhi1580/coaching-center-sub003/model"
	"github.com/abhi1580/coaching-center-sub003/utils/auth"
	"gorm.io/gorm"
)

// RunSeeds creates the admin account and baseline reference data. Every seed
// is idempotent: rerunning against a populated database changes nothing.
func RunSeeds(db *gorm.DB) error {
	if err := seedAdminUser(db); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	if err := seedStandards(db); err != nil {
		return fmt.Errorf("seed standards: %w", err)
	}
	if err := seedSubjects(db); err != nil {
		return fmt.Errorf("seed subjects: %w", err)
	}
	return nil
}

// seedAdminUser creates the admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD. Skipped when the variables are unset.
func seedAdminUser(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin user")
		return nil
	}

	var existing model.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Printf("Admin user %s already exists, skipping", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         model.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Created admin user %s", email)
	return nil
}

func seedStandards(db *gorm.DB) error {
	standards := []model.Standard{
		{Name: "Class 8", Level: 8},
		{Name: "Class 9", Level: 9},
		{Name: "Class 10", Level: 10},
		{Name: "Class 11", Level: 11},
		{Name: "Class 12", Level: 12},
	}

	for _, std := range standards {
		var existing model.Standard
		err := db.Where("name = ?", std.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&std).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedSubjects(db *gorm.DB) error {
	subjects := []model.Subject{
		{Name: "Mathematics", Code: "MATH"},
		{Name: "Physics", Code: "PHY"},
		{Name: "Chemistry", Code: "CHEM"},
		{Name: "Biology", Code: "BIO"},
		{Name: "English", Code: "ENG"},
	}

	for _, sub := range subjects {
		var existing model.Subject
		err := db.Where("code = ?", sub.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&sub).Error; err != nil {
			return err
		}
	}
	return nil
}
