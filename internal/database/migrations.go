package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/pkg/crypto"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TaskStatus{},
		&models.Task{},
		&models.AuditLog{},
	)
}

// SeedData populates the task status lookup table and the bootstrap admin
// account. Both inserts are idempotent so reruns on restart are safe.
func SeedData(db *gorm.DB, seed SeedConfig) error {
	for _, name := range []string{models.StatusTodo, models.StatusInProgress, models.StatusDone} {
		status := models.TaskStatus{Name: name}
		if err := db.Where(models.TaskStatus{Name: name}).Attrs(status).FirstOrCreate(&models.TaskStatus{}).Error; err != nil {
			return fmt.Errorf("seed task status %q: %w", name, err)
		}
	}

	email := strings.ToLower(strings.TrimSpace(seed.AdminEmail))
	if email == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("check admin account: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := crypto.HashPassword(seed.AdminPassword, seed.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Email:     email,
		Firstname: strings.TrimSpace(seed.AdminFirstname),
		Surname:   strings.TrimSpace(seed.AdminSurname),
		Password:  hash,
		Role:      models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin account: %w", err)
	}

	return nil
}
