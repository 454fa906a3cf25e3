package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratamabintang/khs-assesment-sub001/src/database"
	"github.com/pratamabintang/khs-assesment-sub001/src/logger"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
)

// DB returns a migrated, isolated in-memory SQLite database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.OpenSQL("sqlite", dsn)
	if err != nil {
		tb.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		tb.Fatalf("failed to migrate: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.Nop()
}

func SeedUser(tb testing.TB, db *gorm.DB, id string) *models.User {
	tb.Helper()
	u := &models.User{ID: id, Name: id, Email: id + "@example.com", Role: models.RoleUser}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedEmployee creates an employee owned by tenant (empty tenant = no owner).
func SeedEmployee(tb testing.TB, db *gorm.DB, id, tenant string) *models.Employee {
	tb.Helper()
	e := &models.Employee{ID: id, Name: "Employee " + id}
	if tenant != "" {
		e.UserID = &tenant
	}
	if err := db.Create(e).Error; err != nil {
		tb.Fatalf("seed employee: %v", err)
	}
	return e
}

func SeedSurvey(tb testing.TB, db *gorm.DB, survey *models.Survey) *models.Survey {
	tb.Helper()
	if err := db.Create(survey).Error; err != nil {
		tb.Fatalf("seed survey: %v", err)
	}
	return survey
}
