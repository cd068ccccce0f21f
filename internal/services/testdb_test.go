package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/habitforge/habitforge-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database and migrates the full
// schema. Each call gets its own database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	// A single connection keeps the shared-cache memory DB alive for the
	// whole test.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Habit{},
		&models.CheckIn{},
		&models.Badge{},
		&models.Recommendation{},
		&models.AdminInvite{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		ID:       uuid.New(),
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()),
		Password: string(hash),
		Role:     models.RoleUser,
		IsActive: true,
		Level:    1,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestHabit(t *testing.T, db *gorm.DB, userID uuid.UUID, difficulty int) *models.Habit {
	t.Helper()

	habit := &models.Habit{
		ID:                  uuid.New(),
		UserID:              userID,
		Name:                "Morning run",
		Category:            "fitness",
		DifficultyLevel:     difficulty,
		TargetFrequency:     "daily",
		StartDate:           time.Now().UTC().AddDate(0, 0, -60),
		IsActive:            true,
		PointsPerCompletion: difficulty * 10,
	}
	if err := db.Create(habit).Error; err != nil {
		t.Fatalf("failed to create test habit: %v", err)
	}
	return habit
}

// addCheckIn inserts a raw check-in row daysAgo calendar days in the past,
// bypassing the service so tests can build arbitrary histories.
func addCheckIn(t *testing.T, db *gorm.DB, habitID uuid.UUID, daysAgo int) {
	t.Helper()

	ci := &models.CheckIn{
		ID:          uuid.New(),
		HabitID:     habitID,
		CheckInDate: time.Now().UTC().AddDate(0, 0, -daysAgo),
	}
	if err := db.Create(ci).Error; err != nil {
		t.Fatalf("failed to create test check-in: %v", err)
	}
}
