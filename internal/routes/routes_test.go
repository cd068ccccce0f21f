package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/habitforge/habitforge-backend/internal/ai"
	"github.com/habitforge/habitforge-backend/internal/config"
	"github.com/habitforge/habitforge-backend/internal/dto"
	"github.com/habitforge/habitforge-backend/internal/handlers"
	"github.com/habitforge/habitforge-backend/internal/models"
	"github.com/habitforge/habitforge-backend/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestApp wires the full route table against an in-memory SQLite
// database, the same way the server entrypoint does.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
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

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  30 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
	}

	authService := services.NewAuthService(db, cfg)
	habitService := services.NewHabitService(db)
	gamificationService := services.NewGamificationService(db)
	analyticsService := services.NewAnalyticsService(db)
	generator := ai.NewGeminiClient("", "", "", time.Second)
	recService := services.NewRecommendationService(db, analyticsService, generator)
	adminService := services.NewAdminService(db, cfg)

	app := fiber.New()
	Setup(app, cfg, db,
		handlers.NewAuthHandler(authService, recService),
		handlers.NewHabitHandler(habitService),
		handlers.NewGamificationHandler(gamificationService, analyticsService, habitService),
		handlers.NewRecommendationHandler(recService),
		handlers.NewAdminHandler(adminService),
		handlers.NewHealthHandler(),
	)
	return app, db
}

func registerTestUser(t *testing.T, app *fiber.App) *dto.AuthResponse {
	t.Helper()

	body, _ := json.Marshal(dto.RegisterRequest{
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()),
		Password: "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var auth dto.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return &auth
}

func TestMarkRecommendationRead_PatchRoute(t *testing.T) {
	app, db := newTestApp(t)
	auth := registerTestUser(t, app)

	rec := &models.Recommendation{
		ID:                 uuid.New(),
		UserID:             auth.User.ID,
		RecommendationType: models.RecommendationMotivation,
		Title:              "Keep Going!",
		Content:            "You're on a roll.",
		SourceAI:           models.SourceSystem,
	}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("create recommendation: %v", err)
	}

	url := fmt.Sprintf("/api/recommendations/%s/read", rec.ID)
	req := httptest.NewRequest(http.MethodPatch, url, nil)
	req.Header.Set("Authorization", "Bearer "+auth.AccessToken)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("patch request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PATCH %s status = %d, want %d", url, resp.StatusCode, http.StatusOK)
	}

	var got models.Recommendation
	if err := db.First(&got, "id = ?", rec.ID).Error; err != nil {
		t.Fatalf("reload recommendation: %v", err)
	}
	if !got.IsRead {
		t.Errorf("recommendation not marked read after PATCH")
	}

	// PUT is not a registered method for the read flip.
	req = httptest.NewRequest(http.MethodPut, url, nil)
	req.Header.Set("Authorization", "Bearer "+auth.AccessToken)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("put request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("PUT %s status = %d, want %d", url, resp.StatusCode, http.StatusMethodNotAllowed)
	}
}
