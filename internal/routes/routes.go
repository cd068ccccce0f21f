package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/habitforge/habitforge-backend/internal/config"
	"github.com/habitforge/habitforge-backend/internal/handlers"
	"github.com/habitforge/habitforge-backend/internal/middleware"
	"github.com/habitforge/habitforge-backend/internal/models"
	"gorm.io/gorm"
)

func ipLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        window,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	habitHandler *handlers.HabitHandler,
	gamificationHandler *handlers.GamificationHandler,
	recommendationHandler *handlers.RecommendationHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(ipLimiter(60, 1*time.Minute))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter per-IP limit
	auth := api.Group("/auth")
	auth.Use(ipLimiter(10, 1*time.Minute))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/me", middleware.JWTProtected(cfg), authHandler.Me)

	// Admin bootstrap and invite acceptance are public but heavily limited.
	api.Post("/auth/first-admin", ipLimiter(3, 15*time.Minute), adminHandler.CreateFirstAdmin)
	api.Post("/auth/accept-invite", ipLimiter(5, 15*time.Minute), adminHandler.AcceptInvite)

	// Habits and check-ins (JWT required)
	habits := api.Group("/habits", middleware.JWTProtected(cfg))
	habits.Post("/", habitHandler.Create)
	habits.Get("/", habitHandler.List)
	habits.Get("/:id", habitHandler.Get)
	habits.Delete("/:id", habitHandler.Deactivate)
	habits.Post("/:id/check-in", habitHandler.CheckIn)

	// Gamification and analytics (JWT required)
	api.Get("/stats", middleware.JWTProtected(cfg), gamificationHandler.Stats)
	api.Get("/badges", middleware.JWTProtected(cfg), gamificationHandler.Badges)
	api.Get("/badges/catalog", gamificationHandler.BadgeCatalog)
	api.Get("/analytics", middleware.JWTProtected(cfg), gamificationHandler.Analytics)
	api.Get("/progress", middleware.JWTProtected(cfg), gamificationHandler.Progress)
	api.Get("/progress/weekly", middleware.JWTProtected(cfg), gamificationHandler.WeeklyProgress)

	// Recommendations (JWT required)
	recs := api.Group("/recommendations", middleware.JWTProtected(cfg))
	recs.Post("/generate", recommendationHandler.Generate)
	recs.Get("/", recommendationHandler.List)
	recs.Get("/daily", recommendationHandler.Daily)
	recs.Patch("/:id/read", recommendationHandler.MarkRead)

	// Admin panel (JWT + admin role)
	admin := api.Group("/admin",
		middleware.JWTProtected(cfg),
		middleware.RoleRequired(db, models.RoleAdmin),
		ipLimiter(5, 15*time.Minute),
	)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/analytics", adminHandler.Analytics)

	// Super admin only
	super := admin.Group("", middleware.RoleRequired(db, models.RoleSuperAdmin))
	super.Post("/invites", adminHandler.InviteAdmin)
	super.Get("/invites", adminHandler.ListInvites)
	super.Delete("/invites/:id", adminHandler.RevokeInvite)
	super.Post("/users", adminHandler.CreateUser)
}
