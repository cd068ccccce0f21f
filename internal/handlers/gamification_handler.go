package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/habitforge/habitforge-backend/internal/dto"
	"github.com/habitforge/habitforge-backend/internal/middleware"
	"github.com/habitforge/habitforge-backend/internal/models"
	"github.com/habitforge/habitforge-backend/internal/services"
)

type GamificationHandler struct {
	gamification *services.GamificationService
	analytics    *services.AnalyticsService
	habitService *services.HabitService
}

func NewGamificationHandler(gamification *services.GamificationService, analytics *services.AnalyticsService, habitService *services.HabitService) *GamificationHandler {
	return &GamificationHandler{
		gamification: gamification,
		analytics:    analytics,
		habitService: habitService,
	}
}

func (h *GamificationHandler) Stats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	stats, err := h.gamification.UserStats(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load stats",
		})
	}
	return c.JSON(stats)
}

func (h *GamificationHandler) Badges(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	badges, err := h.gamification.Badges(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load badges",
		})
	}
	return c.JSON(badges)
}

func (h *GamificationHandler) BadgeCatalog(c *fiber.Ctx) error {
	return c.JSON(models.BadgeCatalog)
}

func (h *GamificationHandler) Analytics(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	summary, err := h.analytics.Summary(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load analytics",
		})
	}
	return c.JSON(summary)
}

func (h *GamificationHandler) Progress(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	progress, err := h.habitService.Progress(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load progress",
		})
	}
	return c.JSON(progress)
}

func (h *GamificationHandler) WeeklyProgress(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	days, err := h.habitService.WeeklyProgress(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load weekly progress",
		})
	}
	return c.JSON(days)
}
