package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/habitforge/habitforge-backend/internal/dto"
	"github.com/habitforge/habitforge-backend/internal/middleware"
	"github.com/habitforge/habitforge-backend/internal/services"
)

type HabitHandler struct {
	habitService *services.HabitService
}

func NewHabitHandler(habitService *services.HabitService) *HabitHandler {
	return &HabitHandler{habitService: habitService}
}

func (h *HabitHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	detail, newBadges, err := h.habitService.CreateHabit(userID, services.CreateHabitInput{
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		DifficultyLevel: req.DifficultyLevel,
		TargetFrequency: req.TargetFrequency,
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.HabitResult{
		Habit:     dto.NewHabitResponse(detail.Habit, detail.CurrentStreak, detail.CheckIns),
		NewBadges: newBadges,
	})
}

func (h *HabitHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	details, err := h.habitService.ListHabits(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load habits",
		})
	}

	habits := make([]dto.HabitResponse, 0, len(details))
	for _, d := range details {
		habits = append(habits, dto.NewHabitResponse(d.Habit, d.CurrentStreak, d.CheckIns))
	}
	return c.JSON(habits)
}

func (h *HabitHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	habitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid habit id",
		})
	}

	detail, err := h.habitService.GetHabit(userID, habitID)
	if err != nil {
		if errors.Is(err, services.ErrHabitNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load habit",
		})
	}

	return c.JSON(dto.NewHabitResponse(detail.Habit, detail.CurrentStreak, detail.CheckIns))
}

func (h *HabitHandler) Deactivate(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	habitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid habit id",
		})
	}

	if err := h.habitService.Deactivate(userID, habitID); err != nil {
		if errors.Is(err, services.ErrHabitNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to deactivate habit",
		})
	}

	return c.JSON(dto.MessageResponse{Message: "Habit deactivated"})
}

func (h *HabitHandler) CheckIn(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	habitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid habit id",
		})
	}

	var req dto.CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	detail, newBadges, err := h.habitService.CheckIn(userID, habitID, req.MoodRating, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrHabitNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrAlreadyCheckedIn):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrInvalidMoodRating):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to check in",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(dto.HabitResult{
		Habit:     dto.NewHabitResponse(detail.Habit, detail.CurrentStreak, detail.CheckIns),
		NewBadges: newBadges,
	})
}
