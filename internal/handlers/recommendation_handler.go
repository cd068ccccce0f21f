package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/habitforge/habitforge-backend/internal/dto"
	"github.com/habitforge/habitforge-backend/internal/middleware"
	"github.com/habitforge/habitforge-backend/internal/models"
	"github.com/habitforge/habitforge-backend/internal/services"
)

type RecommendationHandler struct {
	recService *services.RecommendationService
}

func NewRecommendationHandler(recService *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recService: recService}
}

func (h *RecommendationHandler) Generate(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.GenerateRecommendationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	rec, err := h.recService.Generate(c.UserContext(), userID, models.RecommendationType(req.RecommendationType))
	if err != nil {
		if errors.Is(err, services.ErrInvalidRecommendation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to generate recommendation",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (h *RecommendationHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	unreadOnly := c.QueryBool("unread_only", false)
	limit := c.QueryInt("limit", 10)

	recs, err := h.recService.List(userID, unreadOnly, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load recommendations",
		})
	}
	return c.JSON(recs)
}

func (h *RecommendationHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	recID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid recommendation id",
		})
	}

	if err := h.recService.MarkRead(userID, recID); err != nil {
		if errors.Is(err, services.ErrRecommendationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to mark recommendation as read",
		})
	}

	return c.JSON(dto.MessageResponse{Message: "Recommendation marked as read"})
}

func (h *RecommendationHandler) Daily(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	recs, err := h.recService.Daily(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load daily recommendations",
		})
	}
	return c.JSON(recs)
}
