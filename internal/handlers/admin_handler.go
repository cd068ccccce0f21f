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

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// CreateFirstAdmin bootstraps the very first super admin. It only works
// while no admin accounts exist.
func (h *AdminHandler) CreateFirstAdmin(c *fiber.Ctx) error {
	var req dto.FirstAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	err := h.adminService.CreateFirstAdmin(req.Email, req.Password, req.AdminCreationSecret)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSecret):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrAdminExists):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "Admin account created"})
}

func (h *AdminHandler) InviteAdmin(c *fiber.Ctx) error {
	inviterID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.AdminInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	result, err := h.adminService.InviteAdmin(inviterID, req.Email, req.AdminCreationSecret)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSecret):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrInviteExists):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *AdminHandler) AcceptInvite(c *fiber.Ctx) error {
	var req dto.AcceptInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	email, err := h.adminService.AcceptInvite(req.Token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInviteInvalid):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Admin account created",
		"email":   email,
	})
}

func (h *AdminHandler) ListInvites(c *fiber.Ctx) error {
	invites, err := h.adminService.ListInvites()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load invites",
		})
	}
	return c.JSON(invites)
}

func (h *AdminHandler) RevokeInvite(c *fiber.Ctx) error {
	inviteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid invite id",
		})
	}

	if err := h.adminService.RevokeInvite(inviteID); err != nil {
		if errors.Is(err, services.ErrInviteNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to revoke invite",
		})
	}

	return c.JSON(dto.MessageResponse{Message: "Invite revoked"})
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.adminService.ListUsers()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load users",
		})
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(resp)
}

func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	err := h.adminService.CreateUser(req.Email, req.Password, models.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "User created"})
}

func (h *AdminHandler) Analytics(c *fiber.Ctx) error {
	analytics, err := h.adminService.Analytics()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load analytics",
		})
	}
	return c.JSON(analytics)
}
