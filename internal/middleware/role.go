package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/habitforge/habitforge-backend/internal/dto"
	"github.com/habitforge/habitforge-backend/internal/models"
	"gorm.io/gorm"
)

// RoleRequired resolves the authenticated user from the database and
// rejects the request unless the account holds at least the given role.
// Role comparison is by rank, not string equality.
func RoleRequired(db *gorm.DB, min models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if !user.Role.AtLeast(min) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Insufficient role",
			})
		}

		c.Locals("account", &user)
		return c.Next()
	}
}

// Account returns the user loaded by RoleRequired, if any.
func Account(c *fiber.Ctx) *models.User {
	if u, ok := c.Locals("account").(*models.User); ok {
		return u
	}
	return nil
}
