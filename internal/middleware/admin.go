package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gramatike/gramatike-api/internal/config"
	"github.com/gramatike/gramatike-api/internal/dto"
	"github.com/gramatike/gramatike-api/internal/models"
	"gorm.io/gorm"
)

// AccountGate blocks banned and currently-suspended accounts whose tokens
// are still live. Must run after JWTProtected.
func AccountGate(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Autenticação necessária",
			})
		}
		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Conta não encontrada",
			})
		}
		if user.IsBanned || user.Suspended(time.Now()) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Conta bloqueada",
			})
		}
		c.Locals("account", &user)
		return c.Next()
	}
}

// Account returns the user loaded by AccountGate, when present.
func Account(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("account").(*models.User)
	return user
}

// AdminRequired allows only admins: the DB flags win, with the configured
// email lists as bootstrap.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminSet := csvSet(cfg.AdminEmails)
	superSet := csvSet(cfg.SuperadminEmails)

	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Autenticação necessária",
			})
		}
		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Conta não encontrada",
			})
		}
		email := strings.ToLower(user.Email)
		if user.IsAdmin || user.IsSuperadmin || adminSet[email] || superSet[email] {
			c.Locals("account", &user)
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Acesso restrito à administração",
		})
	}
}

func csvSet(csv string) map[string]bool {
	set := make(map[string]bool)
	for _, part := range strings.Split(csv, ",") {
		if email := strings.ToLower(strings.TrimSpace(part)); email != "" {
			set[email] = true
		}
	}
	return set
}
