package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gramatike/gramatike-api/internal/dto"
	"github.com/gramatike/gramatike-api/internal/models"
	"github.com/gramatike/gramatike-api/internal/services"
)

func userResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Nome:           u.Nome,
		Bio:            u.Bio,
		FotoPerfil:     u.FotoPerfil,
		Genero:         u.Genero,
		Pronome:        u.Pronome,
		IsAdmin:        u.IsAdmin,
		IsSuperadmin:   u.IsSuperadmin,
		EmailConfirmed: u.EmailConfirmed,
		CreatedAt:      u.CreatedAt,
	}
}

// moderationResponse writes the fixed 400 body when err is a moderation
// rejection. It reports whether it handled the error.
func moderationResponse(c *fiber.Ctx, moderation *services.ModerationService, err error) (error, bool) {
	var modErr *services.ModerationError
	if !errors.As(err, &modErr) {
		return nil, false
	}
	category := modErr.Decision.Category
	return c.Status(fiber.StatusBadRequest).JSON(
		dto.NewModerationBlocked(category, moderation.RejectionMessage(category))), true
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Erro interno"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Autenticação necessária"})
}
