package palavra

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/dto"
	"github.com/gramatike/gramatike-api/internal/middleware"
	"github.com/gramatike/gramatike-api/internal/services"
)

type Handler struct {
	svc        *Service
	moderation *services.ModerationService
}

func NewHandler(svc *Service, moderation *services.ModerationService) *Handler {
	return &Handler{svc: svc, moderation: moderation}
}

type InteractRequest struct {
	Tipo  string `json:"tipo"`
	Frase string `json:"frase"`
}

type CreateRequest struct {
	Palavra     string `json:"palavra"`
	Significado string `json:"significado"`
	Ordem       int    `json:"ordem"`
}

func (h *Handler) Today(c *fiber.Ctx) error {
	word, err := h.svc.Today()
	if err != nil {
		if errors.Is(err, ErrNoWords) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Nenhuma palavra cadastrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Erro interno"})
	}

	resp := fiber.Map{"palavra": word}
	if userID, err := middleware.CurrentUserID(c); err == nil {
		interacted, _ := h.svc.HasInteracted(userID)
		resp["interacted"] = interacted
	}
	return c.JSON(resp)
}

func (h *Handler) Interact(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Autenticação necessária"})
	}
	var req InteractRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Corpo da requisição inválido"})
	}

	interacao, err := h.svc.Interact(userID, req.Tipo, req.Frase)
	if err != nil {
		var modErr *services.ModerationError
		switch {
		case errors.As(err, &modErr):
			return c.Status(fiber.StatusBadRequest).JSON(
				dto.NewModerationBlocked(modErr.Decision.Category, h.moderation.RejectionMessage(modErr.Decision.Category)))
		case errors.Is(err, ErrAlreadyInteracted):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Você já participou hoje"})
		case errors.Is(err, ErrInvalidInteraction):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Interação inválida"})
		case errors.Is(err, ErrNoWords):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Nenhuma palavra cadastrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Erro interno"})
	}
	return c.Status(fiber.StatusCreated).JSON(interacao)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Corpo da requisição inválido"})
	}
	word, err := h.svc.Create(req.Palavra, req.Significado, req.Ordem)
	if err != nil {
		if errors.Is(err, services.ErrEmptyContent) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Informe a palavra"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Erro interno"})
	}
	return c.Status(fiber.StatusCreated).JSON(word)
}

func (h *Handler) List(c *fiber.Ctx) error {
	words, err := h.svc.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Erro interno"})
	}
	return c.JSON(words)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Palavra não encontrada"})
	}
	if err := h.svc.Delete(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Palavra não encontrada"})
	}
	return c.JSON(fiber.Map{"deleted": true})
}

func (h *Handler) Interactions(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Palavra não encontrada"})
	}
	rows, err := h.svc.Interactions(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Erro interno"})
	}
	return c.JSON(rows)
}
