package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/dto"
	"github.com/gramatike/gramatike-api/internal/middleware"
	"github.com/gramatike/gramatike-api/internal/services"
)

type SupportHandler struct {
	supportService *services.SupportService
	moderation     *services.ModerationService
}

func NewSupportHandler(supportService *services.SupportService, moderation *services.ModerationService) *SupportHandler {
	return &SupportHandler{supportService: supportService, moderation: moderation}
}

// Create accepts tickets from logged-in users and anonymous visitors
// alike.
func (h *SupportHandler) Create(c *fiber.Ctx) error {
	var req dto.SupportTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}

	var authorID *uuid.UUID
	if id, err := middleware.CurrentUserID(c); err == nil {
		authorID = &id
	}

	ticket, err := h.supportService.CreateTicket(authorID, req.Nome, req.Email, req.Mensagem)
	if err != nil {
		if resp, handled := moderationResponse(c, h.moderation, err); handled {
			return resp
		}
		if errors.Is(err, services.ErrEmptyContent) {
			return badRequest(c, "A mensagem não pode ser vazia")
		}
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

func (h *SupportHandler) List(c *fiber.Ctx) error {
	tickets, err := h.supportService.ListTickets(c.Query("status"))
	if err != nil {
		return internalError(c)
	}
	return c.JSON(tickets)
}

func (h *SupportHandler) Respond(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c, "Chamado não encontrado")
	}
	var req dto.SupportReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	ticket, err := h.supportService.Respond(id, req.Resposta)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyContent):
			return badRequest(c, "A resposta não pode ser vazia")
		case errors.Is(err, services.ErrNotFound):
			return notFound(c, "Chamado não encontrado")
		}
		return internalError(c)
	}
	return c.JSON(ticket)
}

func (h *SupportHandler) SetStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c, "Chamado não encontrado")
	}
	var req dto.SupportStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if err := h.supportService.SetStatus(id, req.Status); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c, "Chamado ou status inválido")
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"status": req.Status})
}
