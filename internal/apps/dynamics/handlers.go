package dynamics

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/dto"
	"github.com/gramatike/gramatike-api/internal/middleware"
	"github.com/gramatike/gramatike-api/internal/services"
	"gorm.io/datatypes"
)

type Handler struct {
	svc        *Service
	moderation *services.ModerationService
}

func NewHandler(svc *Service, moderation *services.ModerationService) *Handler {
	return &Handler{svc: svc, moderation: moderation}
}

type CreateRequest struct {
	Tipo      string          `json:"tipo"`
	Titulo    string          `json:"titulo"`
	Descricao string          `json:"descricao"`
	Config    json.RawMessage `json:"config"`
}

type RespondRequest struct {
	Payload json.RawMessage `json:"payload"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Autenticação necessária"})
	}
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Corpo da requisição inválido"})
	}

	d, err := h.svc.Create(userID, req.Tipo, req.Titulo, req.Descricao, datatypes.JSON(req.Config))
	if err != nil {
		if errors.Is(err, ErrUnknownTipo) || errors.Is(err, ErrInvalidConfig) || errors.Is(err, services.ErrEmptyContent) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Erro interno"})
	}
	return c.Status(fiber.StatusCreated).JSON(d)
}

func (h *Handler) List(c *fiber.Ctx) error {
	activeOnly := !c.QueryBool("all", false)
	rows, err := h.svc.List(activeOnly, c.QueryInt("limit", 20))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Erro interno"})
	}
	return c.JSON(rows)
}

// View returns the dynamic with its aggregate and whether the caller
// already responded.
func (h *Handler) View(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Dinâmica não encontrada"})
	}
	d, err := h.svc.Get(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Dinâmica não encontrada"})
	}

	resp := fiber.Map{"dynamic": d}

	switch d.Tipo {
	case TipoPoll:
		if counts, err := h.svc.AggregatePoll(d); err == nil {
			resp["aggregate"] = counts
		}
	case TipoOneWord:
		if words, err := h.svc.AggregateOneWord(d.ID); err == nil {
			resp["aggregate"] = words
		}
	case TipoForm:
		if rows, err := h.svc.Responses(d.ID); err == nil {
			resp["responses"] = rows
		}
	}

	if userID, err := middleware.CurrentUserID(c); err == nil {
		responded, _ := h.svc.HasResponded(d.ID, userID)
		resp["responded"] = responded
	}
	return c.JSON(resp)
}

func (h *Handler) Respond(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Autenticação necessária"})
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Dinâmica não encontrada"})
	}

	var req RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Corpo da requisição inválido"})
	}

	resp, err := h.svc.Respond(id, userID, datatypes.JSON(req.Payload))
	if err != nil {
		var modErr *services.ModerationError
		switch {
		case errors.As(err, &modErr):
			return c.Status(fiber.StatusBadRequest).JSON(
				dto.NewModerationBlocked(modErr.Decision.Category, h.moderation.RejectionMessage(modErr.Decision.Category)))
		case errors.Is(err, ErrAlreadyResponded):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Você já respondeu esta dinâmica"})
		case errors.Is(err, ErrDynamicInactive):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Esta dinâmica foi encerrada"})
		case errors.Is(err, ErrDynamicNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Dinâmica não encontrada"})
		case errors.Is(err, ErrInvalidPayload), errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnknownTipo):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Resposta inválida"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Erro interno"})
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *Handler) Export(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Dinâmica não encontrada"})
	}
	data, err := h.svc.ExportCSV(id)
	if err != nil {
		if errors.Is(err, ErrDynamicNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Dinâmica não encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Erro interno"})
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="dyn_%s.csv"`, id))
	return c.Send(data)
}

func (h *Handler) Toggle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Dinâmica não encontrada"})
	}
	d, err := h.svc.Get(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Dinâmica não encontrada"})
	}
	if err := h.svc.SetActive(id, !d.Active); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Erro interno"})
	}
	return c.JSON(fiber.Map{"active": !d.Active})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Dinâmica não encontrada"})
	}
	if err := h.svc.Delete(id); err != nil {
		if errors.Is(err, ErrDynamicNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Dinâmica não encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Erro interno"})
	}
	return c.JSON(fiber.Map{"deleted": true})
}
