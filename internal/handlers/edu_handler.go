package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/dto"
	"github.com/gramatike/gramatike-api/internal/middleware"
	"github.com/gramatike/gramatike-api/internal/services"
)

type EduHandler struct {
	eduService *services.EduService
}

func NewEduHandler(eduService *services.EduService) *EduHandler {
	return &EduHandler{eduService: eduService}
}

func (h *EduHandler) List(c *fiber.Ctx) error {
	rows, total, err := h.eduService.ListContent(services.ListEduQuery{
		Q:      c.Query("q"),
		Tipo:   c.Query("tipo"),
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	})
	if err != nil {
		return internalError(c)
	}
	return c.JSON(fiber.Map{"items": rows, "total": total})
}

func (h *EduHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c, "Conteúdo não encontrado")
	}
	content, err := h.eduService.GetContent(id)
	if err != nil {
		return notFound(c, "Conteúdo não encontrado")
	}
	return c.JSON(content)
}

func (h *EduHandler) Create(c *fiber.Ctx) error {
	user := middleware.Account(c)
	if user == nil {
		return unauthorized(c)
	}
	var req dto.EduContentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	content, err := h.eduService.CreateContent(user.ID, services.EduContentInput{
		Tipo:    req.Tipo,
		Titulo:  req.Titulo,
		Resumo:  req.Resumo,
		Corpo:   req.Corpo,
		URL:     req.URL,
		TopicID: req.TopicID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyContent):
			return badRequest(c, "O título é obrigatório")
		case errors.Is(err, services.ErrNotFound):
			return badRequest(c, "Tipo de conteúdo desconhecido")
		}
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(content)
}

func (h *EduHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c, "Conteúdo não encontrado")
	}
	var req dto.EduContentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	content, err := h.eduService.UpdateContent(id, services.EduContentInput{
		Tipo:    req.Tipo,
		Titulo:  req.Titulo,
		Resumo:  req.Resumo,
		Corpo:   req.Corpo,
		URL:     req.URL,
		TopicID: req.TopicID,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c, "Conteúdo não encontrado")
		}
		return internalError(c)
	}
	return c.JSON(content)
}

func (h *EduHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c, "Conteúdo não encontrado")
	}
	if err := h.eduService.DeleteContent(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c, "Conteúdo não encontrado")
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

// Topics.

func (h *EduHandler) ListTopics(c *fiber.Ctx) error {
	topics, err := h.eduService.ListTopics(c.Query("area"))
	if err != nil {
		return internalError(c)
	}
	return c.JSON(topics)
}

func (h *EduHandler) CreateTopic(c *fiber.Ctx) error {
	var req dto.EduTopicRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	topic, err := h.eduService.CreateTopic(req.Area, req.Nome)
	if err != nil {
		if errors.Is(err, services.ErrEmptyContent) {
			return badRequest(c, "Área e nome são obrigatórios")
		}
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(topic)
}

// Novidades.

func (h *EduHandler) ListNovidades(c *fiber.Ctx) error {
	rows, err := h.eduService.ListNovidades(c.QueryInt("limit", 10))
	if err != nil {
		return internalError(c)
	}
	return c.JSON(rows)
}

func (h *EduHandler) CreateNovidade(c *fiber.Ctx) error {
	user := middleware.Account(c)
	if user == nil {
		return unauthorized(c)
	}
	var req dto.NovidadeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	novidade, err := h.eduService.CreateNovidade(user.ID, req.Titulo, req.Descricao, req.Link)
	if err != nil {
		if errors.Is(err, services.ErrEmptyContent) {
			return badRequest(c, "O título é obrigatório")
		}
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(novidade)
}

func (h *EduHandler) DeleteNovidade(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c, "Novidade não encontrada")
	}
	if err := h.eduService.DeleteNovidade(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c, "Novidade não encontrada")
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"deleted": true})
}
