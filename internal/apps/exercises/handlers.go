package exercises

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/dto"
	"gorm.io/datatypes"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type TopicRequest struct {
	Nome      string `json:"nome"`
	Descricao string `json:"descricao"`
	Ordem     int    `json:"ordem"`
}

type SectionRequest struct {
	TopicID uuid.UUID `json:"topic_id"`
	Nome    string    `json:"nome"`
	Ordem   int       `json:"ordem"`
}

type QuestionRequest struct {
	TopicID   uuid.UUID       `json:"topic_id"`
	SectionID *uuid.UUID      `json:"section_id"`
	Tipo      string          `json:"tipo"`
	Enunciado string          `json:"enunciado"`
	Resposta  string          `json:"resposta"`
	Opcoes    json.RawMessage `json:"opcoes"`
}

func (h *Handler) ListTopics(c *fiber.Ctx) error {
	topics, err := h.svc.ListTopics()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Erro interno"})
	}
	return c.JSON(topics)
}

func (h *Handler) Tree(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Tópico não encontrado"})
	}
	tree, err := h.svc.Tree(id)
	if err != nil {
		if errors.Is(err, ErrTopicNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Tópico não encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Erro interno"})
	}
	return c.JSON(tree)
}

func (h *Handler) CreateTopic(c *fiber.Ctx) error {
	var req TopicRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Corpo da requisição inválido"})
	}
	topic, err := h.svc.CreateTopic(req.Nome, req.Descricao, req.Ordem)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Informe o nome do tópico"})
	}
	return c.Status(fiber.StatusCreated).JSON(topic)
}

func (h *Handler) CreateSection(c *fiber.Ctx) error {
	var req SectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Corpo da requisição inválido"})
	}
	section, err := h.svc.CreateSection(req.TopicID, req.Nome, req.Ordem)
	if err != nil {
		if errors.Is(err, ErrTopicNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Tópico não encontrado"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Seção inválida"})
	}
	return c.Status(fiber.StatusCreated).JSON(section)
}

func (h *Handler) CreateQuestion(c *fiber.Ctx) error {
	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Corpo da requisição inválido"})
	}
	question, err := h.svc.CreateQuestion(QuestionInput{
		TopicID:   req.TopicID,
		SectionID: req.SectionID,
		Tipo:      req.Tipo,
		Enunciado: req.Enunciado,
		Resposta:  req.Resposta,
		Opcoes:    datatypes.JSON(req.Opcoes),
	})
	if err != nil {
		if errors.Is(err, ErrTopicNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Tópico não encontrado"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Questão inválida"})
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

func (h *Handler) DeleteQuestion(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Questão não encontrada"})
	}
	if err := h.svc.DeleteQuestion(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Questão não encontrada"})
	}
	return c.JSON(fiber.Map{"deleted": true})
}
