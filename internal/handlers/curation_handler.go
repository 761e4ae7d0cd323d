package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/dto"
	"github.com/gramatike/gramatike-api/internal/services"
)

type CurationHandler struct {
	curationService *services.CurationService
}

func NewCurationHandler(curationService *services.CurationService) *CurationHandler {
	return &CurationHandler{curationService: curationService}
}

// ListFor serves the public cards of one surface (edu or index).
func (h *CurationHandler) ListFor(c *fiber.Ctx) error {
	cards, err := h.curationService.ListFor(c.Params("surface"))
	if err != nil {
		if errors.Is(err, services.ErrUnknownSurface) {
			return notFound(c, "Superfície desconhecida")
		}
		return internalError(c)
	}
	return c.JSON(cards)
}

func (h *CurationHandler) ListAll(c *fiber.Ctx) error {
	cards, err := h.curationService.ListAll()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(cards)
}

func curationInput(req dto.CurationRequest) services.CurationInput {
	in := services.CurationInput{
		Titulo:       req.Titulo,
		Texto:        req.Texto,
		Link:         req.Link,
		Imagem:       req.Imagem,
		Ordem:        req.Ordem,
		Ativo:        true,
		ShowOnEdu:    true,
		ShowOnIndex:  true,
		EduContentID: req.EduContentID,
		PostID:       req.PostID,
	}
	if req.Ativo != nil {
		in.Ativo = *req.Ativo
	}
	if req.ShowOnEdu != nil {
		in.ShowOnEdu = *req.ShowOnEdu
	}
	if req.ShowOnIndex != nil {
		in.ShowOnIndex = *req.ShowOnIndex
	}
	return in
}

func (h *CurationHandler) Create(c *fiber.Ctx) error {
	var req dto.CurationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	card, err := h.curationService.Create(curationInput(req))
	if err != nil {
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(card)
}

func (h *CurationHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c, "Divulgação não encontrada")
	}
	var req dto.CurationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	card, err := h.curationService.Update(id, curationInput(req))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c, "Divulgação não encontrada")
		}
		return internalError(c)
	}
	return c.JSON(card)
}

func (h *CurationHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c, "Divulgação não encontrada")
	}
	if err := h.curationService.Delete(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c, "Divulgação não encontrada")
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

func (h *CurationHandler) Reorder(c *fiber.Ctx) error {
	var req dto.ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	pairs := make([]services.ReorderPair, 0, len(req.Items))
	for _, item := range req.Items {
		pairs = append(pairs, services.ReorderPair{ID: item.ID, Ordem: item.Ordem})
	}
	if err := h.curationService.Reorder(pairs); err != nil {
		return internalError(c)
	}
	return c.JSON(fiber.Map{"reordered": len(pairs)})
}

func (h *CurationHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("imagem")
	if err != nil {
		return badRequest(c, "Envie a imagem no campo imagem")
	}
	if fh.Size > services.MaxDivulgacaoImageSize {
		return badRequest(c, "Imagem excede o tamanho máximo de 2MB")
	}
	f, err := fh.Open()
	if err != nil {
		return internalError(c)
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return internalError(c)
	}

	url, err := h.curationService.Upload(fh.Filename, data, fh.Header.Get(fiber.HeaderContentType))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrImageTooLarge):
			return badRequest(c, "Imagem excede o tamanho máximo de 2MB")
		case errors.Is(err, services.ErrBadImageType):
			return badRequest(c, "Formato de imagem não permitido")
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"url": url})
}

// AvisoRapido renders a notice image from title and message and stores
// it as an active card on both surfaces.
func (h *CurationHandler) AvisoRapido(c *fiber.Ctx) error {
	var req dto.AvisoRapidoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	card, err := h.curationService.AvisoRapido(req.Titulo, req.Mensagem)
	if err != nil {
		if errors.Is(err, services.ErrEmptyContent) {
			return badRequest(c, "Título e mensagem são obrigatórios")
		}
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(card)
}
