package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/dto"
	"github.com/gramatike/gramatike-api/internal/middleware"
	"github.com/gramatike/gramatike-api/internal/services"
)

type PostHandler struct {
	postService   *services.PostService
	reportService *services.ReportService
	moderation    *services.ModerationService
}

func NewPostHandler(postService *services.PostService, reportService *services.ReportService, moderation *services.ModerationService) *PostHandler {
	return &PostHandler{postService: postService, reportService: reportService, moderation: moderation}
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}

	post, err := h.postService.CreatePost(userID, req.Content, nil)
	if err != nil {
		return h.createError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// CreateMulti accepts multipart form posts with up to four images under
// the "imagens" field.
func (h *PostHandler) CreateMulti(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "Formulário inválido")
	}

	content := c.FormValue("content")
	files := form.File["imagens"]
	if len(files) > services.MaxPostImages {
		return badRequest(c, "Um post aceita no máximo 4 imagens")
	}

	images := make([]services.ImageUpload, 0, len(files))
	for _, fh := range files {
		if fh.Size > services.MaxPostImageSize {
			return badRequest(c, "Imagem excede o tamanho máximo de 3MB")
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
		images = append(images, services.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Data:        data,
		})
	}

	post, err := h.postService.CreatePost(userID, content, images)
	if err != nil {
		return h.createError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) createError(c *fiber.Ctx, err error) error {
	if resp, handled := moderationResponse(c, h.moderation, err); handled {
		return resp
	}
	switch {
	case errors.Is(err, services.ErrEmptyContent):
		return badRequest(c, "O conteúdo não pode ser vazio")
	case errors.Is(err, services.ErrTooManyImages):
		return badRequest(c, "Um post aceita no máximo 4 imagens")
	case errors.Is(err, services.ErrImageTooLarge):
		return badRequest(c, "Imagem excede o tamanho máximo de 3MB")
	case errors.Is(err, services.ErrBadImageType):
		return badRequest(c, "Formato de imagem não permitido")
	}
	return internalError(c)
}

func (h *PostHandler) List(c *fiber.Ctx) error {
	items, err := h.postService.ListPosts(services.ListPostsQuery{
		Q:       c.Query("q"),
		Sort:    c.Query("sort", services.SortRecentes),
		Tipo:    c.Query("tipo"),
		Periodo: c.Query("periodo"),
		Limit:   c.QueryInt("limit", 20),
		Offset:  c.QueryInt("offset", 0),
	})
	if err != nil {
		return internalError(c)
	}
	return c.JSON(items)
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c, "Post não encontrado")
	}
	post, err := h.postService.GetPost(id)
	if err != nil {
		return notFound(c, "Post não encontrado")
	}
	likes, _ := h.postService.CountLikes(id)
	return c.JSON(fiber.Map{"post": post, "likes": likes})
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c, "Post não encontrado")
	}
	if err := h.postService.SoftDelete(id, userID, middleware.IsAdminClaim(c)); err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: true, Message: "Você não pode apagar este post"})
		case errors.Is(err, services.ErrNotFound):
			return notFound(c, "Post não encontrado")
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

// Restore undoes a soft delete; mounted on the admin group.
func (h *PostHandler) Restore(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c, "Post não encontrado")
	}
	if err := h.postService.Restore(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c, "Post não encontrado")
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"restored": true})
}

func (h *PostHandler) ToggleLike(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c, "Post não encontrado")
	}
	liked, err := h.postService.ToggleLike(id, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c, "Post não encontrado")
		}
		return internalError(c)
	}
	return c.JSON(dto.LikeResponse{Liked: liked})
}

func (h *PostHandler) ListComments(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c, "Post não encontrado")
	}
	comments, err := h.postService.ListComments(id)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(comments)
}

func (h *PostHandler) CreateComment(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c, "Post não encontrado")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}

	comment, err := h.postService.CreateComment(id, userID, req.Content)
	if err != nil {
		if resp, handled := moderationResponse(c, h.moderation, err); handled {
			return resp
		}
		switch {
		case errors.Is(err, services.ErrEmptyContent):
			return badRequest(c, "O comentário não pode ser vazio")
		case errors.Is(err, services.ErrNotFound):
			return notFound(c, "Post não encontrado")
		}
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *PostHandler) Report(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c, "Post não encontrado")
	}
	var req dto.ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}

	report, err := h.reportService.CreateReport(id, userID, req.Category, req.Motivo)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOwnPost):
			return badRequest(c, "Você não pode denunciar o próprio post")
		case errors.Is(err, services.ErrAlreadyReported):
			return badRequest(c, "Você já denunciou este post")
		case errors.Is(err, services.ErrNotFound):
			return notFound(c, "Post não encontrado")
		}
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}
