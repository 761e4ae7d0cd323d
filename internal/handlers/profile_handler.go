package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/dto"
	"github.com/gramatike/gramatike-api/internal/middleware"
	"github.com/gramatike/gramatike-api/internal/models"
	"github.com/gramatike/gramatike-api/internal/services"
)

type ProfileHandler struct {
	userService   *services.UserService
	followService *services.FollowService
	moderation    *services.ModerationService
}

func NewProfileHandler(userService *services.UserService, followService *services.FollowService, moderation *services.ModerationService) *ProfileHandler {
	return &ProfileHandler{userService: userService, followService: followService, moderation: moderation}
}

func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	user := middleware.Account(c)
	if user == nil {
		return unauthorized(c)
	}
	counts, _ := h.followService.Counts(user.ID)
	return c.JSON(fiber.Map{"user": userResponse(user), "counts": counts})
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}

	user, err := h.userService.UpdateProfile(userID, services.ProfileUpdate{
		Username: req.Username,
		Nome:     req.Nome,
		Bio:      req.Bio,
		Genero:   req.Genero,
		Pronome:  req.Pronome,
	})
	if err != nil {
		if resp, handled := moderationResponse(c, h.moderation, err); handled {
			return resp
		}
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: true, Message: "Nome de usuárie já está em uso"})
		case errors.Is(err, services.ErrInvalidUsername):
			return badRequest(c, "Nome de usuárie deve ter entre 5 e 45 caracteres, sem espaços")
		case errors.Is(err, services.ErrUserNotFound):
			return unauthorized(c)
		}
		return internalError(c)
	}
	return c.JSON(userResponse(user))
}

func (h *ProfileHandler) UpdateAvatar(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	fh, err := c.FormFile("foto")
	if err != nil {
		return badRequest(c, "Envie a imagem no campo foto")
	}
	if fh.Size > services.MaxAvatarSize {
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

	url, err := h.userService.UpdateAvatar(userID, fh.Filename, data, fh.Header.Get(fiber.HeaderContentType))
	if err != nil {
		if resp, handled := moderationResponse(c, h.moderation, err); handled {
			return resp
		}
		switch {
		case errors.Is(err, services.ErrImageTooLarge):
			return badRequest(c, "Imagem excede o tamanho máximo de 3MB")
		case errors.Is(err, services.ErrBadImageType):
			return badRequest(c, "Formato de imagem não permitido")
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"foto_perfil": url})
}

// Public returns the public view of a profile with recent posts and
// follow counts.
func (h *ProfileHandler) Public(c *fiber.Ctx) error {
	user, err := h.userService.GetByUsername(c.Params("username"))
	if err != nil {
		return notFound(c, "Perfil não encontrado")
	}
	posts, err := h.userService.VisiblePosts(user.ID, c.QueryInt("limit", 20))
	if err != nil {
		return internalError(c)
	}
	counts, _ := h.followService.Counts(user.ID)

	resp := fiber.Map{
		"user":   userResponse(user),
		"posts":  posts,
		"counts": counts,
	}
	if viewerID, err := middleware.CurrentUserID(c); err == nil {
		following, _ := h.followService.IsFollowing(viewerID, user.ID)
		resp["following"] = following
	}
	return c.JSON(resp)
}

func (h *ProfileHandler) Follow(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	target, err := h.userService.GetByUsername(c.Params("username"))
	if err != nil {
		return notFound(c, "Perfil não encontrado")
	}
	if err := h.followService.Follow(userID, target.ID); err != nil {
		switch {
		case errors.Is(err, services.ErrSelfFollow):
			return badRequest(c, "Você não pode seguir a si mesme")
		case errors.Is(err, services.ErrUserNotFound):
			return notFound(c, "Perfil não encontrado")
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"following": true})
}

func (h *ProfileHandler) Unfollow(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	target, err := h.userService.GetByUsername(c.Params("username"))
	if err != nil {
		return notFound(c, "Perfil não encontrado")
	}
	if err := h.followService.Unfollow(userID, target.ID); err != nil {
		return internalError(c)
	}
	return c.JSON(fiber.Map{"following": false})
}

// FollowByID follows the user identified by the :uid path param.
func (h *ProfileHandler) FollowByID(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	targetID, err := uuid.Parse(c.Params("uid"))
	if err != nil {
		return notFound(c, "Perfil não encontrado")
	}
	if err := h.followService.Follow(userID, targetID); err != nil {
		switch {
		case errors.Is(err, services.ErrSelfFollow):
			return badRequest(c, "Você não pode seguir a si mesme")
		case errors.Is(err, services.ErrUserNotFound):
			return notFound(c, "Perfil não encontrado")
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"following": true})
}

func (h *ProfileHandler) UnfollowByID(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	targetID, err := uuid.Parse(c.Params("uid"))
	if err != nil {
		return notFound(c, "Perfil não encontrado")
	}
	if err := h.followService.Unfollow(userID, targetID); err != nil {
		return internalError(c)
	}
	return c.JSON(fiber.Map{"following": false})
}

func (h *ProfileHandler) Followers(c *fiber.Ctx) error {
	user, err := h.userService.GetByUsername(c.Params("username"))
	if err != nil {
		return notFound(c, "Perfil não encontrado")
	}
	users, err := h.followService.Followers(user.ID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(h.userList(users))
}

func (h *ProfileHandler) Following(c *fiber.Ctx) error {
	user, err := h.userService.GetByUsername(c.Params("username"))
	if err != nil {
		return notFound(c, "Perfil não encontrado")
	}
	users, err := h.followService.Following(user.ID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(h.userList(users))
}

// Amigues lists the mutual follows of the authenticated user.
func (h *ProfileHandler) Amigues(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	users, err := h.followService.Amigues(userID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(h.userList(users))
}

func (h *ProfileHandler) userList(users []models.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i]))
	}
	return out
}
