package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gramatike/gramatike-api/internal/config"
	"github.com/gramatike/gramatike-api/internal/dto"
	"github.com/gramatike/gramatike-api/internal/middleware"
	"github.com/gramatike/gramatike-api/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
	moderation  *services.ModerationService
}

func NewAuthHandler(authService *services.AuthService, moderation *services.ModerationService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, moderation: moderation, cfg: cfg}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}

	in := services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Nome:     req.Nome,
		Genero:   req.Genero,
		Pronome:  req.Pronome,
	}
	if req.DataNascimento != "" {
		if nascimento, err := time.Parse("2006-01-02", req.DataNascimento); err == nil {
			in.DataNascimento = &nascimento
		}
	}

	user, err := h.authService.Register(in)
	if err != nil {
		if resp, handled := moderationResponse(c, h.moderation, err); handled {
			return resp
		}
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: true, Message: "Nome de usuárie já está em uso"})
		case errors.Is(err, services.ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: true, Message: "E-mail já está em uso"})
		case errors.Is(err, services.ErrInvalidUsername):
			return badRequest(c, "Nome de usuárie deve ter entre 5 e 45 caracteres, sem espaços")
		case errors.Is(err, services.ErrInvalidCredentials):
			return badRequest(c, "E-mail e senha são obrigatórios")
		}
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(userResponse(user))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBanned):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: true, Message: "Esta conta foi banida"})
		case errors.Is(err, services.ErrSuspended):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: true, Message: "Esta conta está suspensa"})
		case errors.Is(err, services.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Credenciais inválidas"})
		}
		return internalError(c)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(h.cfg.JWTAccessExpiry),
		Path:     "/",
	})

	return c.JSON(dto.AuthResponse{AccessToken: token, User: userResponse(user)})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-time.Hour),
		Path:     "/",
	})
	return c.JSON(fiber.Map{"message": "Sessão encerrada"})
}

// VerifyEmail confirms the address referenced by the token in the query
// string. Links arrive by e-mail, so this is a GET.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return badRequest(c, "Token ausente")
	}
	user, err := h.authService.VerifyEmail(token)
	if err != nil {
		return badRequest(c, "Token inválido ou expirado")
	}
	return c.JSON(fiber.Map{"message": "E-mail confirmado", "user": userResponse(user)})
}

func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	user := middleware.Account(c)
	if user == nil {
		return unauthorized(c)
	}
	if user.EmailConfirmed {
		return c.JSON(fiber.Map{"message": "E-mail já confirmado"})
	}
	h.authService.SendVerificationEmail(user)
	return c.JSON(fiber.Map{"message": "E-mail de confirmação reenviado"})
}

// ForgotPassword always answers 200 so the endpoint does not reveal
// whether an address is registered.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	h.authService.RequestPasswordReset(req.Email)
	return c.JSON(fiber.Map{"message": "Se o e-mail estiver cadastrado, você receberá um link de redefinição"})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if err := h.authService.ResetPassword(req.Token, req.Password, req.ConfirmPassword); err != nil {
		if errors.Is(err, services.ErrPasswordMismatch) {
			return badRequest(c, "As senhas não coincidem")
		}
		return badRequest(c, "Token inválido ou expirado")
	}
	return c.JSON(fiber.Map{"message": "Senha redefinida"})
}

func (h *AuthHandler) ChangeEmail(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.ChangeEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if err := h.authService.RequestEmailChange(userID, req.NewEmail); err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: true, Message: "E-mail já está em uso"})
		case errors.Is(err, services.ErrInvalidCredentials):
			return badRequest(c, "Informe o novo e-mail")
		case errors.Is(err, services.ErrUserNotFound):
			return unauthorized(c)
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"message": "Confirmação enviada para o novo e-mail"})
}

func (h *AuthHandler) ConfirmEmailChange(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return badRequest(c, "Token ausente")
	}
	if err := h.authService.ConfirmEmailChange(token); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: true, Message: "E-mail já está em uso"})
		}
		return badRequest(c, "Token inválido ou expirado")
	}
	return c.JSON(fiber.Map{"message": "E-mail atualizado"})
}
