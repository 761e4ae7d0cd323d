package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/dto"
	"github.com/gramatike/gramatike-api/internal/middleware"
	"github.com/gramatike/gramatike-api/internal/services"
)

type AdminHandler struct {
	adminService  *services.AdminService
	reportService *services.ReportService
}

func NewAdminHandler(adminService *services.AdminService, reportService *services.ReportService) *AdminHandler {
	return &AdminHandler{adminService: adminService, reportService: reportService}
}

func (h *AdminHandler) targetID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func (h *AdminHandler) moderationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSuperadminLocked):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: true, Message: "Contas de superadmin não podem ser alteradas"})
	case errors.Is(err, services.ErrUserNotFound):
		return notFound(c, "Usuárie não encontrade")
	}
	return internalError(c)
}

func (h *AdminHandler) Ban(c *fiber.Ctx) error {
	id, err := h.targetID(c)
	if err != nil {
		return notFound(c, "Usuárie não encontrade")
	}
	var req dto.BanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if err := h.adminService.Ban(id, req.Reason); err != nil {
		return h.moderationError(c, err)
	}
	return c.JSON(fiber.Map{"banned": true})
}

func (h *AdminHandler) Suspend(c *fiber.Ctx) error {
	id, err := h.targetID(c)
	if err != nil {
		return notFound(c, "Usuárie não encontrade")
	}
	var req dto.SuspendRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if err := h.adminService.Suspend(id, req.Days); err != nil {
		return h.moderationError(c, err)
	}
	days := req.Days
	if days <= 0 {
		days = services.DefaultSuspensionDays
	}
	return c.JSON(fiber.Map{"suspended": true, "days": days})
}

func (h *AdminHandler) Unban(c *fiber.Ctx) error {
	id, err := h.targetID(c)
	if err != nil {
		return notFound(c, "Usuárie não encontrade")
	}
	if err := h.adminService.Unban(id); err != nil {
		return h.moderationError(c, err)
	}
	return c.JSON(fiber.Map{"banned": false})
}

func (h *AdminHandler) Promote(c *fiber.Ctx) error {
	id, err := h.targetID(c)
	if err != nil {
		return notFound(c, "Usuárie não encontrade")
	}
	if err := h.adminService.PromoteAdmin(id); err != nil {
		return h.moderationError(c, err)
	}
	return c.JSON(fiber.Map{"is_admin": true})
}

func (h *AdminHandler) Demote(c *fiber.Ctx) error {
	id, err := h.targetID(c)
	if err != nil {
		return notFound(c, "Usuárie não encontrade")
	}
	if err := h.adminService.DemoteAdmin(id); err != nil {
		return h.moderationError(c, err)
	}
	return c.JSON(fiber.Map{"is_admin": false})
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.adminService.ListUsers(c.Query("q"), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return internalError(c)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i]))
	}
	return c.JSON(out)
}

// Reports.

func (h *AdminHandler) ListReports(c *fiber.Ctx) error {
	reports, err := h.reportService.ListReports(c.QueryBool("unresolved", false))
	if err != nil {
		return internalError(c)
	}
	return c.JSON(reports)
}

func (h *AdminHandler) ResolveReport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c, "Denúncia não encontrada")
	}
	if err := h.reportService.Resolve(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c, "Denúncia não encontrada")
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"resolved": true})
}

// Blocked words.

func (h *AdminHandler) AddBlockedWord(c *fiber.Ctx) error {
	user := middleware.Account(c)
	if user == nil {
		return unauthorized(c)
	}
	var req dto.BlockedWordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	word, err := h.adminService.AddBlockedWord(req.Term, req.Category, user.ID)
	if err != nil {
		if errors.Is(err, services.ErrEmptyContent) {
			return badRequest(c, "Informe o termo a bloquear")
		}
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(word)
}

func (h *AdminHandler) DeleteBlockedWord(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c, "Termo não encontrado")
	}
	if err := h.adminService.DeleteBlockedWord(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c, "Termo não encontrado")
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

func (h *AdminHandler) ListBlockedWords(c *fiber.Ctx) error {
	words, err := h.adminService.ListBlockedWords()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(words)
}

// Stats serves the dashboard aggregates in one response.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	growth, err := h.adminService.UserGrowth()
	if err != nil {
		return internalError(c)
	}
	byTipo, err := h.adminService.ContentByTipo()
	if err != nil {
		return internalError(c)
	}
	perDay, err := h.adminService.PostsPerDay()
	if err != nil {
		return internalError(c)
	}
	totals, err := h.adminService.Totals()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(fiber.Map{
		"user_growth":     growth,
		"content_by_tipo": byTipo,
		"posts_per_day":   perDay,
		"totals":          totals,
	})
}
