package palavra

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gramatike/gramatike-api/internal/apps"
	"github.com/gramatike/gramatike-api/internal/middleware"
)

// Plugin mounts the daily-word feature.
type Plugin struct{}

func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) ID() string { return "palavra-do-dia" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&PalavraDoDia{},
		&Interacao{},
	}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	svc := NewService(deps.DB, deps.Moderation)
	handler := NewHandler(svc, deps.Moderation)

	jwt := middleware.JWTProtected(deps.Cfg.SecretKey)
	gate := middleware.AccountGate(deps.DB)

	router.Get("/palavra-do-dia", handler.Today)
	router.Post("/palavra-do-dia/interagir", jwt, gate, handler.Interact)
}

func (p *Plugin) RegisterAdminRoutes(router fiber.Router, deps *apps.Deps) {
	svc := NewService(deps.DB, deps.Moderation)
	handler := NewHandler(svc, deps.Moderation)

	router.Post("/palavra-do-dia", handler.Create)
	router.Get("/palavra-do-dia", handler.List)
	router.Delete("/palavra-do-dia/:id", handler.Delete)
	router.Get("/palavra-do-dia/:id/interacoes", handler.Interactions)
}
