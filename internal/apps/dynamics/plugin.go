package dynamics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gramatike/gramatike-api/internal/apps"
	"github.com/gramatike/gramatike-api/internal/middleware"
)

// Plugin mounts the interactive dynamics engine.
type Plugin struct{}

func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) ID() string { return "dinamicas" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&Dynamic{},
		&Response{},
	}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	sink := NewCSVSink(deps.Cfg.DynamicsDir)
	svc := NewService(deps.DB, deps.Moderation, sink)
	handler := NewHandler(svc, deps.Moderation)

	jwt := middleware.JWTProtected(deps.Cfg.SecretKey)
	gate := middleware.AccountGate(deps.DB)

	router.Get("/dinamicas", handler.List)
	router.Get("/dinamicas/:id", handler.View)
	router.Post("/dinamicas/:id/responder", jwt, gate, handler.Respond)
}

func (p *Plugin) RegisterAdminRoutes(router fiber.Router, deps *apps.Deps) {
	sink := NewCSVSink(deps.Cfg.DynamicsDir)
	svc := NewService(deps.DB, deps.Moderation, sink)
	handler := NewHandler(svc, deps.Moderation)

	router.Post("/dinamicas/create", handler.Create)
	router.Get("/dinamicas/:id/export.csv", handler.Export)
	router.Post("/dinamicas/:id/toggle", handler.Toggle)
	router.Delete("/dinamicas/:id", handler.Delete)
}
