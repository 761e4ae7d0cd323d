package exercises

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gramatike/gramatike-api/internal/apps"
)

// Plugin mounts the exercise topic/section/question tree.
type Plugin struct{}

func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) ID() string { return "exercicios" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&Topic{},
		&Section{},
		&Question{},
	}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	svc := NewService(deps.DB)
	handler := NewHandler(svc)

	router.Get("/exercicios", handler.ListTopics)
	router.Get("/exercicios/:id", handler.Tree)
}

func (p *Plugin) RegisterAdminRoutes(router fiber.Router, deps *apps.Deps) {
	svc := NewService(deps.DB)
	handler := NewHandler(svc)

	router.Post("/exercicios/topicos", handler.CreateTopic)
	router.Post("/exercicios/secoes", handler.CreateSection)
	router.Post("/exercicios/questoes", handler.CreateQuestion)
	router.Delete("/exercicios/questoes/:id", handler.DeleteQuestion)
}
