package apps

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gramatike/gramatike-api/internal/config"
	"github.com/gramatike/gramatike-api/internal/middleware"
	"github.com/gramatike/gramatike-api/internal/services"
	"gorm.io/gorm"
)

// Deps is the shared wiring handed to every plugin.
type Deps struct {
	DB         *gorm.DB
	Cfg        *config.Config
	Moderation *services.ModerationService
	Limiter    *middleware.RateLimiter
}

// Plugin is a self-contained feature app mounted under the API.
type Plugin interface {
	ID() string
	Models() []interface{}
	// RegisterRoutes mounts the plugin's user-facing routes on an
	// authenticated router group.
	RegisterRoutes(router fiber.Router, deps *Deps)
}

// AdminPlugin additionally mounts routes on the admin group.
type AdminPlugin interface {
	Plugin
	RegisterAdminRoutes(router fiber.Router, deps *Deps)
}
