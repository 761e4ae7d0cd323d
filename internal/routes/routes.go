package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gramatike/gramatike-api/internal/apps"
	"github.com/gramatike/gramatike-api/internal/config"
	"github.com/gramatike/gramatike-api/internal/handlers"
	"github.com/gramatike/gramatike-api/internal/middleware"
	"gorm.io/gorm"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Post     *handlers.PostHandler
	Profile  *handlers.ProfileHandler
	Feed     *handlers.FeedHandler
	Curation *handlers.CurationHandler
	Admin    *handlers.AdminHandler
	Support  *handlers.SupportHandler
	Edu      *handlers.EduHandler
	Health   *handlers.HealthHandler
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	h Handlers,
	rate *middleware.RateLimiter,
	plugins []apps.Plugin,
	deps *apps.Deps,
) {
	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Token parsing is optional on public routes; protected routes enforce
	// it below.
	api.Use(middleware.OptionalAuth(cfg.SecretKey))

	api.Get("/health", h.Health.Check)

	jwt := middleware.JWTProtected(cfg.SecretKey)
	gate := middleware.AccountGate(db)

	// Auth
	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", rate.Endpoint("login"), h.Auth.Login)
	auth.Post("/logout", jwt, h.Auth.Logout)
	auth.Get("/verify-email", h.Auth.VerifyEmail)
	auth.Post("/resend-verification", jwt, gate, h.Auth.ResendVerification)
	auth.Post("/forgot-password", rate.Endpoint("login"), h.Auth.ForgotPassword)
	auth.Post("/reset-password", h.Auth.ResetPassword)
	auth.Post("/change-email", jwt, gate, h.Auth.ChangeEmail)
	auth.Get("/confirm-email", h.Auth.ConfirmEmailChange)

	// Posts
	api.Get("/posts", h.Post.List)
	api.Get("/posts/:id", h.Post.Get)
	api.Post("/posts", jwt, gate, rate.Endpoint("create_post"), h.Post.Create)
	api.Post("/posts_multi", jwt, gate, rate.Endpoint("create_post"), h.Post.CreateMulti)
	api.Delete("/posts/:id", jwt, gate, h.Post.Delete)
	api.Post("/posts/:id/like", jwt, gate, h.Post.ToggleLike)
	api.Get("/posts/:id/comentarios", h.Post.ListComments)
	api.Post("/posts/:id/comentarios", jwt, gate, rate.Endpoint("create_comment"), h.Post.CreateComment)
	api.Post("/posts/:id/relatar", jwt, gate, h.Post.Report)

	// Profile
	api.Get("/perfil", jwt, gate, h.Profile.Me)
	api.Put("/perfil", jwt, gate, h.Profile.Update)
	api.Post("/perfil/foto", jwt, gate, h.Profile.UpdateAvatar)
	api.Get("/perfil/amigues", jwt, gate, h.Profile.Amigues)
	api.Get("/usuaries/:username", h.Profile.Public)
	api.Get("/usuaries/:username/seguidores", h.Profile.Followers)
	api.Get("/usuaries/:username/seguindo", h.Profile.Following)
	api.Post("/usuaries/:username/seguir", jwt, gate, h.Profile.Follow)
	api.Delete("/usuaries/:username/seguir", jwt, gate, h.Profile.Unfollow)
	api.Post("/seguir/:uid", jwt, gate, h.Profile.FollowByID)
	api.Delete("/seguir/:uid", jwt, gate, h.Profile.UnfollowByID)

	// Unified feed
	api.Get("/gramatike/search", h.Feed.Search)

	// Public curation surfaces (edu, index)
	api.Get("/divulgacoes/:surface", h.Curation.ListFor)

	// Educational hub
	api.Get("/educacao", h.Edu.List)
	api.Get("/educacao/topicos", h.Edu.ListTopics)
	api.Get("/educacao/novidades", h.Edu.ListNovidades)
	api.Get("/educacao/:id", h.Edu.Get)

	// Support works for visitors too; the handler keeps the author when a
	// session is present.
	api.Post("/suporte", h.Support.Create)

	// Admin panel
	admin := api.Group("/admin", jwt, middleware.AdminRequired(db, cfg))

	admin.Get("/usuaries", h.Admin.ListUsers)
	admin.Post("/usuaries/:id/banir", h.Admin.Ban)
	admin.Post("/usuaries/:id/suspender", h.Admin.Suspend)
	admin.Post("/usuaries/:id/desbanir", h.Admin.Unban)
	admin.Post("/usuaries/:id/promover", h.Admin.Promote)
	admin.Post("/usuaries/:id/rebaixar", h.Admin.Demote)

	admin.Get("/denuncias", h.Admin.ListReports)
	admin.Post("/denuncias/:id/resolver", h.Admin.ResolveReport)

	admin.Get("/palavras-bloqueadas", h.Admin.ListBlockedWords)
	admin.Post("/palavras-bloqueadas", h.Admin.AddBlockedWord)
	admin.Delete("/palavras-bloqueadas/:id", h.Admin.DeleteBlockedWord)

	admin.Get("/estatisticas", h.Admin.Stats)

	admin.Post("/posts/:id/restaurar", h.Post.Restore)

	admin.Get("/divulgacoes", h.Curation.ListAll)
	admin.Post("/divulgacoes", h.Curation.Create)
	admin.Put("/divulgacoes/:id", h.Curation.Update)
	admin.Delete("/divulgacoes/:id", h.Curation.Delete)
	admin.Post("/divulgacoes/reordenar", h.Curation.Reorder)
	admin.Post("/divulgacoes/upload", rate.Endpoint("divulgacao_upload"), h.Curation.Upload)
	admin.Post("/divulgacoes/aviso-rapido", h.Curation.AvisoRapido)

	admin.Post("/educacao", h.Edu.Create)
	admin.Put("/educacao/:id", h.Edu.Update)
	admin.Delete("/educacao/:id", h.Edu.Delete)
	admin.Post("/educacao/topicos", h.Edu.CreateTopic)
	admin.Post("/educacao/novidades", h.Edu.CreateNovidade)
	admin.Delete("/educacao/novidades/:id", h.Edu.DeleteNovidade)

	admin.Get("/suporte", h.Support.List)
	admin.Post("/suporte/:id/responder", h.Support.Respond)
	admin.Post("/suporte/:id/status", h.Support.SetStatus)

	// Feature apps mount on the API group; their handlers enforce auth
	// where a session is required.
	for _, p := range plugins {
		p.RegisterRoutes(api, deps)
		if ap, ok := p.(apps.AdminPlugin); ok {
			ap.RegisterAdminRoutes(admin, deps)
		}
	}
}
