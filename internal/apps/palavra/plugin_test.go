package palavra

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gramatike/gramatike-api/internal/apps"
	"github.com/gramatike/gramatike-api/internal/config"
	"github.com/gramatike/gramatike-api/internal/models"
	"github.com/gramatike/gramatike-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPluginApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&PalavraDoDia{}, &Interacao{}, &models.User{}, &models.BlockedWord{}))

	cfg := &config.Config{SecretKey: "segredo-de-teste"}
	app := fiber.New()
	New().RegisterRoutes(app.Group("/api"), &apps.Deps{DB: db, Cfg: cfg, Moderation: services.NewModerationService(db)})
	return app, db, cfg
}

func TestInteractRouteRequiresActiveAccount(t *testing.T) {
	app, db, cfg := setupPluginApp(t)

	body := `{"tipo":"frase","frase":"uma frase qualquer"}`

	req := httptest.NewRequest("POST", "/api/palavra-do-dia/interagir", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// A suspension blocks the write even though the token is still valid.
	until := time.Now().Add(48 * time.Hour)
	user := &models.User{Username: "suspense", Email: "suspense@example.com", PasswordHash: "x", SuspendedUntil: &until}
	require.NoError(t, db.Create(user).Error)

	token, err := services.NewTokenService(cfg.SecretKey).SignSession(user, time.Hour)
	require.NoError(t, err)

	req = httptest.NewRequest("POST", "/api/palavra-do-dia/interagir", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
