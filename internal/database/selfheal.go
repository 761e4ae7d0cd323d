package database

import (
	"log/slog"
	"strings"

	"github.com/gramatike/gramatike-api/internal/models"
	"gorm.io/gorm"
)

// Step is one idempotent schema repair. Detection and repair are kept
// separate so the step list can be tested on its own.
type Step struct {
	Name   string
	Table  string
	Column string // set for add_column steps
	Index  string // set for create_index steps
	SQL    string
}

// HealSteps is the repair list applied at startup on top of AutoMigrate.
// It tolerates databases that were migrated by older builds.
func HealSteps() []Step {
	return []Step{
		{Name: "posts.is_deleted", Table: "posts", Column: "is_deleted",
			SQL: "ALTER TABLE posts ADD COLUMN is_deleted BOOLEAN DEFAULT FALSE"},
		{Name: "posts.deleted_at", Table: "posts", Column: "deleted_at",
			SQL: "ALTER TABLE posts ADD COLUMN deleted_at TIMESTAMP NULL"},
		{Name: "posts.deleted_by", Table: "posts", Column: "deleted_by",
			SQL: "ALTER TABLE posts ADD COLUMN deleted_by UUID NULL"},
		{Name: "divulgacoes.show_on_edu", Table: "divulgacoes", Column: "show_on_edu",
			SQL: "ALTER TABLE divulgacoes ADD COLUMN show_on_edu BOOLEAN DEFAULT TRUE"},
		{Name: "divulgacoes.show_on_index", Table: "divulgacoes", Column: "show_on_index",
			SQL: "ALTER TABLE divulgacoes ADD COLUMN show_on_index BOOLEAN DEFAULT TRUE"},
		{Name: "users.is_superadmin", Table: "users", Column: "is_superadmin",
			SQL: "ALTER TABLE users ADD COLUMN is_superadmin BOOLEAN DEFAULT FALSE"},
		{Name: "users.suspended_until", Table: "users", Column: "suspended_until",
			SQL: "ALTER TABLE users ADD COLUMN suspended_until TIMESTAMP NULL"},
		{Name: "users.ban_reason", Table: "users", Column: "ban_reason",
			SQL: "ALTER TABLE users ADD COLUMN ban_reason VARCHAR(255)"},
		{Name: "edu_contents.extra", Table: "edu_contents", Column: "extra",
			SQL: "ALTER TABLE edu_contents ADD COLUMN extra JSONB"},
		{Name: "idx_posts_created_at", Table: "posts", Index: "idx_posts_created_at",
			SQL: "CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts (created_at)"},
		{Name: "idx_reports_post_resolved", Table: "reports", Index: "idx_reports_post_resolved",
			SQL: "CREATE INDEX IF NOT EXISTS idx_reports_post_resolved ON reports (post_id, resolved)"},
	}
}

// SelfHeal applies every repair step, logging and continuing on failure.
// It never returns an error to the caller: startup must not fail because
// a repair could not run.
func SelfHeal(db *gorm.DB) {
	m := db.Migrator()
	for _, step := range HealSteps() {
		if !m.HasTable(step.Table) {
			continue
		}
		switch {
		case step.Column != "":
			// HasColumn accepts a raw table name.
			if m.HasColumn(step.Table, step.Column) {
				continue
			}
		case step.Index != "":
			// CREATE INDEX IF NOT EXISTS is itself idempotent.
		}
		if err := db.Exec(step.SQL).Error; err != nil {
			slog.Warn("schema self-heal step failed", "step", step.Name, "error", err)
			continue
		}
		slog.Info("schema self-heal applied", "step", step.Name)
	}

	widenResumo(db)
	NormalizeUsernames(db)
}

// widenResumo converts the legacy bounded resumo column to TEXT.
func widenResumo(db *gorm.DB) {
	if db.Dialector.Name() != "postgres" {
		return
	}
	if err := db.Exec("ALTER TABLE edu_contents ALTER COLUMN resumo TYPE TEXT").Error; err != nil {
		slog.Warn("schema self-heal step failed", "step", "edu_contents.resumo_text", "error", err)
	}
}

// NormalizeUsernames strips a leading '@' from usernames predating the
// registration-time normalization, skipping names whose stripped form
// would collide with an existing user.
func NormalizeUsernames(db *gorm.DB) {
	var users []models.User
	if err := db.Where("username LIKE ?", "@%").Find(&users).Error; err != nil {
		slog.Warn("schema self-heal username scan failed", "error", err)
		return
	}
	for _, u := range users {
		stripped := strings.TrimPrefix(u.Username, "@")
		if stripped == "" {
			continue
		}
		var count int64
		if err := db.Model(&models.User{}).Where("username = ?", stripped).Count(&count).Error; err != nil || count > 0 {
			continue
		}
		if err := db.Model(&models.User{}).Where("id = ?", u.ID).Update("username", stripped).Error; err != nil {
			slog.Warn("schema self-heal username update failed", "user", u.ID, "error", err)
		}
	}
}
