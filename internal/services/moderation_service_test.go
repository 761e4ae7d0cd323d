package services

import (
	"testing"

	"github.com/gramatike/gramatike-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ola mundo", Normalize("Ólá   Mundo"))
	assert.Equal(t, "acao e reacao", Normalize("Ação  e\treação"))
	assert.Equal(t, "", Normalize("   "))
}

func TestCheckAllowsCleanAndEmptyText(t *testing.T) {
	svc := NewModerationService(nil)

	assert.True(t, svc.Check("").Allowed)
	assert.True(t, svc.Check("   ").Allowed)
	assert.True(t, svc.Check("A linguagem neutra acolhe todo mundo").Allowed)
}

func TestCheckBlocksBuiltinCategories(t *testing.T) {
	svc := NewModerationService(nil)

	d := svc.Check("que merda de dia")
	require.False(t, d.Allowed)
	assert.Equal(t, CategoryProfanity, d.Category)

	d = svc.Check("procurando nudes")
	require.False(t, d.Allowed)
	assert.Equal(t, CategoryNudity, d.Category)
}

func TestCheckMatchesDespiteAccents(t *testing.T) {
	svc := NewModerationService(nil)

	// Accents are stripped before matching, so decorated spellings of a
	// blocked term still match.
	d := svc.Check("PÔRRA")
	require.False(t, d.Allowed)
	assert.Equal(t, CategoryProfanity, d.Category)
}

func TestCheckHatePrecedesProfanity(t *testing.T) {
	svc := NewModerationService(nil)

	d := svc.Check("merda de viado")
	require.False(t, d.Allowed)
	assert.Equal(t, CategoryHate, d.Category)
}

func TestCheckCustomTermsComeFirst(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.BlockedWord{Term: "merda", Category: models.WordCategoryCustom}).Error)

	svc := NewModerationService(db)
	d := svc.Check("que merda")
	require.False(t, d.Allowed)
	assert.Equal(t, CategoryCustom, d.Category)
}

func TestCustomTermCacheAndInvalidate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewModerationService(db)

	require.True(t, svc.Check("cenoura").Allowed)

	// The cache holds the stale list until invalidated.
	require.NoError(t, db.Create(&models.BlockedWord{Term: "Cenoura", Category: models.WordCategoryCustom}).Error)
	assert.True(t, svc.Check("cenoura").Allowed)

	svc.Invalidate()
	d := svc.Check("uma CENOURA gigante")
	require.False(t, d.Allowed)
	assert.Equal(t, CategoryCustom, d.Category)
	assert.Equal(t, "cenoura", d.Matched)
}

func TestCustomTermsRetryAfterLoadFailure(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	// The blocked_words table does not exist yet, so the first load fails.
	svc := NewModerationService(db)
	require.True(t, svc.Check("cenoura").Allowed)

	// Once the table appears the next check must pick the terms up
	// without an explicit invalidation.
	require.NoError(t, db.AutoMigrate(&models.BlockedWord{}))
	require.NoError(t, db.Create(&models.BlockedWord{Term: "cenoura", Category: models.WordCategoryCustom}).Error)

	d := svc.Check("uma cenoura gigante")
	require.False(t, d.Allowed)
	assert.Equal(t, CategoryCustom, d.Category)
}

func TestCustomPhraseMatchesAsSubstring(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.BlockedWord{Term: "frase proibida", Category: models.WordCategoryCustom}).Error)

	svc := NewModerationService(db)
	d := svc.Check("isto contém a frase proibida no meio")
	require.False(t, d.Allowed)
	assert.Equal(t, CategoryCustom, d.Category)
}

func TestRejectionMessage(t *testing.T) {
	svc := NewModerationService(nil)

	assert.Contains(t, svc.RejectionMessage(CategoryHate), "discurso de ódio")
	assert.Contains(t, svc.RejectionMessage(CategoryNudity), "nudez")
	// Unknown categories fall back to the combined message.
	assert.Equal(t, svc.RejectionMessage("custom"), svc.RejectionMessage("whatever"))
}
