package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAdminService(db *gorm.DB) *AdminService {
	return NewAdminService(db, NewModerationService(db))
}

func TestSuperadminIsImmutable(t *testing.T) {
	db := setupTestDB(t)
	svc := newAdminService(db)
	root := seedUser(t, db, "raiz", "raiz@example.com")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", root.ID).Update("is_superadmin", true).Error)

	assert.ErrorIs(t, svc.Ban(root.ID, "motivo"), ErrSuperadminLocked)
	assert.ErrorIs(t, svc.Suspend(root.ID, 3), ErrSuperadminLocked)
	assert.ErrorIs(t, svc.Unban(root.ID), ErrSuperadminLocked)
	assert.ErrorIs(t, svc.PromoteAdmin(root.ID), ErrSuperadminLocked)
	assert.ErrorIs(t, svc.DemoteAdmin(root.ID), ErrSuperadminLocked)

	assert.ErrorIs(t, svc.Ban(uuid.New(), ""), ErrUserNotFound)
}

func TestBanAndUnban(t *testing.T) {
	db := setupTestDB(t)
	svc := newAdminService(db)
	user := seedUser(t, db, "encrenca", "encrenca@example.com")

	// A pending suspension must not survive a ban.
	require.NoError(t, svc.Suspend(user.ID, 3))
	require.NoError(t, svc.Ban(user.ID, "  discurso de ódio  "))

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.True(t, stored.IsBanned)
	assert.Equal(t, "discurso de ódio", stored.BanReason)
	assert.NotNil(t, stored.BannedAt)
	assert.Nil(t, stored.SuspendedUntil)

	require.NoError(t, svc.Unban(user.ID))
	var unbanned models.User
	require.NoError(t, db.First(&unbanned, "id = ?", user.ID).Error)
	assert.False(t, unbanned.IsBanned)
	assert.Empty(t, unbanned.BanReason)
	assert.Nil(t, unbanned.BannedAt)
	assert.Nil(t, unbanned.SuspendedUntil)
}

func TestSuspendDefaultsToSevenDays(t *testing.T) {
	db := setupTestDB(t)
	svc := newAdminService(db)
	user := seedUser(t, db, "encrenca", "encrenca@example.com")

	require.NoError(t, svc.Suspend(user.ID, 0))

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	require.NotNil(t, stored.SuspendedUntil)
	expected := time.Now().AddDate(0, 0, DefaultSuspensionDays)
	assert.WithinDuration(t, expected, *stored.SuspendedUntil, time.Minute)
}

func TestPromoteAndDemote(t *testing.T) {
	db := setupTestDB(t)
	svc := newAdminService(db)
	user := seedUser(t, db, "futureadmin", "futureadmin@example.com")

	require.NoError(t, svc.PromoteAdmin(user.ID))
	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.True(t, stored.IsAdmin)

	require.NoError(t, svc.DemoteAdmin(user.ID))
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.False(t, stored.IsAdmin)
}

func TestBlockedWordsDriveModeration(t *testing.T) {
	db := setupTestDB(t)
	moderation := NewModerationService(db)
	svc := NewAdminService(db, moderation)
	admin := seedUser(t, db, "admina", "admina@example.com")

	assert.True(t, moderation.Check("uma palavra inventada").Allowed)

	word, err := svc.AddBlockedWord("  Inventada  ", "categoria-desconhecida", admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "inventada", word.Term)
	assert.Equal(t, models.WordCategoryCustom, word.Category)

	// The cache was invalidated, so the next check sees the new term.
	assert.False(t, moderation.Check("uma palavra inventada").Allowed)

	require.NoError(t, svc.DeleteBlockedWord(word.ID))
	assert.True(t, moderation.Check("uma palavra inventada").Allowed)

	assert.ErrorIs(t, svc.DeleteBlockedWord(word.ID), ErrNotFound)

	_, err = svc.AddBlockedWord("   ", models.WordCategoryCustom, admin.ID)
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestUserGrowthIsCumulative(t *testing.T) {
	db := setupTestDB(t)
	svc := newAdminService(db)

	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	for i, name := range []string{"pessoa1", "pessoa2", "pessoa3"} {
		u := seedUser(t, db, name, name+"@example.com")
		day := base.AddDate(0, 0, i/2) // two on day one, one on day two
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", u.ID).Update("created_at", day).Error)
	}

	growth, err := svc.UserGrowth()
	require.NoError(t, err)
	require.Len(t, growth, 2)
	assert.EqualValues(t, 2, growth[0].Count)
	assert.EqualValues(t, 3, growth[1].Count)
}

func TestTotalsAndContentByTipo(t *testing.T) {
	db := setupTestDB(t)
	svc := newAdminService(db)
	posts := newPostService(db)
	author := seedUser(t, db, "autore", "autore@example.com")

	visible, err := posts.CreatePost(author.ID, "post visível", nil)
	require.NoError(t, err)
	hidden, err := posts.CreatePost(author.ID, "post apagado", nil)
	require.NoError(t, err)
	require.NoError(t, posts.SoftDelete(hidden.ID, author.ID, false))
	_, err = posts.CreateComment(visible.ID, author.ID, "primeiro comentário")
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.EduContent{Tipo: models.EduArtigo, Titulo: "A"}).Error)
	require.NoError(t, db.Create(&models.EduContent{Tipo: models.EduArtigo, Titulo: "B"}).Error)
	require.NoError(t, db.Create(&models.EduContent{Tipo: models.EduPodcast, Titulo: "C"}).Error)

	totals, err := svc.Totals()
	require.NoError(t, err)
	assert.EqualValues(t, 1, totals.Users)
	assert.EqualValues(t, 1, totals.Posts)
	assert.EqualValues(t, 1, totals.Comments)
	assert.EqualValues(t, 3, totals.Edu)

	byTipo, err := svc.ContentByTipo()
	require.NoError(t, err)
	require.Len(t, byTipo, 2)
	assert.Equal(t, models.EduArtigo, byTipo[0].Tipo)
	assert.EqualValues(t, 2, byTipo[0].Count)
}

func TestListUsersSearch(t *testing.T) {
	db := setupTestDB(t)
	svc := newAdminService(db)
	seedUser(t, db, "anabela", "ana@example.com")
	seedUser(t, db, "biancam", "bia@colegio.edu.br")

	users, err := svc.ListUsers("ANA", 0, 0)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "anabela", users[0].Username)

	users, err = svc.ListUsers("colegio", 0, 0)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "biancam", users[0].Username)

	users, err = svc.ListUsers("", 0, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
