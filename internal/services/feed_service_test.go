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

// feedTestDynamic gives the tests a dynamics table without depending on
// the plugin that owns it.
type feedTestDynamic struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Titulo    string
	Descricao string
	Active    bool
	CreatedAt time.Time
}

func (feedTestDynamic) TableName() string { return "dynamics" }

func setupFeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&feedTestDynamic{}))
	return db
}

func TestComposeMergesSourcesNewestFirst(t *testing.T) {
	db := setupFeedDB(t)
	svc := NewFeedService(db)
	system := seedUser(t, db, SystemAccount, "sistema@example.com")

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	post := models.Post{AuthorID: system.ID, Content: "novidade no ar #linguagem", CreatedAt: base}
	require.NoError(t, db.Create(&post).Error)
	novidade := models.EduNovidade{Titulo: "Oficina aberta", Descricao: "inscrições #oficina", CreatedAt: base.Add(time.Hour)}
	require.NoError(t, db.Create(&novidade).Error)
	dinamica := feedTestDynamic{ID: uuid.New(), Titulo: "Enquete da semana", Active: true, CreatedAt: base.Add(2 * time.Hour)}
	require.NoError(t, db.Create(&dinamica).Error)

	items, err := svc.Compose("", false)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "dinamica", items[0].Source)
	assert.Equal(t, "novidade", items[1].Source)
	assert.Equal(t, "post", items[2].Source)
	assert.Equal(t, "/dinamicas/"+dinamica.ID.String(), items[0].URL)
	assert.Equal(t, []string{"#linguagem"}, items[2].Tags)
}

func TestComposeOnlySystemAccountPosts(t *testing.T) {
	db := setupFeedDB(t)
	svc := NewFeedService(db)
	system := seedUser(t, db, SystemAccount, "sistema@example.com")
	other := seedUser(t, db, "outrapessoa", "outra@example.com")

	require.NoError(t, db.Create(&models.Post{AuthorID: system.ID, Content: "aviso oficial"}).Error)
	require.NoError(t, db.Create(&models.Post{AuthorID: other.ID, Content: "post pessoal"}).Error)

	items, err := svc.Compose("", false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "aviso oficial", items[0].Snippet)
}

func TestComposeSkipsInactiveDynamics(t *testing.T) {
	db := setupFeedDB(t)
	svc := NewFeedService(db)

	require.NoError(t, db.Create(&feedTestDynamic{ID: uuid.New(), Titulo: "Encerrada", Active: false}).Error)

	items, err := svc.Compose("", false)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestComposeEduGating(t *testing.T) {
	db := setupFeedDB(t)
	svc := NewFeedService(db)

	match := models.EduContent{Tipo: models.EduArtigo, Titulo: "Guia de linguagem neutra", Resumo: "como usar elu"}
	require.NoError(t, db.Create(&match).Error)
	offTopic := models.EduContent{Tipo: models.EduArtigo, Titulo: "Crase sem medo", Resumo: "regras de crase"}
	require.NoError(t, db.Create(&offTopic).Error)

	items, err := svc.Compose("", false)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = svc.Compose("", true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, match.ID, items[0].ID)
	assert.Equal(t, models.EduArtigo, items[0].Source)
}

func TestComposeQueryFiltersPosts(t *testing.T) {
	db := setupFeedDB(t)
	svc := NewFeedService(db)
	system := seedUser(t, db, SystemAccount, "sistema@example.com")

	require.NoError(t, db.Create(&models.Post{AuthorID: system.ID, Content: "Oficina de Neopronomes"}).Error)
	require.NoError(t, db.Create(&models.Post{AuthorID: system.ID, Content: "Manutenção agendada"}).Error)

	items, err := svc.Compose("neopronomes", false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Contains(t, items[0].Snippet, "Neopronomes")
}

func TestExtractTags(t *testing.T) {
	tags := extractTags("use #Elu e #elu, também #Delu #a #b #c #d #e #f #g")
	assert.Equal(t, []string{"#elu", "#delu", "#a", "#b", "#c", "#d", "#e", "#f"}, tags)
	assert.Nil(t, extractTags("sem marcações"))
}

func TestEllipsize(t *testing.T) {
	assert.Equal(t, "curto", ellipsize("curto", 10))
	assert.Equal(t, "ação…", ellipsize("ação demais", 4))
}
