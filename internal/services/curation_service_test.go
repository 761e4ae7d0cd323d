package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCurationService(db *gorm.DB) *CurationService {
	return NewCurationService(db, stubUploader{url: "https://cdn.test/card.png"})
}

func TestListForSurfaces(t *testing.T) {
	db := setupTestDB(t)
	svc := newCurationService(db)

	_, err := svc.Create(CurationInput{Titulo: "Só na edu", Texto: "t", Ativo: true, ShowOnEdu: true})
	require.NoError(t, err)
	_, err = svc.Create(CurationInput{Titulo: "Só na home", Texto: "t", Ativo: true, ShowOnIndex: true})
	require.NoError(t, err)
	_, err = svc.Create(CurationInput{Titulo: "Desativada", Texto: "t", Ativo: false, ShowOnEdu: true, ShowOnIndex: true})
	require.NoError(t, err)

	edu, err := svc.ListFor(SurfaceEdu)
	require.NoError(t, err)
	require.Len(t, edu, 1)
	assert.Equal(t, "Só na edu", edu[0].Titulo)

	index, err := svc.ListFor(SurfaceIndex)
	require.NoError(t, err)
	require.Len(t, index, 1)
	assert.Equal(t, "Só na home", index[0].Titulo)

	_, err = svc.ListFor("rodape")
	assert.ErrorIs(t, err, ErrUnknownSurface)

	all, err := svc.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCreatePersistsFalseFlags(t *testing.T) {
	db := setupTestDB(t)
	svc := newCurationService(db)

	card, err := svc.Create(CurationInput{Titulo: "Rascunho", Texto: "t", Ativo: false, ShowOnEdu: true, ShowOnIndex: false})
	require.NoError(t, err)

	var stored models.Divulgacao
	require.NoError(t, db.First(&stored, "id = ?", card.ID).Error)
	assert.False(t, stored.Ativo)
	assert.True(t, stored.ShowOnEdu)
	assert.False(t, stored.ShowOnIndex)
}

func TestCreateDerivesFromEduContent(t *testing.T) {
	db := setupTestDB(t)
	svc := newCurationService(db)

	longBody := strings.Repeat("neutralidade ", 20) // well past the card limit
	content := models.EduContent{Tipo: models.EduArtigo, Titulo: "Guia de neopronomes", Corpo: longBody}
	require.NoError(t, db.Create(&content).Error)

	card, err := svc.Create(CurationInput{EduContentID: &content.ID, Ativo: true, ShowOnEdu: true})
	require.NoError(t, err)
	assert.Equal(t, "Guia de neopronomes", card.Titulo)
	assert.Len(t, []rune(card.Texto), 140)

	// An explicit titulo wins over the derived one.
	card, err = svc.Create(CurationInput{EduContentID: &content.ID, Titulo: "Destaque", Texto: "resumo manual"})
	require.NoError(t, err)
	assert.Equal(t, "Destaque", card.Titulo)
	assert.Equal(t, "resumo manual", card.Texto)
}

func TestUpdateKeepsImageWhenOmitted(t *testing.T) {
	db := setupTestDB(t)
	svc := newCurationService(db)

	card, err := svc.Create(CurationInput{Titulo: "Original", Texto: "t", Imagem: "https://cdn.test/old.png"})
	require.NoError(t, err)

	updated, err := svc.Update(card.ID, CurationInput{Titulo: "Editada", Texto: "t2", Ativo: true})
	require.NoError(t, err)
	assert.Equal(t, "Editada", updated.Titulo)
	assert.Equal(t, "https://cdn.test/old.png", updated.Imagem)

	_, err = svc.Update(uuid.New(), CurationInput{Titulo: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReorder(t *testing.T) {
	db := setupTestDB(t)
	svc := newCurationService(db)

	a, err := svc.Create(CurationInput{Titulo: "A", Texto: "t", Ordem: 0, Ativo: true, ShowOnEdu: true})
	require.NoError(t, err)
	b, err := svc.Create(CurationInput{Titulo: "B", Texto: "t", Ordem: 1, Ativo: true, ShowOnEdu: true})
	require.NoError(t, err)

	require.NoError(t, svc.Reorder([]ReorderPair{{ID: a.ID, Ordem: 1}, {ID: b.ID, Ordem: 0}}))

	cards, err := svc.ListFor(SurfaceEdu)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "B", cards[0].Titulo)
	assert.Equal(t, "A", cards[1].Titulo)
}

func TestUploadValidatesImage(t *testing.T) {
	db := setupTestDB(t)
	svc := newCurationService(db)

	_, err := svc.Upload("cartaz.pdf", []byte("x"), "application/pdf")
	assert.ErrorIs(t, err, ErrBadImageType)

	url, err := svc.Upload("cartaz.png", []byte("x"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/card.png", url)
}

func TestAvisoRapido(t *testing.T) {
	db := setupTestDB(t)
	svc := newCurationService(db)

	_, err := svc.AvisoRapido("", "mensagem")
	assert.ErrorIs(t, err, ErrEmptyContent)

	card, err := svc.AvisoRapido("Manutenção", "O site ficará fora do ar no sábado.")
	require.NoError(t, err)
	assert.True(t, card.Ativo)
	assert.True(t, card.ShowOnEdu)
	assert.True(t, card.ShowOnIndex)
	assert.Equal(t, "https://cdn.test/card.png", card.Imagem)
}

func TestDeleteCard(t *testing.T) {
	db := setupTestDB(t)
	svc := newCurationService(db)

	card, err := svc.Create(CurationInput{Titulo: "Para apagar", Texto: "t"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(card.ID))
	assert.ErrorIs(t, svc.Delete(card.ID), ErrNotFound)
}
