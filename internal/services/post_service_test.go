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

func newPostService(db *gorm.DB) *PostService {
	return NewPostService(db, NewModerationService(db), stubUploader{url: "https://cdn.test/img.png"})
}

func TestCreatePostValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newPostService(db)
	author := seedUser(t, db, "autore", "autore@example.com")

	_, err := svc.CreatePost(author.ID, "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = svc.CreatePost(author.ID, "que merda", nil)
	var modErr *ModerationError
	assert.ErrorAs(t, err, &modErr)
}

func TestCreatePostWithImages(t *testing.T) {
	db := setupTestDB(t)
	svc := newPostService(db)
	author := seedUser(t, db, "autore", "autore@example.com")

	images := []ImageUpload{
		{Filename: "a.png", ContentType: "image/png", Data: []byte("a")},
		{Filename: "b.jpg", ContentType: "image/jpeg", Data: []byte("b")},
	}
	post, err := svc.CreatePost(author.ID, "olá com fotos", images)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/img.png|https://cdn.test/img.png", post.Imagem)

	var rows []models.PostImage
	require.NoError(t, db.Where("post_id = ?", post.ID).Order("ordem ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Ordem)
	assert.Equal(t, 1, rows[1].Ordem)
}

func TestCreatePostImageLimits(t *testing.T) {
	db := setupTestDB(t)
	svc := newPostService(db)
	author := seedUser(t, db, "autore", "autore@example.com")

	five := make([]ImageUpload, 5)
	for i := range five {
		five[i] = ImageUpload{Filename: "x.png", Data: []byte("x")}
	}
	_, err := svc.CreatePost(author.ID, "muitas fotos", five)
	assert.ErrorIs(t, err, ErrTooManyImages)

	_, err = svc.CreatePost(author.ID, "tipo errado", []ImageUpload{{Filename: "doc.pdf", Data: []byte("x")}})
	assert.ErrorIs(t, err, ErrBadImageType)
}

func TestSoftDeleteAndRestore(t *testing.T) {
	db := setupTestDB(t)
	svc := newPostService(db)
	author := seedUser(t, db, "autore", "autore@example.com")
	other := seedUser(t, db, "outrapessoa", "outra@example.com")

	post, err := svc.CreatePost(author.ID, "texto qualquer", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SoftDelete(post.ID, other.ID, false), ErrForbidden)

	// An admin who is not the author may delete.
	require.NoError(t, svc.SoftDelete(post.ID, other.ID, true))

	_, err = svc.GetPost(post.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := svc.ListPosts(ListPostsQuery{})
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, svc.Restore(post.ID))
	_, err = svc.GetPost(post.ID)
	assert.NoError(t, err)
}

func TestToggleLike(t *testing.T) {
	db := setupTestDB(t)
	svc := newPostService(db)
	author := seedUser(t, db, "autore", "autore@example.com")
	reader := seedUser(t, db, "leitora", "leitora@example.com")

	post, err := svc.CreatePost(author.ID, "curtam este post", nil)
	require.NoError(t, err)

	liked, err := svc.ToggleLike(post.ID, reader.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	count, err := svc.CountLikes(post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	liked, err = svc.ToggleLike(post.ID, reader.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	count, err = svc.CountLikes(post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	_, err = svc.ToggleLike(uuid.New(), reader.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPostsFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := newPostService(db)
	ana := seedUser(t, db, "anabela", "ana@example.com")
	bia := seedUser(t, db, "biancam", "bia@example.com")

	textual, err := svc.CreatePost(ana.ID, "post de texto #neutro", nil)
	require.NoError(t, err)
	comFoto, err := svc.CreatePost(bia.ID, "post com foto", []ImageUpload{{Filename: "f.png", Data: []byte("x")}})
	require.NoError(t, err)

	items, err := svc.ListPosts(ListPostsQuery{Q: "@anabela"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, textual.ID, items[0].ID)

	items, err = svc.ListPosts(ListPostsQuery{Q: "#neutro"})
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, err = svc.ListPosts(ListPostsQuery{Tipo: "imagem"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, comFoto.ID, items[0].ID)

	items, err = svc.ListPosts(ListPostsQuery{Tipo: "texto"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, textual.ID, items[0].ID)
}

func TestListPostsPopularesOrdersByLikes(t *testing.T) {
	db := setupTestDB(t)
	svc := newPostService(db)
	ana := seedUser(t, db, "anabela", "ana@example.com")
	bia := seedUser(t, db, "biancam", "bia@example.com")

	older, err := svc.CreatePost(ana.ID, "post antigo porém amado", nil)
	require.NoError(t, err)
	newer, err := svc.CreatePost(ana.ID, "post novo sem curtidas", nil)
	require.NoError(t, err)

	_, err = svc.ToggleLike(older.ID, bia.ID)
	require.NoError(t, err)

	items, err := svc.ListPosts(ListPostsQuery{Sort: SortPopulares})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, older.ID, items[0].ID)
	assert.EqualValues(t, 1, items[0].Likes)
	assert.Equal(t, newer.ID, items[1].ID)
}

func TestPeriodoCutoff(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cutoff, ok := periodoCutoff("24h", now)
	require.True(t, ok)
	assert.Equal(t, now.Add(-24*time.Hour), cutoff)

	cutoff, ok = periodoCutoff("7d", now)
	require.True(t, ok)
	assert.Equal(t, now.AddDate(0, 0, -7), cutoff)

	_, ok = periodoCutoff("todos", now)
	assert.False(t, ok)
	_, ok = periodoCutoff("", now)
	assert.False(t, ok)
}

func TestComments(t *testing.T) {
	db := setupTestDB(t)
	svc := newPostService(db)
	author := seedUser(t, db, "autore", "autore@example.com")
	reader := seedUser(t, db, "leitora", "leitora@example.com")

	post, err := svc.CreatePost(author.ID, "comentem aqui", nil)
	require.NoError(t, err)

	_, err = svc.CreateComment(post.ID, reader.ID, "  ")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = svc.CreateComment(post.ID, reader.ID, "que porra é essa")
	var modErr *ModerationError
	assert.ErrorAs(t, err, &modErr)

	_, err = svc.CreateComment(post.ID, reader.ID, "adorei a iniciativa")
	require.NoError(t, err)

	comments, err := svc.ListComments(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	// Deleted posts stop accepting comments.
	require.NoError(t, svc.SoftDelete(post.ID, author.ID, false))
	_, err = svc.CreateComment(post.ID, reader.ID, "tarde demais")
	assert.ErrorIs(t, err, ErrNotFound)
}
