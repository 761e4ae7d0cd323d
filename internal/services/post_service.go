package services

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/models"
	"github.com/gramatike/gramatike-api/internal/storage"
	"gorm.io/gorm"
)

const (
	MaxPostImages    = 4
	MaxPostImageSize = 3 * 1024 * 1024
)

var allowedImageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".gif": true,
}

var (
	ErrTooManyImages = errors.New("a post accepts at most 4 images")
	ErrImageTooLarge = errors.New("image exceeds the size limit")
	ErrBadImageType  = errors.New("image type not allowed")
)

type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type PostService struct {
	db         *gorm.DB
	moderation *ModerationService
	uploader   storage.Uploader
}

func NewPostService(db *gorm.DB, moderation *ModerationService, uploader storage.Uploader) *PostService {
	return &PostService{db: db, moderation: moderation, uploader: uploader}
}

// ValidImageUpload checks extension and size before any byte leaves the
// process.
func ValidImageUpload(filename string, size int, limit int) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return ErrBadImageType
	}
	if size > limit {
		return ErrImageTooLarge
	}
	return nil
}

// CreatePost moderates content and image hints, uploads images and
// persists the post with its ordered image rows inside one transaction.
func (s *PostService) CreatePost(authorID uuid.UUID, content string, images []ImageUpload) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if d := s.moderation.Check(content); !d.Allowed {
		return nil, moderationErr(d)
	}
	if len(images) > MaxPostImages {
		return nil, ErrTooManyImages
	}
	for _, img := range images {
		if err := ValidImageUpload(img.Filename, len(img.Data), MaxPostImageSize); err != nil {
			return nil, err
		}
		if d := s.moderation.CheckImageHint(img.Filename); !d.Allowed {
			return nil, moderationErr(d)
		}
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		url := s.uploader.Put(storage.PostImagePath(authorID.String(), img.Filename), img.Data, img.ContentType)
		if url == "" {
			// Degraded: the post still goes out without this image.
			continue
		}
		urls = append(urls, url)
	}

	post := models.Post{
		AuthorID: authorID,
		Content:  content,
		Imagem:   strings.Join(urls, "|"),
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		for i, url := range urls {
			img := models.PostImage{PostID: post.ID, URL: url, Ordem: i}
			if err := tx.Create(&img).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// SoftDelete hides a post. Only the author or an admin may delete.
func (s *PostService) SoftDelete(postID, actorID uuid.UUID, actorIsAdmin bool) error {
	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		return ErrNotFound
	}
	if post.AuthorID != actorID && !actorIsAdmin {
		return ErrForbidden
	}
	now := time.Now()
	return s.db.Model(&post).Updates(map[string]interface{}{
		"is_deleted": true,
		"deleted_at": now,
		"deleted_by": actorID,
	}).Error
}

// Restore undoes a soft delete. Admin only (enforced at the route).
func (s *PostService) Restore(postID uuid.UUID) error {
	result := s.db.Model(&models.Post{}).Where("id = ?", postID).Updates(map[string]interface{}{
		"is_deleted": false,
		"deleted_at": nil,
		"deleted_by": nil,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleLike flips the like state and returns the new state.
func (s *PostService) ToggleLike(postID, userID uuid.UUID) (bool, error) {
	var post models.Post
	if err := s.db.First(&post, "id = ? AND is_deleted = ?", postID, false).Error; err != nil {
		return false, ErrNotFound
	}

	var existing models.PostLike
	err := s.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error
	switch {
	case err == nil:
		if err := s.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{}).Error; err != nil {
			return true, err
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		like := models.PostLike{PostID: postID, UserID: userID}
		if err := s.db.Create(&like).Error; err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

// Sorts, tipos and periods accepted by ListPosts.
const (
	SortRecentes  = "recentes"
	SortPopulares = "populares"
)

type ListPostsQuery struct {
	Q       string
	Sort    string // recentes | populares
	Tipo    string // todos | texto | imagem
	Periodo string // todos | 24h | 7d | 30d
	Limit   int
	Offset  int
}

// PostItem is a post with its like count resolved.
type PostItem struct {
	models.Post
	Likes int64 `json:"likes"`
}

// ListPosts applies the public filters. Soft-deleted posts never appear.
func (s *PostService) ListPosts(q ListPostsQuery) ([]PostItem, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}

	query := s.db.Model(&models.Post{}).
		Select("posts.*, (SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id) AS likes").
		Where("posts.is_deleted = ?", false)

	if term := strings.TrimSpace(q.Q); term != "" {
		switch {
		case strings.HasPrefix(term, "@"):
			username := strings.ToLower(strings.TrimPrefix(term, "@"))
			query = query.Joins("JOIN users ON users.id = posts.author_id").
				Where("LOWER(users.username) LIKE ?", "%"+username+"%")
		case strings.HasPrefix(term, "#"):
			query = query.Where("LOWER(posts.content) LIKE ?", "%"+strings.ToLower(term)+"%")
		default:
			query = query.Where("LOWER(posts.content) LIKE ?", "%"+strings.ToLower(term)+"%")
		}
	}

	switch q.Tipo {
	case "texto":
		query = query.Where("posts.imagem = '' OR posts.imagem IS NULL")
	case "imagem":
		query = query.Where("posts.imagem <> '' AND posts.imagem IS NOT NULL")
	}

	if cutoff, ok := periodoCutoff(q.Periodo, time.Now()); ok {
		query = query.Where("posts.created_at >= ?", cutoff)
	}

	if q.Sort == SortPopulares {
		query = query.Order("likes DESC").Order("posts.created_at DESC")
	} else {
		query = query.Order("posts.created_at DESC")
	}

	var items []PostItem
	err := query.Preload("Author").Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("post_images.ordem ASC")
	}).Limit(q.Limit).Offset(q.Offset).Find(&items).Error
	return items, err
}

func periodoCutoff(periodo string, now time.Time) (time.Time, bool) {
	switch periodo {
	case "24h":
		return now.Add(-24 * time.Hour), true
	case "7d":
		return now.AddDate(0, 0, -7), true
	case "30d":
		return now.AddDate(0, 0, -30), true
	}
	return time.Time{}, false
}

// GetPost returns a single visible post.
func (s *PostService) GetPost(postID uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := s.db.Preload("Author").Preload("Images").
		First(&post, "id = ? AND is_deleted = ?", postID, false).Error
	if err != nil {
		return nil, ErrNotFound
	}
	return &post, nil
}

// ListComments returns a post's comments newest-first.
func (s *PostService) ListComments(postID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// CreateComment moderates and persists a comment on a visible post.
func (s *PostService) CreateComment(postID, authorID uuid.UUID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if d := s.moderation.Check(content); !d.Allowed {
		return nil, moderationErr(d)
	}

	var count int64
	if err := s.db.Model(&models.Post{}).Where("id = ? AND is_deleted = ?", postID, false).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	comment := models.Comment{PostID: postID, AuthorID: authorID, Content: content}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// CountLikes is used by profile and moderation views.
func (s *PostService) CountLikes(postID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
