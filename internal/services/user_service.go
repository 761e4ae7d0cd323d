package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/models"
	"github.com/gramatike/gramatike-api/internal/storage"
	"gorm.io/gorm"
)

const MaxAvatarSize = 3 * 1024 * 1024

type UserService struct {
	db         *gorm.DB
	moderation *ModerationService
	uploader   storage.Uploader
}

func NewUserService(db *gorm.DB, moderation *ModerationService, uploader storage.Uploader) *UserService {
	return &UserService{db: db, moderation: moderation, uploader: uploader}
}

func (s *UserService) Get(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "username = ?", NormalizeUsername(username)).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

type ProfileUpdate struct {
	Username *string
	Nome     *string
	Bio      *string
	Genero   *string
	Pronome  *string
}

// UpdateProfile applies the requested changes. Username changes revalidate
// charset, length, uniqueness and moderation; bios are moderated too.
func (s *UserService) UpdateProfile(userID uuid.UUID, in ProfileUpdate) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if in.Username != nil {
		username := NormalizeUsername(*in.Username)
		if username != user.Username {
			if !ValidUsername(username) {
				return nil, ErrInvalidUsername
			}
			if d := s.moderation.Check(username); !d.Allowed {
				return nil, moderationErr(d)
			}
			var count int64
			if err := s.db.Model(&models.User{}).Where("username = ? AND id <> ?", username, userID).Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, ErrUsernameTaken
			}
			updates["username"] = username
		}
	}

	if in.Bio != nil {
		bio := strings.TrimSpace(*in.Bio)
		if d := s.moderation.Check(bio); !d.Allowed {
			return nil, moderationErr(d)
		}
		updates["bio"] = bio
	}
	if in.Nome != nil {
		updates["nome"] = strings.TrimSpace(*in.Nome)
	}
	if in.Genero != nil {
		updates["genero"] = strings.TrimSpace(*in.Genero)
	}
	if in.Pronome != nil {
		updates["pronome"] = strings.TrimSpace(*in.Pronome)
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.Get(userID)
}

// UpdateAvatar uploads the image and stores its URL.
func (s *UserService) UpdateAvatar(userID uuid.UUID, filename string, data []byte, contentType string) (string, error) {
	if err := ValidImageUpload(filename, len(data), MaxAvatarSize); err != nil {
		return "", err
	}
	if d := s.moderation.CheckImageHint(filename); !d.Allowed {
		return "", moderationErr(d)
	}
	url := s.uploader.Put(storage.AvatarPath(userID.String(), filename), data, contentType)
	if url == "" {
		return "", ErrNotFound
	}
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Update("foto_perfil", url).Error; err != nil {
		return "", err
	}
	return url, nil
}

// VisiblePosts lists a user's posts for the public profile.
func (s *UserService) VisiblePosts(userID uuid.UUID, limit int) ([]models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var posts []models.Post
	err := s.db.Preload("Images").
		Where("author_id = ? AND is_deleted = ?", userID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}
