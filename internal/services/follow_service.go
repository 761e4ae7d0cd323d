package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/models"
	"gorm.io/gorm"
)

type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow is idempotent; following twice leaves a single edge.
func (s *FollowService) Follow(followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}
	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", followeeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}

	var existing models.Follow
	err := s.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	edge := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	return s.db.Create(&edge).Error
}

// Unfollow is idempotent; removing a missing edge succeeds.
func (s *FollowService) Unfollow(followerID, followeeID uuid.UUID) error {
	return s.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
}

func (s *FollowService) Followers(userID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := s.db.Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", userID).
		Find(&users).Error
	return users, err
}

func (s *FollowService) Following(userID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := s.db.Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", userID).
		Find(&users).Error
	return users, err
}

// Amigues returns the mutual subset of the follow graph for a user.
func (s *FollowService) Amigues(userID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := s.db.Joins("JOIN follows f1 ON f1.followee_id = users.id AND f1.follower_id = ?", userID).
		Joins("JOIN follows f2 ON f2.follower_id = users.id AND f2.followee_id = ?", userID).
		Find(&users).Error
	return users, err
}

type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Amigues   int64 `json:"amigues"`
}

func (s *FollowService) Counts(userID uuid.UUID) (FollowCounts, error) {
	var c FollowCounts
	if err := s.db.Model(&models.Follow{}).Where("followee_id = ?", userID).Count(&c.Followers).Error; err != nil {
		return c, err
	}
	if err := s.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&c.Following).Error; err != nil {
		return c, err
	}
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id IN (SELECT follower_id FROM follows WHERE followee_id = ?)", userID, userID).
		Count(&c.Amigues).Error
	return c, err
}

// IsFollowing reports whether an edge exists.
func (s *FollowService) IsFollowing(followerID, followeeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}
