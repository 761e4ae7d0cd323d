package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/models"
	"gorm.io/gorm"
)

// DefaultSuspensionDays applies when a suspension does not state a length.
const DefaultSuspensionDays = 7

type AdminService struct {
	db         *gorm.DB
	moderation *ModerationService
}

func NewAdminService(db *gorm.DB, moderation *ModerationService) *AdminService {
	return &AdminService{db: db, moderation: moderation}
}

func (s *AdminService) target(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if user.IsSuperadmin {
		return nil, ErrSuperadminLocked
	}
	return &user, nil
}

// Ban blocks the account permanently and lifts any suspension.
// Superadmins cannot be banned.
func (s *AdminService) Ban(userID uuid.UUID, reason string) error {
	user, err := s.target(userID)
	if err != nil {
		return err
	}
	now := time.Now()
	return s.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"is_banned":       true,
		"banned_at":       now,
		"ban_reason":      strings.TrimSpace(reason),
		"suspended_until": (*time.Time)(nil),
	}).Error
}

// Suspend blocks login until now+days. Zero or negative days fall back to
// the default.
func (s *AdminService) Suspend(userID uuid.UUID, days int) error {
	user, err := s.target(userID)
	if err != nil {
		return err
	}
	if days <= 0 {
		days = DefaultSuspensionDays
	}
	until := time.Now().AddDate(0, 0, days)
	return s.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"is_banned":       false,
		"suspended_until": until,
	}).Error
}

func (s *AdminService) Unban(userID uuid.UUID) error {
	user, err := s.target(userID)
	if err != nil {
		return err
	}
	// Typed nils so the timestamp columns really go back to NULL.
	return s.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"is_banned":       false,
		"banned_at":       (*time.Time)(nil),
		"ban_reason":      "",
		"suspended_until": (*time.Time)(nil),
	}).Error
}

// PromoteAdmin grants the admin flag.
func (s *AdminService) PromoteAdmin(userID uuid.UUID) error {
	user, err := s.target(userID)
	if err != nil {
		return err
	}
	return s.db.Model(user).Update("is_admin", true).Error
}

// DemoteAdmin removes the admin flag. Superadmins are immutable.
func (s *AdminService) DemoteAdmin(userID uuid.UUID) error {
	user, err := s.target(userID)
	if err != nil {
		return err
	}
	return s.db.Model(user).Update("is_admin", false).Error
}

// AddBlockedWord stores a normalized term and drops the moderation cache.
func (s *AdminService) AddBlockedWord(term, category string, createdBy uuid.UUID) (*models.BlockedWord, error) {
	term = Normalize(term)
	if term == "" {
		return nil, ErrEmptyContent
	}
	switch category {
	case models.WordCategoryProfanity, models.WordCategoryHate, models.WordCategoryNudity, models.WordCategoryCustom:
	default:
		category = models.WordCategoryCustom
	}

	word := models.BlockedWord{Term: term, Category: category, CreatedBy: &createdBy}
	if err := s.db.Create(&word).Error; err != nil {
		return nil, err
	}
	s.moderation.Invalidate()
	return &word, nil
}

// DeleteBlockedWord removes a term and drops the moderation cache.
func (s *AdminService) DeleteBlockedWord(id uuid.UUID) error {
	result := s.db.Delete(&models.BlockedWord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	s.moderation.Invalidate()
	return nil
}

func (s *AdminService) ListBlockedWords() ([]models.BlockedWord, error) {
	var words []models.BlockedWord
	err := s.db.Order("created_at DESC").Find(&words).Error
	return words, err
}

// Statistics.

type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// UserGrowth returns cumulative registrations per day.
func (s *AdminService) UserGrowth() ([]DayCount, error) {
	var days []DayCount
	err := s.db.Model(&models.User{}).
		Select("date(created_at) AS date, COUNT(*) AS count").
		Group("date(created_at)").
		Order("date ASC").
		Find(&days).Error
	if err != nil {
		return nil, err
	}
	var running int64
	for i := range days {
		running += days[i].Count
		days[i].Count = running
	}
	return days, nil
}

type TipoCount struct {
	Tipo  string `json:"tipo"`
	Count int64  `json:"count"`
}

// ContentByTipo returns the EduContent distribution.
func (s *AdminService) ContentByTipo() ([]TipoCount, error) {
	var rows []TipoCount
	err := s.db.Model(&models.EduContent{}).
		Select("tipo, COUNT(*) AS count").
		Group("tipo").
		Order("count DESC").
		Find(&rows).Error
	return rows, err
}

// PostsPerDay returns post counts for the last seven days.
func (s *AdminService) PostsPerDay() ([]DayCount, error) {
	cutoff := time.Now().AddDate(0, 0, -7)
	var days []DayCount
	err := s.db.Model(&models.Post{}).
		Select("date(created_at) AS date, COUNT(*) AS count").
		Where("created_at >= ? AND is_deleted = ?", cutoff, false).
		Group("date(created_at)").
		Order("date ASC").
		Find(&days).Error
	return days, err
}

type ActivityTotals struct {
	Users    int64 `json:"users"`
	Posts    int64 `json:"posts"`
	Comments int64 `json:"comments"`
	Reports  int64 `json:"reports"`
	Edu      int64 `json:"edu_contents"`
}

func (s *AdminService) Totals() (ActivityTotals, error) {
	var t ActivityTotals
	if err := s.db.Model(&models.User{}).Count(&t.Users).Error; err != nil {
		return t, err
	}
	if err := s.db.Model(&models.Post{}).Where("is_deleted = ?", false).Count(&t.Posts).Error; err != nil {
		return t, err
	}
	if err := s.db.Model(&models.Comment{}).Count(&t.Comments).Error; err != nil {
		return t, err
	}
	if err := s.db.Model(&models.Report{}).Count(&t.Reports).Error; err != nil {
		return t, err
	}
	err := s.db.Model(&models.EduContent{}).Count(&t.Edu).Error
	return t, err
}

// ListUsers backs the user management panel.
func (s *AdminService) ListUsers(q string, limit, offset int) ([]models.User, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := s.db.Model(&models.User{})
	if q = strings.TrimSpace(q); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	var users []models.User
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}
