package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/models"
	"gorm.io/gorm"
)

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// CreateReport files a complaint. Users cannot report their own posts and
// may hold at most one unresolved report per post.
func (s *ReportService) CreateReport(postID, reporterID uuid.UUID, category, reason string) (*models.Report, error) {
	if !models.ValidReportCategory(category) {
		category = models.ReportOther
	}

	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		return nil, ErrNotFound
	}
	if post.AuthorID == reporterID {
		return nil, ErrOwnPost
	}

	var count int64
	err := s.db.Model(&models.Report{}).
		Where("post_id = ? AND author_id = ? AND resolved = ?", postID, reporterID, false).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyReported
	}

	report := models.Report{
		PostID:   postID,
		AuthorID: reporterID,
		Category: category,
		Reason:   strings.TrimSpace(reason),
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// ListReports returns reports for the admin queue, unresolved first.
func (s *ReportService) ListReports(onlyUnresolved bool) ([]models.Report, error) {
	var reports []models.Report
	query := s.db.Order("resolved ASC").Order("created_at DESC")
	if onlyUnresolved {
		query = query.Where("resolved = ?", false)
	}
	err := query.Find(&reports).Error
	return reports, err
}

// Resolve closes a report.
func (s *ReportService) Resolve(reportID uuid.UUID) error {
	now := time.Now()
	result := s.db.Model(&models.Report{}).Where("id = ?", reportID).Updates(map[string]interface{}{
		"resolved":    true,
		"resolved_at": now,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
