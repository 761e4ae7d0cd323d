package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report categories.
const (
	ReportHate       = "hate"
	ReportHarassment = "harassment"
	ReportViolence   = "violence"
	ReportNudity     = "nudity"
	ReportSpam       = "spam"
	ReportSuicide    = "suicide"
	ReportOther      = "other"
)

// Report is a user complaint about a post. At most one unresolved report
// may exist per (post, reporter).
type Report struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PostID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"post_id"`
	AuthorID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	Category   string     `gorm:"size:30;not null" json:"category"`
	Reason     string     `gorm:"type:text" json:"reason"`
	Resolved   bool       `gorm:"default:false;index" json:"resolved"`
	ResolvedAt *time.Time `json:"resolved_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ValidReportCategory reports whether c is one of the accepted categories.
func ValidReportCategory(c string) bool {
	switch c {
	case ReportHate, ReportHarassment, ReportViolence, ReportNudity, ReportSpam, ReportSuicide, ReportOther:
		return true
	}
	return false
}
