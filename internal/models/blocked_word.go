package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlockedWord categories. Custom terms are evaluated before the built-in lists.
const (
	WordCategoryProfanity = "profanity"
	WordCategoryHate      = "hate"
	WordCategoryNudity    = "nudity"
	WordCategoryCustom    = "custom"
)

// BlockedWord is an admin-managed moderation term. Terms are stored
// lowercased; uniqueness is case-insensitive.
type BlockedWord struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Term      string     `gorm:"size:190;not null;uniqueIndex" json:"term"`
	Category  string     `gorm:"size:20;not null;default:'custom'" json:"category"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
}

func (w *BlockedWord) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
