package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Divulgacao is an admin-curated highlight card. A card appears on a surface
// iff Ativo and the surface's show flag are both true; listing order is
// ordem ASC, created_at DESC.
type Divulgacao struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Titulo string    `gorm:"size:255" json:"titulo"`
	Texto  string    `gorm:"type:text" json:"texto"`
	Link   string    `gorm:"size:512" json:"link"`
	Imagem string    `gorm:"size:512" json:"imagem"`
	Ordem  int       `gorm:"default:0;index" json:"ordem"`

	// No gorm defaults on the flags: a false must reach the database
	// as false when creating from a struct.
	Ativo       bool `json:"ativo"`
	ShowOnEdu   bool `json:"show_on_edu"`
	ShowOnIndex bool `json:"show_on_index"`

	EduContentID *uuid.UUID `gorm:"type:uuid" json:"edu_content_id"`
	PostID       *uuid.UUID `gorm:"type:uuid" json:"post_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Divulgacao) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (Divulgacao) TableName() string { return "divulgacoes" }
