package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EduContent tipos.
const (
	EduArtigo   = "artigo"
	EduApostila = "apostila"
	EduPodcast  = "podcast"
	EduVideo    = "video"
	EduRedacao  = "redacao"
	EduVariacao = "variacao"
)

// EduContent is a unit of educational material.
type EduContent struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Tipo     string         `gorm:"size:30;not null;index" json:"tipo"`
	Titulo   string         `gorm:"size:255;not null" json:"titulo"`
	Resumo   string         `gorm:"type:text" json:"resumo"`
	Corpo    string         `gorm:"type:text" json:"corpo"`
	URL      string         `gorm:"size:512" json:"url"`
	FilePath string         `gorm:"size:512" json:"file_path"`
	Extra    datatypes.JSON `gorm:"type:jsonb" json:"extra"`

	TopicID  *uuid.UUID `gorm:"type:uuid;index" json:"topic_id"`
	AuthorID *uuid.UUID `gorm:"type:uuid" json:"author_id"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (e *EduContent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func ValidEduTipo(t string) bool {
	switch t {
	case EduArtigo, EduApostila, EduPodcast, EduVideo, EduRedacao, EduVariacao:
		return true
	}
	return false
}

// EduTopic groups content inside an area (one of the tipo values).
type EduTopic struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Area      string    `gorm:"size:30;not null;uniqueIndex:idx_edu_topics_area_nome" json:"area"`
	Nome      string    `gorm:"size:120;not null;uniqueIndex:idx_edu_topics_area_nome" json:"nome"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *EduTopic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// EduNovidade is a short news entry shown in the education hub and feed.
type EduNovidade struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Titulo    string     `gorm:"size:255;not null" json:"titulo"`
	Descricao string     `gorm:"type:text" json:"descricao"`
	Link      string     `gorm:"size:512" json:"link"`
	AuthorID  *uuid.UUID `gorm:"type:uuid" json:"author_id"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

func (n *EduNovidade) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
