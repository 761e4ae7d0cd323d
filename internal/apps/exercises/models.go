package exercises

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question tipos.
const (
	TipoMultipleChoice = "multiple_choice"
	TipoDragWords      = "drag_words"
	TipoOpen           = "open"
)

type Topic struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nome      string    `gorm:"size:120;not null" json:"nome"`
	Descricao string    `gorm:"type:text" json:"descricao"`
	Ordem     int       `gorm:"default:0;index" json:"ordem"`
	CreatedAt time.Time `json:"created_at"`
}

func (Topic) TableName() string { return "exercise_topics" }

func (t *Topic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type Section struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID   uuid.UUID `gorm:"type:uuid;not null;index" json:"topic_id"`
	Nome      string    `gorm:"size:120;not null" json:"nome"`
	Ordem     int       `gorm:"default:0" json:"ordem"`
	CreatedAt time.Time `json:"created_at"`
}

func (Section) TableName() string { return "exercise_sections" }

func (s *Section) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Question belongs to a topic; SectionID is optional, questions without a
// section hang off the topic directly.
type Question struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"topic_id"`
	SectionID *uuid.UUID     `gorm:"type:uuid;index" json:"section_id"`
	Tipo      string         `gorm:"size:30;not null" json:"tipo"`
	Enunciado string         `gorm:"type:text;not null" json:"enunciado"`
	Resposta  string         `gorm:"type:text" json:"resposta"`
	Opcoes    datatypes.JSON `gorm:"type:jsonb" json:"opcoes"`
	CreatedAt time.Time      `json:"created_at"`
}

func (Question) TableName() string { return "exercise_questions" }

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

func ValidQuestionTipo(t string) bool {
	switch t {
	case TipoMultipleChoice, TipoDragWords, TipoOpen:
		return true
	}
	return false
}
