package palavra

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Interaction tipos.
const (
	TipoFrase       = "frase"
	TipoSignificado = "significado"
)

// PalavraDoDia is one entry of the rotating daily-word list.
type PalavraDoDia struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Palavra     string    `gorm:"size:120;not null" json:"palavra"`
	Significado string    `gorm:"type:text" json:"significado"`
	Ordem       int       `gorm:"default:0;index" json:"ordem"`
	Ativo       bool      `gorm:"default:true" json:"ativo"`
	CreatedAt   time.Time `json:"created_at"`
}

func (PalavraDoDia) TableName() string { return "palavras_do_dia" }

func (p *PalavraDoDia) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Interacao records a user's daily engagement with the word. One per user
// per day.
type Interacao struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PalavraID uuid.UUID `gorm:"type:uuid;not null;index" json:"palavra_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_palavra_interacao_daily" json:"user_id"`
	Dia       string    `gorm:"size:10;not null;uniqueIndex:idx_palavra_interacao_daily" json:"dia"`
	Tipo      string    `gorm:"size:20;not null" json:"tipo"`
	Frase     string    `gorm:"size:500" json:"frase"`
	CreatedAt time.Time `json:"created_at"`
}

func (Interacao) TableName() string { return "palavra_do_dia_interacoes" }

func (i *Interacao) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
