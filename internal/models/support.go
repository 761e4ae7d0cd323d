package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SupportTicket statuses.
const (
	TicketAberto      = "aberto"
	TicketEmAndamento = "em_andamento"
	TicketResolvido   = "resolvido"
)

type SupportTicket struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID *uuid.UUID `gorm:"type:uuid" json:"author_id"`
	Nome     string     `gorm:"size:120" json:"nome"`
	Email    string     `gorm:"size:255" json:"email"`
	Mensagem string     `gorm:"type:text;not null" json:"mensagem"`
	Status   string     `gorm:"size:20;not null;default:'aberto';index" json:"status"`
	Resposta string     `gorm:"type:text" json:"resposta"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *SupportTicket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func ValidTicketStatus(s string) bool {
	switch s {
	case TicketAberto, TicketEmAndamento, TicketResolvido:
		return true
	}
	return false
}
