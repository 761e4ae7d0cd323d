package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/mailer"
	"github.com/gramatike/gramatike-api/internal/models"
	"gorm.io/gorm"
)

type SupportService struct {
	db         *gorm.DB
	moderation *ModerationService
	mail       mailer.Sender
}

func NewSupportService(db *gorm.DB, moderation *ModerationService, mail mailer.Sender) *SupportService {
	return &SupportService{db: db, moderation: moderation, mail: mail}
}

// CreateTicket accepts a moderated support message. AuthorID is nil for
// anonymous visitors.
func (s *SupportService) CreateTicket(authorID *uuid.UUID, nome, email, mensagem string) (*models.SupportTicket, error) {
	mensagem = strings.TrimSpace(mensagem)
	if mensagem == "" {
		return nil, ErrEmptyContent
	}
	if d := s.moderation.Check(mensagem); !d.Allowed {
		return nil, moderationErr(d)
	}

	ticket := models.SupportTicket{
		AuthorID: authorID,
		Nome:     strings.TrimSpace(nome),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Mensagem: mensagem,
		Status:   models.TicketAberto,
	}
	if err := s.db.Create(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *SupportService) ListTickets(status string) ([]models.SupportTicket, error) {
	query := s.db.Order("created_at DESC")
	if models.ValidTicketStatus(status) {
		query = query.Where("status = ?", status)
	}
	var tickets []models.SupportTicket
	err := query.Find(&tickets).Error
	return tickets, err
}

// Respond stores the answer, moves the ticket to resolvido and mails the
// requester best-effort.
func (s *SupportService) Respond(ticketID uuid.UUID, resposta string) (*models.SupportTicket, error) {
	resposta = strings.TrimSpace(resposta)
	if resposta == "" {
		return nil, ErrEmptyContent
	}

	var ticket models.SupportTicket
	if err := s.db.First(&ticket, "id = ?", ticketID).Error; err != nil {
		return nil, ErrNotFound
	}
	if err := s.db.Model(&ticket).Updates(map[string]interface{}{
		"resposta": resposta,
		"status":   models.TicketResolvido,
	}).Error; err != nil {
		return nil, err
	}
	ticket.Resposta = resposta
	ticket.Status = models.TicketResolvido

	if ticket.Email != "" {
		s.mail.Send(ticket.Email, "Resposta do suporte Gramátike", mailer.SupportReplyBody(ticket.Nome, resposta))
	}
	return &ticket, nil
}

// SetStatus moves a ticket between aberto, em_andamento and resolvido.
func (s *SupportService) SetStatus(ticketID uuid.UUID, status string) error {
	if !models.ValidTicketStatus(status) {
		return ErrNotFound
	}
	result := s.db.Model(&models.SupportTicket{}).Where("id = ?", ticketID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
