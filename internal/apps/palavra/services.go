package palavra

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/services"
	"gorm.io/gorm"
)

const maxFraseLen = 500

var (
	ErrNoWords            = errors.New("no active words configured")
	ErrAlreadyInteracted  = errors.New("user already interacted today")
	ErrInvalidInteraction = errors.New("invalid interaction")
)

type Service struct {
	db         *gorm.DB
	moderation *services.ModerationService
	now        func() time.Time
}

func NewService(db *gorm.DB, moderation *services.ModerationService) *Service {
	return &Service{db: db, moderation: moderation, now: time.Now}
}

// Today picks the word by rotating the ordered active list with the day
// of the year.
func (s *Service) Today() (*PalavraDoDia, error) {
	var words []PalavraDoDia
	if err := s.db.Where("ativo = ?", true).Order("ordem ASC").Order("created_at ASC").Find(&words).Error; err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	idx := s.now().YearDay() % len(words)
	return &words[idx], nil
}

func (s *Service) day() string {
	return s.now().Format("2006-01-02")
}

// Interact records the daily engagement: a frase (moderated, up to 500
// chars) or a significado request.
func (s *Service) Interact(userID uuid.UUID, tipo, frase string) (*Interacao, error) {
	word, err := s.Today()
	if err != nil {
		return nil, err
	}

	switch tipo {
	case TipoFrase:
		frase = strings.TrimSpace(frase)
		if frase == "" || len([]rune(frase)) > maxFraseLen {
			return nil, ErrInvalidInteraction
		}
		if d := s.moderation.Check(frase); !d.Allowed {
			return nil, &services.ModerationError{Decision: d}
		}
	case TipoSignificado:
		frase = ""
	default:
		return nil, ErrInvalidInteraction
	}

	dia := s.day()
	var count int64
	if err := s.db.Model(&Interacao{}).Where("user_id = ? AND dia = ?", userID, dia).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyInteracted
	}

	interacao := Interacao{
		PalavraID: word.ID,
		UserID:    userID,
		Dia:       dia,
		Tipo:      tipo,
		Frase:     frase,
	}
	if err := s.db.Create(&interacao).Error; err != nil {
		return nil, ErrAlreadyInteracted
	}
	return &interacao, nil
}

// HasInteracted reports whether the user already engaged today.
func (s *Service) HasInteracted(userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&Interacao{}).Where("user_id = ? AND dia = ?", userID, s.day()).Count(&count).Error
	return count > 0, err
}

// Admin operations.

func (s *Service) Create(palavra, significado string, ordem int) (*PalavraDoDia, error) {
	palavra = strings.TrimSpace(palavra)
	if palavra == "" {
		return nil, services.ErrEmptyContent
	}
	word := PalavraDoDia{Palavra: palavra, Significado: strings.TrimSpace(significado), Ordem: ordem, Ativo: true}
	if err := s.db.Create(&word).Error; err != nil {
		return nil, err
	}
	return &word, nil
}

func (s *Service) List() ([]PalavraDoDia, error) {
	var words []PalavraDoDia
	err := s.db.Order("ordem ASC").Order("created_at ASC").Find(&words).Error
	return words, err
}

func (s *Service) Delete(id uuid.UUID) error {
	result := s.db.Delete(&PalavraDoDia{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return services.ErrNotFound
	}
	return nil
}

// Interactions lists a word's engagements for the admin panel.
func (s *Service) Interactions(palavraID uuid.UUID) ([]Interacao, error) {
	var rows []Interacao
	err := s.db.Where("palavra_id = ?", palavraID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}
