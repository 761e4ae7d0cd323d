package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/imagegen"
	"github.com/gramatike/gramatike-api/internal/models"
	"github.com/gramatike/gramatike-api/internal/storage"
	"gorm.io/gorm"
)

const MaxDivulgacaoImageSize = 2 * 1024 * 1024

// Surfaces a card can appear on.
const (
	SurfaceEdu   = "edu"
	SurfaceIndex = "index"
)

var ErrUnknownSurface = errors.New("unknown surface")

type CurationService struct {
	db       *gorm.DB
	uploader storage.Uploader
}

func NewCurationService(db *gorm.DB, uploader storage.Uploader) *CurationService {
	return &CurationService{db: db, uploader: uploader}
}

type CurationInput struct {
	Titulo       string
	Texto        string
	Link         string
	Imagem       string
	Ordem        int
	Ativo        bool
	ShowOnEdu    bool
	ShowOnIndex  bool
	EduContentID *uuid.UUID
	PostID       *uuid.UUID
}

// Create persists a card. When an EduContent back-reference is present and
// titulo/texto are empty, they are derived from the referenced content.
func (s *CurationService) Create(in CurationInput) (*models.Divulgacao, error) {
	titulo := strings.TrimSpace(in.Titulo)
	texto := strings.TrimSpace(in.Texto)

	if in.EduContentID != nil && (titulo == "" || texto == "") {
		var content models.EduContent
		if err := s.db.First(&content, "id = ?", *in.EduContentID).Error; err == nil {
			if titulo == "" {
				titulo = content.Titulo
			}
			if texto == "" {
				source := content.Resumo
				if source == "" {
					source = content.Corpo
				}
				texto = truncate(source, 140)
			}
		}
	}

	card := models.Divulgacao{
		Titulo:       titulo,
		Texto:        texto,
		Link:         strings.TrimSpace(in.Link),
		Imagem:       strings.TrimSpace(in.Imagem),
		Ordem:        in.Ordem,
		Ativo:        in.Ativo,
		ShowOnEdu:    in.ShowOnEdu,
		ShowOnIndex:  in.ShowOnIndex,
		EduContentID: in.EduContentID,
		PostID:       in.PostID,
	}
	if err := s.db.Create(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *CurationService) Update(id uuid.UUID, in CurationInput) (*models.Divulgacao, error) {
	var card models.Divulgacao
	if err := s.db.First(&card, "id = ?", id).Error; err != nil {
		return nil, ErrNotFound
	}
	updates := map[string]interface{}{
		"titulo":        strings.TrimSpace(in.Titulo),
		"texto":         strings.TrimSpace(in.Texto),
		"link":          strings.TrimSpace(in.Link),
		"ordem":         in.Ordem,
		"ativo":         in.Ativo,
		"show_on_edu":   in.ShowOnEdu,
		"show_on_index": in.ShowOnIndex,
	}
	if img := strings.TrimSpace(in.Imagem); img != "" {
		updates["imagem"] = img
	}
	if err := s.db.Model(&card).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *CurationService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.Divulgacao{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type ReorderPair struct {
	ID    uuid.UUID `json:"id"`
	Ordem int       `json:"ordem"`
}

// Reorder persists every {id, ordem} pair in a single transaction.
func (s *CurationService) Reorder(pairs []ReorderPair) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, p := range pairs {
			if err := tx.Model(&models.Divulgacao{}).Where("id = ?", p.ID).Update("ordem", p.Ordem).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Upload stores a card image and returns its public URL.
func (s *CurationService) Upload(filename string, data []byte, contentType string) (string, error) {
	if err := ValidImageUpload(filename, len(data), MaxDivulgacaoImageSize); err != nil {
		return "", err
	}
	url := s.uploader.Put(storage.DivulgacaoPath(filename), data, contentType)
	if url == "" {
		return "", errors.New("upload unavailable")
	}
	return url, nil
}

// AvisoRapido renders a quick-notice image from title and message and
// persists it as an active card.
func (s *CurationService) AvisoRapido(titulo, mensagem string) (*models.Divulgacao, error) {
	titulo = strings.TrimSpace(titulo)
	mensagem = strings.TrimSpace(mensagem)
	if titulo == "" || mensagem == "" {
		return nil, ErrEmptyContent
	}

	imageURL := ""
	if png, err := imagegen.Notice(titulo, mensagem); err == nil {
		name := fmt.Sprintf("aviso_%d.png", time.Now().Unix())
		imageURL = s.uploader.Put(storage.DivulgacaoPath(name), png, "image/png")
	}

	card := models.Divulgacao{
		Titulo:      titulo,
		Texto:       truncate(mensagem, 140),
		Imagem:      imageURL,
		Ativo:       true,
		ShowOnEdu:   true,
		ShowOnIndex: true,
	}
	if err := s.db.Create(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// ListFor returns the cards visible on a surface, ordem ASC then newest
// first.
func (s *CurationService) ListFor(surface string) ([]models.Divulgacao, error) {
	query := s.db.Where("ativo = ?", true)
	switch surface {
	case SurfaceEdu:
		query = query.Where("show_on_edu = ?", true)
	case SurfaceIndex:
		query = query.Where("show_on_index = ?", true)
	default:
		return nil, ErrUnknownSurface
	}
	var cards []models.Divulgacao
	err := query.Order("ordem ASC").Order("created_at DESC").Find(&cards).Error
	return cards, err
}

// ListAll returns every card for the admin panel.
func (s *CurationService) ListAll() ([]models.Divulgacao, error) {
	var cards []models.Divulgacao
	err := s.db.Order("ordem ASC").Order("created_at DESC").Find(&cards).Error
	return cards, err
}

func truncate(s string, max int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max])
}
