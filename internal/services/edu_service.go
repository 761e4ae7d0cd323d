package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EduService manages educational content, topics and novidades.
type EduService struct {
	db *gorm.DB
}

func NewEduService(db *gorm.DB) *EduService {
	return &EduService{db: db}
}

type EduContentInput struct {
	Tipo     string
	Titulo   string
	Resumo   string
	Corpo    string
	URL      string
	FilePath string
	Extra    datatypes.JSON
	TopicID  *uuid.UUID
}

func (s *EduService) CreateContent(authorID uuid.UUID, in EduContentInput) (*models.EduContent, error) {
	if !models.ValidEduTipo(in.Tipo) {
		return nil, ErrNotFound
	}
	titulo := strings.TrimSpace(in.Titulo)
	if titulo == "" {
		return nil, ErrEmptyContent
	}
	content := models.EduContent{
		Tipo:     in.Tipo,
		Titulo:   titulo,
		Resumo:   strings.TrimSpace(in.Resumo),
		Corpo:    in.Corpo,
		URL:      strings.TrimSpace(in.URL),
		FilePath: strings.TrimSpace(in.FilePath),
		Extra:    in.Extra,
		TopicID:  in.TopicID,
		AuthorID: &authorID,
	}
	if err := s.db.Create(&content).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

func (s *EduService) UpdateContent(id uuid.UUID, in EduContentInput) (*models.EduContent, error) {
	var content models.EduContent
	if err := s.db.First(&content, "id = ?", id).Error; err != nil {
		return nil, ErrNotFound
	}
	updates := map[string]interface{}{
		"titulo": strings.TrimSpace(in.Titulo),
		"resumo": strings.TrimSpace(in.Resumo),
		"corpo":  in.Corpo,
		"url":    strings.TrimSpace(in.URL),
	}
	if models.ValidEduTipo(in.Tipo) {
		updates["tipo"] = in.Tipo
	}
	if in.TopicID != nil {
		updates["topic_id"] = in.TopicID
	}
	if len(in.Extra) > 0 {
		updates["extra"] = in.Extra
	}
	if err := s.db.Model(&content).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

func (s *EduService) DeleteContent(id uuid.UUID) error {
	result := s.db.Delete(&models.EduContent{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *EduService) GetContent(id uuid.UUID) (*models.EduContent, error) {
	var content models.EduContent
	if err := s.db.First(&content, "id = ?", id).Error; err != nil {
		return nil, ErrNotFound
	}
	return &content, nil
}

type ListEduQuery struct {
	Q      string
	Tipo   string
	Limit  int
	Offset int
}

func (s *EduService) ListContent(q ListEduQuery) ([]models.EduContent, int64, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	query := s.db.Model(&models.EduContent{})
	if models.ValidEduTipo(q.Tipo) {
		query = query.Where("tipo = ?", q.Tipo)
	}
	if term := strings.TrimSpace(q.Q); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(titulo) LIKE ? OR LOWER(resumo) LIKE ? OR LOWER(corpo) LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.EduContent
	err := query.Order("created_at DESC").Limit(q.Limit).Offset(q.Offset).Find(&rows).Error
	return rows, total, err
}

// Topics.

func (s *EduService) CreateTopic(area, nome string) (*models.EduTopic, error) {
	if !models.ValidEduTipo(area) || strings.TrimSpace(nome) == "" {
		return nil, ErrEmptyContent
	}
	topic := models.EduTopic{Area: area, Nome: strings.TrimSpace(nome)}
	if err := s.db.Create(&topic).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (s *EduService) ListTopics(area string) ([]models.EduTopic, error) {
	query := s.db.Model(&models.EduTopic{})
	if area != "" {
		query = query.Where("area = ?", area)
	}
	var topics []models.EduTopic
	err := query.Order("nome ASC").Find(&topics).Error
	return topics, err
}

// Novidades.

func (s *EduService) CreateNovidade(authorID uuid.UUID, titulo, descricao, link string) (*models.EduNovidade, error) {
	titulo = strings.TrimSpace(titulo)
	if titulo == "" {
		return nil, ErrEmptyContent
	}
	novidade := models.EduNovidade{
		Titulo:    titulo,
		Descricao: strings.TrimSpace(descricao),
		Link:      strings.TrimSpace(link),
		AuthorID:  &authorID,
	}
	if err := s.db.Create(&novidade).Error; err != nil {
		return nil, err
	}
	return &novidade, nil
}

func (s *EduService) DeleteNovidade(id uuid.UUID) error {
	result := s.db.Delete(&models.EduNovidade{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *EduService) ListNovidades(limit int) ([]models.EduNovidade, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var rows []models.EduNovidade
	err := s.db.Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
