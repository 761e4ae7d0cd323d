package exercises

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrTopicNotFound   = errors.New("exercise topic not found")
	ErrInvalidQuestion = errors.New("invalid question")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) CreateTopic(nome, descricao string, ordem int) (*Topic, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return nil, ErrInvalidQuestion
	}
	topic := Topic{Nome: nome, Descricao: strings.TrimSpace(descricao), Ordem: ordem}
	if err := s.db.Create(&topic).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (s *Service) CreateSection(topicID uuid.UUID, nome string, ordem int) (*Section, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return nil, ErrInvalidQuestion
	}
	var count int64
	if err := s.db.Model(&Topic{}).Where("id = ?", topicID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrTopicNotFound
	}
	section := Section{TopicID: topicID, Nome: nome, Ordem: ordem}
	if err := s.db.Create(&section).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

type QuestionInput struct {
	TopicID   uuid.UUID
	SectionID *uuid.UUID
	Tipo      string
	Enunciado string
	Resposta  string
	Opcoes    datatypes.JSON
}

func (s *Service) CreateQuestion(in QuestionInput) (*Question, error) {
	if !ValidQuestionTipo(in.Tipo) || strings.TrimSpace(in.Enunciado) == "" {
		return nil, ErrInvalidQuestion
	}
	var count int64
	if err := s.db.Model(&Topic{}).Where("id = ?", in.TopicID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrTopicNotFound
	}

	question := Question{
		TopicID:   in.TopicID,
		SectionID: in.SectionID,
		Tipo:      in.Tipo,
		Enunciado: strings.TrimSpace(in.Enunciado),
		Resposta:  in.Resposta,
		Opcoes:    in.Opcoes,
	}
	if err := s.db.Create(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *Service) DeleteQuestion(id uuid.UUID) error {
	result := s.db.Delete(&Question{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidQuestion
	}
	return nil
}

func (s *Service) ListTopics() ([]Topic, error) {
	var topics []Topic
	err := s.db.Order("ordem ASC").Order("created_at ASC").Find(&topics).Error
	return topics, err
}

// SectionTree is a section with its questions.
type SectionTree struct {
	Section   Section    `json:"section"`
	Questions []Question `json:"questions"`
}

// TopicTree is the full three-level view of one topic. Unsectioned
// questions belong to the topic directly.
type TopicTree struct {
	Topic       Topic         `json:"topic"`
	Sections    []SectionTree `json:"sections"`
	Unsectioned []Question    `json:"unsectioned"`
}

func (s *Service) Tree(topicID uuid.UUID) (*TopicTree, error) {
	var topic Topic
	if err := s.db.First(&topic, "id = ?", topicID).Error; err != nil {
		return nil, ErrTopicNotFound
	}

	var sections []Section
	if err := s.db.Where("topic_id = ?", topicID).Order("ordem ASC").Find(&sections).Error; err != nil {
		return nil, err
	}
	var questions []Question
	if err := s.db.Where("topic_id = ?", topicID).Order("created_at ASC").Find(&questions).Error; err != nil {
		return nil, err
	}

	bySection := make(map[uuid.UUID][]Question)
	var unsectioned []Question
	for _, q := range questions {
		if q.SectionID == nil {
			unsectioned = append(unsectioned, q)
			continue
		}
		bySection[*q.SectionID] = append(bySection[*q.SectionID], q)
	}

	tree := TopicTree{Topic: topic, Unsectioned: unsectioned}
	for _, section := range sections {
		tree.Sections = append(tree.Sections, SectionTree{
			Section:   section,
			Questions: bySection[section.ID],
		})
	}
	return &tree, nil
}
