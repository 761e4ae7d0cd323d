package exercises

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&Topic{}, &Section{}, &Question{}))
	return NewService(db)
}

func TestCreateTopicAndSection(t *testing.T) {
	svc := setupService(t)

	_, err := svc.CreateTopic("  ", "", 0)
	assert.ErrorIs(t, err, ErrInvalidQuestion)

	topic, err := svc.CreateTopic("  Pronomes  ", " introdução ", 1)
	require.NoError(t, err)
	assert.Equal(t, "Pronomes", topic.Nome)
	assert.Equal(t, "introdução", topic.Descricao)

	_, err = svc.CreateSection(uuid.New(), "Básico", 0)
	assert.ErrorIs(t, err, ErrTopicNotFound)

	section, err := svc.CreateSection(topic.ID, " Básico ", 0)
	require.NoError(t, err)
	assert.Equal(t, "Básico", section.Nome)
}

func TestCreateQuestionValidation(t *testing.T) {
	svc := setupService(t)
	topic, err := svc.CreateTopic("Pronomes", "", 0)
	require.NoError(t, err)

	_, err = svc.CreateQuestion(QuestionInput{TopicID: topic.ID, Tipo: "quiz", Enunciado: "x"})
	assert.ErrorIs(t, err, ErrInvalidQuestion)

	_, err = svc.CreateQuestion(QuestionInput{TopicID: topic.ID, Tipo: TipoOpen, Enunciado: "   "})
	assert.ErrorIs(t, err, ErrInvalidQuestion)

	_, err = svc.CreateQuestion(QuestionInput{TopicID: uuid.New(), Tipo: TipoOpen, Enunciado: "Escreva uma frase com elu."})
	assert.ErrorIs(t, err, ErrTopicNotFound)

	q, err := svc.CreateQuestion(QuestionInput{
		TopicID:   topic.ID,
		Tipo:      TipoMultipleChoice,
		Enunciado: " Qual é o pronome neutro? ",
		Resposta:  "elu",
		Opcoes:    datatypes.JSON(`["ele","ela","elu"]`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Qual é o pronome neutro?", q.Enunciado)
}

func TestTreeGroupsQuestionsBySection(t *testing.T) {
	svc := setupService(t)
	topic, err := svc.CreateTopic("Pronomes", "", 0)
	require.NoError(t, err)
	section, err := svc.CreateSection(topic.ID, "Básico", 0)
	require.NoError(t, err)

	inSection, err := svc.CreateQuestion(QuestionInput{
		TopicID:   topic.ID,
		SectionID: &section.ID,
		Tipo:      TipoOpen,
		Enunciado: "Complete com o pronome.",
	})
	require.NoError(t, err)
	loose, err := svc.CreateQuestion(QuestionInput{
		TopicID:   topic.ID,
		Tipo:      TipoOpen,
		Enunciado: "Pergunta avulsa.",
	})
	require.NoError(t, err)

	tree, err := svc.Tree(topic.ID)
	require.NoError(t, err)
	require.Len(t, tree.Sections, 1)
	require.Len(t, tree.Sections[0].Questions, 1)
	assert.Equal(t, inSection.ID, tree.Sections[0].Questions[0].ID)
	require.Len(t, tree.Unsectioned, 1)
	assert.Equal(t, loose.ID, tree.Unsectioned[0].ID)

	_, err = svc.Tree(uuid.New())
	assert.ErrorIs(t, err, ErrTopicNotFound)
}

func TestDeleteQuestion(t *testing.T) {
	svc := setupService(t)
	topic, err := svc.CreateTopic("Pronomes", "", 0)
	require.NoError(t, err)
	q, err := svc.CreateQuestion(QuestionInput{TopicID: topic.ID, Tipo: TipoOpen, Enunciado: "Apague-me."})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteQuestion(q.ID))
	assert.ErrorIs(t, svc.DeleteQuestion(q.ID), ErrInvalidQuestion)
}

func TestListTopicsOrdersByOrdem(t *testing.T) {
	svc := setupService(t)

	_, err := svc.CreateTopic("Segundo", "", 2)
	require.NoError(t, err)
	_, err = svc.CreateTopic("Primeiro", "", 1)
	require.NoError(t, err)

	topics, err := svc.ListTopics()
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "Primeiro", topics[0].Nome)
}
