package dynamics

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/models"
	"github.com/gramatike/gramatike-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupService(t *testing.T) (*Service, *MemorySink, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&Dynamic{}, &Response{}, &models.BlockedWord{}))

	sink := NewMemorySink()
	return NewService(db, services.NewModerationService(db), sink), sink, db
}

func pollConfig(t *testing.T, options ...string) datatypes.JSON {
	t.Helper()
	parts := make([]string, len(options))
	for i, o := range options {
		parts[i] = `"` + o + `"`
	}
	return datatypes.JSON(`{"options":[` + strings.Join(parts, ",") + `]}`)
}

func TestValidateConfig(t *testing.T) {
	assert.ErrorIs(t, ValidateConfig("quiz", datatypes.JSON(`{}`)), ErrUnknownTipo)
	assert.ErrorIs(t, ValidateConfig(TipoPoll, datatypes.JSON(`{"options":["só uma"]}`)), ErrInvalidConfig)
	assert.ErrorIs(t, ValidateConfig(TipoPoll, datatypes.JSON(`{"options":["a","   "]}`)), ErrInvalidConfig)
	assert.ErrorIs(t, ValidateConfig(TipoPoll, datatypes.JSON(`{"options":["a","b"],"extra":1}`)), ErrInvalidConfig)
	assert.NoError(t, ValidateConfig(TipoPoll, datatypes.JSON(`{"options":["a","b"]}`)))

	assert.ErrorIs(t, ValidateConfig(TipoForm, datatypes.JSON(`{"fields":[]}`)), ErrInvalidConfig)
	assert.ErrorIs(t, ValidateConfig(TipoForm, datatypes.JSON(`{"fields":[{"id":1,"type":"short","label":" "}]}`)), ErrInvalidConfig)
	assert.ErrorIs(t, ValidateConfig(TipoForm, datatypes.JSON(`{"fields":[{"id":1,"type":"dropdown","label":"x"}]}`)), ErrInvalidConfig)
	assert.ErrorIs(t, ValidateConfig(TipoForm, datatypes.JSON(`{"fields":[{"id":1,"type":"multiple_choice","label":"x","options":["a"]}]}`)), ErrInvalidConfig)
	assert.NoError(t, ValidateConfig(TipoForm, datatypes.JSON(`{"fields":[{"id":1,"type":"multiple_choice","label":"x","options":["a","b"]}]}`)))

	assert.NoError(t, ValidateConfig(TipoOneWord, nil))
	assert.NoError(t, ValidateConfig(TipoOneWord, datatypes.JSON(`{}`)))
}

func TestCreateValidatesTituloAndConfig(t *testing.T) {
	svc, _, _ := setupService(t)
	admin := uuid.New()

	_, err := svc.Create(admin, TipoPoll, "  ", "", pollConfig(t, "sim", "não"))
	assert.ErrorIs(t, err, services.ErrEmptyContent)

	_, err = svc.Create(admin, TipoPoll, "Enquete", "", datatypes.JSON(`{"options":["só uma"]}`))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	d, err := svc.Create(admin, TipoPoll, "Enquete", " desc ", pollConfig(t, "sim", "não"))
	require.NoError(t, err)
	assert.True(t, d.Active)
	assert.Equal(t, "desc", d.Descricao)
}

func TestRespondPoll(t *testing.T) {
	svc, sink, _ := setupService(t)
	admin, voter := uuid.New(), uuid.New()

	d, err := svc.Create(admin, TipoPoll, "Enquete", "", pollConfig(t, "sim", "não"))
	require.NoError(t, err)

	_, err = svc.Respond(d.ID, voter, datatypes.JSON(`{"option":7}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = svc.Respond(d.ID, voter, datatypes.JSON(`{"option":0,"extra":true}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = svc.Respond(d.ID, voter, datatypes.JSON(`{"option":0}`))
	require.NoError(t, err)

	rows := sink.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "option_index=0; option_text=sim", rows[0].Content)
	assert.Equal(t, TipoPoll, rows[0].Tipo)

	_, err = svc.Respond(d.ID, voter, datatypes.JSON(`{"option":1}`))
	assert.ErrorIs(t, err, ErrAlreadyResponded)

	responded, err := svc.HasResponded(d.ID, voter)
	require.NoError(t, err)
	assert.True(t, responded)
}

func TestRespondInactiveDynamic(t *testing.T) {
	svc, _, _ := setupService(t)
	admin := uuid.New()

	d, err := svc.Create(admin, TipoPoll, "Enquete", "", pollConfig(t, "sim", "não"))
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(d.ID, false))

	_, err = svc.Respond(d.ID, uuid.New(), datatypes.JSON(`{"option":0}`))
	assert.ErrorIs(t, err, ErrDynamicInactive)

	_, err = svc.Respond(uuid.New(), uuid.New(), datatypes.JSON(`{"option":0}`))
	assert.ErrorIs(t, err, ErrDynamicNotFound)
}

func TestRespondOneWord(t *testing.T) {
	svc, _, _ := setupService(t)
	admin := uuid.New()

	d, err := svc.Create(admin, TipoOneWord, "Uma palavra", "", nil)
	require.NoError(t, err)

	_, err = svc.Respond(d.ID, uuid.New(), datatypes.JSON(`{"word1":"   "}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	long := strings.Repeat("a", maxOneWordLen+1)
	_, err = svc.Respond(d.ID, uuid.New(), datatypes.JSON(`{"word1":"`+long+`"}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = svc.Respond(d.ID, uuid.New(), datatypes.JSON(`{"word1":"merda"}`))
	var modErr *services.ModerationError
	assert.ErrorAs(t, err, &modErr)

	_, err = svc.Respond(d.ID, uuid.New(), datatypes.JSON(`{"word1":"inclusão","word2":"respeito"}`))
	require.NoError(t, err)
}

func TestRespondForm(t *testing.T) {
	svc, sink, _ := setupService(t)
	admin := uuid.New()

	cfg := datatypes.JSON(`{"fields":[
		{"id":1,"type":"short","label":"Nome","required":true},
		{"id":2,"type":"paragraph","label":"Comentário"}
	]}`)
	d, err := svc.Create(admin, TipoForm, "Formulário", "", cfg)
	require.NoError(t, err)

	_, err = svc.Respond(d.ID, uuid.New(), datatypes.JSON(`{"answers":[{"id":2,"value":"sem nome"}]}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = svc.Respond(d.ID, uuid.New(), datatypes.JSON(`{"answers":[{"id":1,"value":"Ana"},{"id":2,"value":"adorei"}]}`))
	require.NoError(t, err)

	rows := sink.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Nome=Ana | Comentário=adorei", rows[0].Content)
}

func TestAggregateOneWord(t *testing.T) {
	svc, _, db := setupService(t)
	admin := uuid.New()

	d, err := svc.Create(admin, TipoOneWord, "Uma palavra", "", nil)
	require.NoError(t, err)

	_, err = svc.Respond(d.ID, uuid.New(), datatypes.JSON(`{"word1":"Inclusão"}`))
	require.NoError(t, err)
	_, err = svc.Respond(d.ID, uuid.New(), datatypes.JSON(`{"word1":"inclusão","word2":"respeito"}`))
	require.NoError(t, err)

	// Legacy clients sent a single "word" key.
	legacy := Response{DynamicID: d.ID, AuthorID: uuid.New(), Payload: datatypes.JSON(`{"word":"respeito"}`)}
	require.NoError(t, db.Create(&legacy).Error)

	counts, err := svc.AggregateOneWord(d.ID)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, WordCount{Word: "inclusão", Count: 2}, counts[0])
	assert.Equal(t, WordCount{Word: "respeito", Count: 2}, counts[1])
}

func TestAggregatePoll(t *testing.T) {
	svc, _, _ := setupService(t)
	admin := uuid.New()

	d, err := svc.Create(admin, TipoPoll, "Enquete", "", pollConfig(t, "sim", "não", "talvez"))
	require.NoError(t, err)

	_, err = svc.Respond(d.ID, uuid.New(), datatypes.JSON(`{"option":0}`))
	require.NoError(t, err)
	_, err = svc.Respond(d.ID, uuid.New(), datatypes.JSON(`{"option":2}`))
	require.NoError(t, err)
	_, err = svc.Respond(d.ID, uuid.New(), datatypes.JSON(`{"option":2}`))
	require.NoError(t, err)

	counts, err := svc.AggregatePoll(d)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 2}, counts)
}

func TestExportCSV(t *testing.T) {
	svc, _, _ := setupService(t)
	admin := uuid.New()

	d, err := svc.Create(admin, TipoPoll, "Enquete", "", pollConfig(t, "sim", "não"))
	require.NoError(t, err)
	_, err = svc.Respond(d.ID, uuid.New(), datatypes.JSON(`{"option":1}`))
	require.NoError(t, err)

	data, err := svc.ExportCSV(d.ID)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "option_index=1; option_text=não", records[1][4])
}

func TestDeleteRemovesResponses(t *testing.T) {
	svc, _, db := setupService(t)
	admin := uuid.New()

	d, err := svc.Create(admin, TipoPoll, "Enquete", "", pollConfig(t, "sim", "não"))
	require.NoError(t, err)
	_, err = svc.Respond(d.ID, uuid.New(), datatypes.JSON(`{"option":0}`))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(d.ID))
	assert.ErrorIs(t, svc.Delete(d.ID), ErrDynamicNotFound)

	var count int64
	require.NoError(t, db.Model(&Response{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListFiltersActive(t *testing.T) {
	svc, _, _ := setupService(t)
	admin := uuid.New()

	a, err := svc.Create(admin, TipoPoll, "Ativa", "", pollConfig(t, "sim", "não"))
	require.NoError(t, err)
	b, err := svc.Create(admin, TipoPoll, "Encerrada", "", pollConfig(t, "sim", "não"))
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(b.ID, false))

	active, err := svc.List(true, 0)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, a.ID, active[0].ID)

	all, err := svc.List(false, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
