package dynamics

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/services"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxOneWordLen = 50

var (
	ErrDynamicNotFound  = errors.New("dynamic not found")
	ErrDynamicInactive  = errors.New("dynamic is no longer accepting responses")
	ErrAlreadyResponded = errors.New("user already responded to this dynamic")
	ErrInvalidPayload   = errors.New("invalid response payload")
)

type Service struct {
	db         *gorm.DB
	moderation *services.ModerationService
	sink       ResponseSink
}

func NewService(db *gorm.DB, moderation *services.ModerationService, sink ResponseSink) *Service {
	return &Service{db: db, moderation: moderation, sink: sink}
}

// Create validates the config for the tipo and persists the dynamic.
func (s *Service) Create(createdBy uuid.UUID, tipo, titulo, descricao string, config datatypes.JSON) (*Dynamic, error) {
	titulo = strings.TrimSpace(titulo)
	if titulo == "" {
		return nil, services.ErrEmptyContent
	}
	if err := ValidateConfig(tipo, config); err != nil {
		return nil, err
	}

	d := Dynamic{
		Tipo:      tipo,
		Titulo:    titulo,
		Descricao: strings.TrimSpace(descricao),
		Config:    config,
		Active:    true,
		CreatedBy: createdBy,
	}
	if err := s.db.Create(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Service) Get(id uuid.UUID) (*Dynamic, error) {
	var d Dynamic
	if err := s.db.First(&d, "id = ?", id).Error; err != nil {
		return nil, ErrDynamicNotFound
	}
	return &d, nil
}

func (s *Service) List(activeOnly bool, limit int) ([]Dynamic, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := s.db.Order("created_at DESC").Limit(limit)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var rows []Dynamic
	err := query.Find(&rows).Error
	return rows, err
}

// Respond validates the payload against the dynamic's config, enforces the
// one-response-per-user rule and appends to the CSV sink best-effort.
func (s *Service) Respond(dynamicID, authorID uuid.UUID, payload datatypes.JSON) (*Response, error) {
	d, err := s.Get(dynamicID)
	if err != nil {
		return nil, err
	}
	if !d.Active {
		return nil, ErrDynamicInactive
	}

	var count int64
	if err := s.db.Model(&Response{}).
		Where("dynamic_id = ? AND author_id = ?", dynamicID, authorID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyResponded
	}

	content, err := s.validateAndRender(d, payload)
	if err != nil {
		return nil, err
	}

	resp := Response{DynamicID: dynamicID, AuthorID: authorID, Payload: payload}
	if err := s.db.Create(&resp).Error; err != nil {
		// The unique index backstops concurrent double-submits.
		return nil, ErrAlreadyResponded
	}

	if err := s.sink.Append(Row{
		Timestamp: resp.CreatedAt,
		DynamicID: dynamicID,
		AuthorID:  authorID,
		Tipo:      d.Tipo,
		Content:   content,
	}); err != nil {
		slog.Warn("dynamic csv append failed", "dynamic_id", dynamicID, "error", err)
	}
	return &resp, nil
}

func (s *Service) validateAndRender(d *Dynamic, payload datatypes.JSON) (string, error) {
	switch d.Tipo {
	case TipoPoll:
		parsed, err := ParseConfig(d.Tipo, d.Config)
		if err != nil {
			return "", err
		}
		cfg := parsed.(PollConfig)
		var p PollPayload
		if err := decodeStrict(payload, &p); err != nil {
			return "", ErrInvalidPayload
		}
		if p.Option < 0 || p.Option >= len(cfg.Options) {
			return "", ErrInvalidPayload
		}
		return fmt.Sprintf("option_index=%d; option_text=%s", p.Option, cfg.Options[p.Option]), nil

	case TipoOneWord:
		var p OneWordPayload
		if err := decodeStrict(payload, &p); err != nil {
			return "", ErrInvalidPayload
		}
		words := p.Words()
		if len(words) == 0 {
			return "", ErrInvalidPayload
		}
		for _, w := range words {
			if len([]rune(w)) > maxOneWordLen {
				return "", ErrInvalidPayload
			}
			if dec := s.moderation.Check(w); !dec.Allowed {
				return "", &services.ModerationError{Decision: dec}
			}
		}
		return strings.Join(words, ","), nil

	case TipoForm:
		parsed, err := ParseConfig(d.Tipo, d.Config)
		if err != nil {
			return "", err
		}
		cfg := parsed.(FormConfig)
		var p FormPayload
		if err := decodeStrict(payload, &p); err != nil {
			return "", ErrInvalidPayload
		}

		byID := make(map[int]string, len(p.Answers))
		for _, a := range p.Answers {
			byID[a.ID] = strings.TrimSpace(a.Value)
		}
		var parts []string
		for _, f := range cfg.Fields {
			value := byID[f.ID]
			if f.Required && value == "" {
				return "", ErrInvalidPayload
			}
			if value == "" {
				continue
			}
			if f.Type == FieldShort || f.Type == FieldParagraph {
				if dec := s.moderation.Check(value); !dec.Allowed {
					return "", &services.ModerationError{Decision: dec}
				}
			}
			parts = append(parts, fmt.Sprintf("%s=%s", f.Label, value))
		}
		return strings.Join(parts, " | "), nil
	}
	return "", ErrUnknownTipo
}

// Aggregation.

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// AggregateOneWord counts words case-insensitively across word1..3, plus
// the legacy "word" key from older clients.
func (s *Service) AggregateOneWord(dynamicID uuid.UUID) ([]WordCount, error) {
	responses, err := s.Responses(dynamicID)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, r := range responses {
		var raw map[string]interface{}
		if err := json.Unmarshal(r.Payload, &raw); err != nil {
			continue
		}
		for _, key := range []string{"word1", "word2", "word3", "word"} {
			if v, ok := raw[key].(string); ok {
				if w := strings.ToLower(strings.TrimSpace(v)); w != "" {
					counts[w]++
				}
			}
		}
	}
	out := make([]WordCount, 0, len(counts))
	for w, n := range counts {
		out = append(out, WordCount{Word: w, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	return out, nil
}

// AggregatePoll returns per-option vote counts.
func (s *Service) AggregatePoll(d *Dynamic) ([]int, error) {
	parsed, err := ParseConfig(TipoPoll, d.Config)
	if err != nil {
		return nil, err
	}
	cfg := parsed.(PollConfig)
	counts := make([]int, len(cfg.Options))

	responses, err := s.Responses(d.ID)
	if err != nil {
		return nil, err
	}
	for _, r := range responses {
		var p PollPayload
		if err := json.Unmarshal(r.Payload, &p); err != nil {
			continue
		}
		if p.Option >= 0 && p.Option < len(counts) {
			counts[p.Option]++
		}
	}
	return counts, nil
}

func (s *Service) Responses(dynamicID uuid.UUID) ([]Response, error) {
	var rows []Response
	err := s.db.Where("dynamic_id = ?", dynamicID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

// HasResponded reports whether the user already answered.
func (s *Service) HasResponded(dynamicID, authorID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&Response{}).
		Where("dynamic_id = ? AND author_id = ?", dynamicID, authorID).
		Count(&count).Error
	return count > 0, err
}

// SetActive toggles the accepting state. Turning a dynamic off finalizes it.
func (s *Service) SetActive(id uuid.UUID, active bool) error {
	result := s.db.Model(&Dynamic{}).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDynamicNotFound
	}
	return nil
}

// Delete removes a dynamic and its responses, responses first.
func (s *Service) Delete(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dynamic_id = ?", id).Delete(&Response{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&Dynamic{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrDynamicNotFound
		}
		return nil
	})
}

// ExportCSV renders the full response file for a dynamic on demand.
func (s *Service) ExportCSV(id uuid.UUID) ([]byte, error) {
	d, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	responses, err := s.Responses(id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range responses {
		content, err := s.validateAndRenderExisting(d, r.Payload)
		if err != nil {
			content = ""
		}
		row := Row{
			Timestamp: r.CreatedAt,
			DynamicID: r.DynamicID,
			AuthorID:  r.AuthorID,
			Tipo:      d.Tipo,
			Content:   content,
		}
		if err := w.Write(row.record()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// validateAndRenderExisting renders persisted payloads without re-running
// moderation; they were checked at submit time.
func (s *Service) validateAndRenderExisting(d *Dynamic, payload datatypes.JSON) (string, error) {
	switch d.Tipo {
	case TipoOneWord:
		var raw map[string]interface{}
		if err := json.Unmarshal(payload, &raw); err != nil {
			return "", ErrInvalidPayload
		}
		var words []string
		for _, key := range []string{"word1", "word2", "word3", "word"} {
			if v, ok := raw[key].(string); ok {
				if w := strings.TrimSpace(v); w != "" {
					words = append(words, w)
				}
			}
		}
		return strings.Join(words, ","), nil
	default:
		return s.validateAndRender(d, payload)
	}
}
