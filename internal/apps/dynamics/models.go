package dynamics

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Dynamic types.
const (
	TipoPoll    = "poll"
	TipoOneWord = "oneword"
	TipoForm    = "form"
)

// Form field types.
const (
	FieldShort          = "short"
	FieldParagraph      = "paragraph"
	FieldMultipleChoice = "multiple_choice"
)

type Dynamic struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Tipo      string         `gorm:"size:20;not null" json:"tipo"`
	Titulo    string         `gorm:"size:255;not null" json:"titulo"`
	Descricao string         `gorm:"type:text" json:"descricao"`
	Config    datatypes.JSON `gorm:"type:jsonb" json:"config"`
	Active    bool           `gorm:"default:true;index" json:"active"`
	CreatedBy uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

func (d *Dynamic) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type Response struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DynamicID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_dynamic_responses_once" json:"dynamic_id"`
	AuthorID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_dynamic_responses_once" json:"author_id"`
	Payload   datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}

func (Response) TableName() string { return "dynamic_responses" }

func (r *Response) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Config shapes, a tagged union keyed by Dynamic.Tipo.

type PollConfig struct {
	Options []string `json:"options"`
}

type OneWordConfig struct{}

type FormField struct {
	ID       int      `json:"id"`
	Type     string   `json:"type"`
	Label    string   `json:"label"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

type FormConfig struct {
	Fields []FormField `json:"fields"`
}

var (
	ErrUnknownTipo   = errors.New("unknown dynamic type")
	ErrInvalidConfig = errors.New("invalid dynamic config")
)

func decodeStrict(raw []byte, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// ParseConfig is the total decoder for the config union: it rejects
// unknown tipos and malformed shapes.
func ParseConfig(tipo string, raw datatypes.JSON) (interface{}, error) {
	switch tipo {
	case TipoPoll:
		var cfg PollConfig
		if err := decodeStrict(raw, &cfg); err != nil {
			return nil, ErrInvalidConfig
		}
		return cfg, nil
	case TipoOneWord:
		if len(raw) > 0 && string(raw) != "null" && string(raw) != "{}" {
			var cfg OneWordConfig
			if err := decodeStrict(raw, &cfg); err != nil {
				return nil, ErrInvalidConfig
			}
		}
		return OneWordConfig{}, nil
	case TipoForm:
		var cfg FormConfig
		if err := decodeStrict(raw, &cfg); err != nil {
			return nil, ErrInvalidConfig
		}
		return cfg, nil
	}
	return nil, ErrUnknownTipo
}

// ValidateConfig enforces the per-type creation rules.
func ValidateConfig(tipo string, raw datatypes.JSON) error {
	parsed, err := ParseConfig(tipo, raw)
	if err != nil {
		return err
	}
	switch cfg := parsed.(type) {
	case PollConfig:
		options := nonEmpty(cfg.Options)
		if len(options) < 2 {
			return ErrInvalidConfig
		}
	case FormConfig:
		if len(cfg.Fields) == 0 {
			return ErrInvalidConfig
		}
		for _, f := range cfg.Fields {
			if strings.TrimSpace(f.Label) == "" {
				return ErrInvalidConfig
			}
			switch f.Type {
			case FieldShort, FieldParagraph:
			case FieldMultipleChoice:
				if len(nonEmpty(f.Options)) < 2 {
					return ErrInvalidConfig
				}
			default:
				return ErrInvalidConfig
			}
		}
	}
	return nil
}

func nonEmpty(items []string) []string {
	out := items[:0:0]
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	return out
}

// Payload shapes.

type PollPayload struct {
	Option int `json:"option"`
}

type OneWordPayload struct {
	Word1 string `json:"word1"`
	Word2 string `json:"word2,omitempty"`
	Word3 string `json:"word3,omitempty"`
}

// Words returns the non-empty words of the payload.
func (p OneWordPayload) Words() []string {
	var words []string
	for _, w := range []string{p.Word1, p.Word2, p.Word3} {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}

type FormAnswer struct {
	ID    int    `json:"id"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

type FormPayload struct {
	Answers []FormAnswer `json:"answers"`
}
