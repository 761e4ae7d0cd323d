package services

import (
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/gramatike/gramatike-api/internal/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// Moderation categories, in evaluation priority order after custom terms.
const (
	CategoryHate      = "hate"
	CategoryProfanity = "profanity"
	CategoryNudity    = "nudity"
	CategoryCustom    = "custom"
)

// Decision is the outcome of a moderation check.
type Decision struct {
	Allowed  bool
	Category string
	Matched  string
}

var allowed = Decision{Allowed: true}

// Built-in Portuguese blocklists. Non-exhaustive; the goal is cutting
// obvious abuse, not perfect coverage.
var profanityPatterns = compileAll(
	`\b(porra|caralho|merda|pqp|vtnc|vsf|fdp|foda\s*-?se|arrombado|arrombada|otario|otaria)\b`,
)

var hatePatterns = compileAll(
	`\b(viado|bicha|traveco|sapat[ãa]o|preto\s*imundo|macaco|retardad[oa]|mongoloide)\b`,
)

var nudityPatterns = compileAll(
	`\b(nude|nudes|nudez|pelad[oa]s?)\b`,
	`\b(penis|pau|piroca|pica|vagina|buceta|clitoris|mamilos?|seios?|peitos?)\b`,
	`\b(porno|pornografia|nsfw|sexo\s*explicito)\b`,
	`\b(onlyfans|xvideos|pornhub|xnxx|redtube|rule34)\b`,
	`\b(pack\s*(do|da))\b`,
	`\b(18\+|\+18)\b`,
)

var rejectionMessages = map[string]string{
	CategoryHate:      "Não posso ajudar com discurso de ódio. Vamos manter um espaço seguro e respeitoso.",
	CategoryProfanity: "Não posso ajudar com xingamentos ou ofensas. Vamos manter um espaço seguro e respeitoso.",
	CategoryNudity:    "Não posso ajudar com conteúdo sexual ou nudez. Vamos manter um espaço seguro e respeitoso.",
}

const rejectionDefault = "Não posso ajudar com discurso de ódio, xingamentos ou conteúdo sexual/nudez. Vamos manter um espaço seguro e respeitoso."

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}

type customTerm struct {
	re       *regexp.Regexp
	category string
}

// ModerationService decides allow/deny for user-supplied text. Custom
// admin-defined terms are loaded from the database once and cached;
// Invalidate drops the cache after a blocklist mutation.
type ModerationService struct {
	db     *gorm.DB
	mu     sync.RWMutex
	custom []customTerm
	loaded bool
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

// Normalize lowercases, strips combining diacritics and collapses
// whitespace runs into single spaces.
func Normalize(text string) string {
	t, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), strings.ToLower(text))
	if err != nil {
		t = strings.ToLower(text)
	}
	return strings.Join(strings.Fields(t), " ")
}

// Check evaluates text against custom terms first, then hate, profanity
// and nudity lists. First match wins. Empty input is allowed, and a
// moderation subsystem failure never denies.
func (s *ModerationService) Check(text string) Decision {
	t := Normalize(text)
	if t == "" {
		return allowed
	}
	for _, term := range s.customTerms() {
		if m := term.re.FindString(t); m != "" {
			return Decision{Category: term.category, Matched: m}
		}
	}
	for _, re := range hatePatterns {
		if m := re.FindString(t); m != "" {
			return Decision{Category: CategoryHate, Matched: m}
		}
	}
	for _, re := range profanityPatterns {
		if m := re.FindString(t); m != "" {
			return Decision{Category: CategoryProfanity, Matched: m}
		}
	}
	for _, re := range nudityPatterns {
		if m := re.FindString(t); m != "" {
			return Decision{Category: CategoryNudity, Matched: m}
		}
	}
	return allowed
}

// CheckImageHint applies Check to a URL or filename. There is no
// pixel-level moderation.
func (s *ModerationService) CheckImageHint(pathOrURL string) Decision {
	return s.Check(pathOrURL)
}

// RejectionMessage returns the user-facing refusal string for a category.
func (s *ModerationService) RejectionMessage(category string) string {
	if msg, ok := rejectionMessages[category]; ok {
		return msg
	}
	return rejectionDefault
}

// Invalidate drops the custom-term cache. Called whenever a BlockedWord
// is added or removed.
func (s *ModerationService) Invalidate() {
	s.mu.Lock()
	s.custom = nil
	s.loaded = false
	s.mu.Unlock()
}

func (s *ModerationService) customTerms() []customTerm {
	s.mu.RLock()
	if s.loaded {
		terms := s.custom
		s.mu.RUnlock()
		return terms
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.custom
	}

	var rows []models.BlockedWord
	if s.db == nil {
		s.custom = nil
	} else if err := s.db.Find(&rows).Error; err != nil {
		// Leave loaded unset so the next check retries the query
		// instead of serving an empty list until an invalidation.
		slog.Warn("moderation custom terms unavailable", "error", err)
		s.custom = nil
		return nil
	} else {
		terms := make([]customTerm, 0, len(rows))
		for _, row := range rows {
			term := Normalize(row.Term)
			if term == "" {
				continue
			}
			var re *regexp.Regexp
			var err error
			if strings.Contains(term, " ") {
				re, err = regexp.Compile(`(?i)` + regexp.QuoteMeta(term))
			} else {
				re, err = regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
			}
			if err != nil {
				continue
			}
			category := strings.ToLower(row.Category)
			if category == "" {
				category = CategoryCustom
			}
			terms = append(terms, customTerm{re: re, category: category})
		}
		s.custom = terms
	}
	s.loaded = true
	return s.custom
}
