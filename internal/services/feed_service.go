package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/models"
	"gorm.io/gorm"
)

// SystemAccount is the username whose posts feed the unified stream.
const SystemAccount = "gramatike"

// Fixed keyword list gating EduContent inclusion in the unified feed.
var eduFeedKeywords = []string{
	"genero neutro",
	"gênero neutro",
	"linguagem neutra",
	"rita von hunty",
	"rita von",
}

const (
	feedPostLimit     = 40
	feedNovidadeLimit = 10
	feedDynamicLimit  = 10
	feedTitleMax      = 60
	feedSnippetMax    = 200
	feedTagMax        = 8
)

// FeedItem is one entry of the unified stream.
type FeedItem struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Snippet   string    `json:"snippet"`
	Tags      []string  `json:"tags"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source"`
}

type FeedService struct {
	db *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db}
}

// Compose merges system-account posts, recent novidades and active
// dynamics (plus opt-in EduContent) into one stream sorted newest first.
func (s *FeedService) Compose(q string, includeEdu bool) ([]FeedItem, error) {
	q = strings.TrimSpace(q)
	items := make([]FeedItem, 0, feedPostLimit+feedNovidadeLimit+feedDynamicLimit)

	posts, err := s.systemPosts(q)
	if err != nil {
		return nil, err
	}
	items = append(items, posts...)

	novidades, err := s.novidades()
	if err != nil {
		return nil, err
	}
	items = append(items, novidades...)

	dynamics, err := s.activeDynamics()
	if err != nil {
		return nil, err
	}
	items = append(items, dynamics...)

	if includeEdu {
		edu, err := s.eduContent(q)
		if err != nil {
			return nil, err
		}
		items = append(items, edu...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *FeedService) systemPosts(q string) ([]FeedItem, error) {
	query := s.db.Model(&models.Post{}).
		Joins("JOIN users ON users.id = posts.author_id").
		Where("users.username = ?", SystemAccount).
		Where("posts.is_deleted = ?", false)
	if q != "" {
		query = query.Where("LOWER(posts.content) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var posts []models.Post
	if err := query.Order("posts.created_at DESC").Limit(feedPostLimit).Find(&posts).Error; err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, FeedItem{
			ID:        p.ID,
			Title:     ellipsize(firstLine(p.Content), feedTitleMax),
			Snippet:   ellipsize(p.Content, feedSnippetMax),
			Tags:      extractTags(p.Content),
			URL:       fmt.Sprintf("/post/%s", p.ID),
			CreatedAt: p.CreatedAt,
			Source:    "post",
		})
	}
	return items, nil
}

func (s *FeedService) novidades() ([]FeedItem, error) {
	var rows []models.EduNovidade
	if err := s.db.Order("created_at DESC").Limit(feedNovidadeLimit).Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(rows))
	for _, n := range rows {
		url := n.Link
		if url == "" {
			url = "/educacao"
		}
		items = append(items, FeedItem{
			ID:        n.ID,
			Title:     ellipsize(n.Titulo, feedTitleMax),
			Snippet:   ellipsize(n.Descricao, feedSnippetMax),
			Tags:      extractTags(n.Descricao),
			URL:       url,
			CreatedAt: n.CreatedAt,
			Source:    "novidade",
		})
	}
	return items, nil
}

// feedDynamic mirrors the columns the feed needs from the dynamics table.
// Scanning a narrow struct keeps this package independent of the plugin.
type feedDynamic struct {
	ID        uuid.UUID
	Titulo    string
	Descricao string
	CreatedAt time.Time
}

func (s *FeedService) activeDynamics() ([]FeedItem, error) {
	var rows []feedDynamic
	err := s.db.Table("dynamics").
		Where("active = ?", true).
		Order("created_at DESC").
		Limit(feedDynamicLimit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(rows))
	for _, d := range rows {
		items = append(items, FeedItem{
			ID:        d.ID,
			Title:     ellipsize(d.Titulo, feedTitleMax),
			Snippet:   ellipsize(d.Descricao, feedSnippetMax),
			Tags:      extractTags(d.Descricao),
			URL:       fmt.Sprintf("/dinamicas/%s", d.ID),
			CreatedAt: d.CreatedAt,
			Source:    "dinamica",
		})
	}
	return items, nil
}

func (s *FeedService) eduContent(q string) ([]FeedItem, error) {
	query := s.db.Model(&models.EduContent{})

	var clauses []string
	var args []interface{}
	for _, kw := range eduFeedKeywords {
		clauses = append(clauses, "LOWER(titulo) LIKE ? OR LOWER(resumo) LIKE ?")
		pattern := "%" + strings.ToLower(kw) + "%"
		args = append(args, pattern, pattern)
	}
	query = query.Where(strings.Join(clauses, " OR "), args...)

	if q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(titulo) LIKE ? OR LOWER(resumo) LIKE ?", pattern, pattern)
	}

	var rows []models.EduContent
	if err := query.Order("created_at DESC").Limit(feedNovidadeLimit).Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(rows))
	for _, c := range rows {
		snippet := c.Resumo
		if snippet == "" {
			snippet = c.Corpo
		}
		url := c.URL
		if url == "" {
			url = fmt.Sprintf("/educacao/%s", c.ID)
		}
		items = append(items, FeedItem{
			ID:        c.ID,
			Title:     ellipsize(c.Titulo, feedTitleMax),
			Snippet:   ellipsize(snippet, feedSnippetMax),
			Tags:      extractTags(c.Resumo),
			URL:       url,
			CreatedAt: c.CreatedAt,
			Source:    c.Tipo,
		})
	}
	return items, nil
}

var tagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// extractTags pulls up to 8 #tags from text, deduplicated, lowercased.
func extractTags(text string) []string {
	matches := tagPattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool)
	var tags []string
	for _, m := range matches {
		tag := "#" + strings.ToLower(m[1])
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
		if len(tags) == feedTagMax {
			break
		}
	}
	return tags
}

// ellipsize cuts s to max runes, appending "…" when truncated.
func ellipsize(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
