package dynamics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CSV columns shared by the per-dynamic files and the on-demand export.
var csvHeader = []string{"timestamp", "dynamic_id", "author_id", "tipo", "content"}

// saoPaulo is the export timezone; UTC when the zone database lacks it.
var saoPaulo = func() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// Row is one exported response line.
type Row struct {
	Timestamp time.Time
	DynamicID uuid.UUID
	AuthorID  uuid.UUID
	Tipo      string
	Content   string
}

func (r Row) record() []string {
	return []string{
		r.Timestamp.In(saoPaulo).Format(time.RFC3339),
		r.DynamicID.String(),
		r.AuthorID.String(),
		r.Tipo,
		r.Content,
	}
}

// ResponseSink receives each successful response. Sinks are best-effort:
// a failed append never fails the request.
type ResponseSink interface {
	Append(row Row) error
}

// CSVSink appends rows to dynamics/dyn_<id>.csv, writing the header when
// the file is new. Appends are serialized; each write is one full line.
type CSVSink struct {
	dir string
	mu  sync.Mutex
}

func NewCSVSink(dir string) *CSVSink {
	return &CSVSink{dir: dir}
}

func (s *CSVSink) path(dynamicID uuid.UUID) string {
	return filepath.Join(s.dir, fmt.Sprintf("dyn_%s.csv", dynamicID))
}

func (s *CSVSink) Append(row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	path := s.path(row.DynamicID)
	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(csvHeader); err != nil {
			return err
		}
	}
	if err := w.Write(row.record()); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// MemorySink collects rows in memory. Used in tests.
type MemorySink struct {
	mu   sync.Mutex
	rows []Row
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Append(row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return nil
}

func (s *MemorySink) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}
