package storage

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gramatike/gramatike-api/internal/config"
)

// Uploader stores a blob at a bucket-relative path and returns its public
// URL, or "" when the backend is unavailable. Callers fall back to local
// storage on "".
type Uploader interface {
	Put(objectPath string, data []byte, contentType string) string
}

// SupabaseStorage talks to the Supabase storage REST API. Uploads use
// x-upsert so re-running a path overwrites instead of failing.
type SupabaseStorage struct {
	baseURL    string
	bucket     string
	serviceKey string
	client     *http.Client
}

func NewSupabase(cfg *config.Config) *SupabaseStorage {
	return &SupabaseStorage{
		baseURL:    strings.TrimRight(cfg.SupabaseURL, "/"),
		bucket:     cfg.SupabaseBucket,
		serviceKey: cfg.SupabaseServiceKey,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *SupabaseStorage) Put(objectPath string, data []byte, contentType string) string {
	if s.baseURL == "" || s.serviceKey == "" {
		return ""
	}
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, strings.TrimLeft(objectPath, "/"))
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return ""
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Warn("storage upload failed", "path", objectPath, "error", err)
		return ""
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("storage upload rejected", "path", objectPath, "status", resp.StatusCode)
		return ""
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, strings.TrimLeft(objectPath, "/"))
}

// LocalFallback persists blobs under a local directory when the remote
// backend declines. It may sit on a read-only filesystem; failures are
// soft and return "".
type LocalFallback struct {
	dir string
}

func NewLocalFallback(dir string) *LocalFallback {
	return &LocalFallback{dir: dir}
}

func (l *LocalFallback) Put(objectPath string, data []byte, _ string) string {
	full := filepath.Join(l.dir, filepath.FromSlash(path.Clean("/"+objectPath)))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		slog.Warn("local storage unavailable", "path", full, "error", err)
		return ""
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		slog.Warn("local storage write failed", "path", full, "error", err)
		return ""
	}
	return "/" + strings.TrimLeft(filepath.ToSlash(filepath.Join(l.dir, objectPath)), "/")
}

// Chain tries each uploader in order and returns the first public URL.
type Chain []Uploader

func (c Chain) Put(objectPath string, data []byte, contentType string) string {
	for _, u := range c {
		if url := u.Put(objectPath, data, contentType); url != "" {
			return url
		}
	}
	return ""
}

// Object path builders matching the bucket layout.

func AvatarPath(userID string, filename string) string {
	return fmt.Sprintf("avatars/%s/%d_%s", userID, time.Now().Unix(), sanitize(filename))
}

func PostImagePath(userID string, filename string) string {
	return fmt.Sprintf("posts/%s/%d_%s", userID, time.Now().Unix(), sanitize(filename))
}

func DivulgacaoPath(filename string) string {
	return fmt.Sprintf("divulgacao/%d_%s", time.Now().Unix(), sanitize(filename))
}

func sanitize(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		}
		return '_'
	}, name)
}
