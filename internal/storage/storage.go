// internal/storage/storage.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"

	custom_errors "portfolio-backend/internal/errors"
)

// Store keeps uploaded media objects under slash-separated keys.
type Store struct {
	fs      afero.Fs
	baseURL string
}

// NewStore serves objects from fs. baseURL is the public prefix objects are
// reachable under, e.g. "/media" or "https://cdn.example.com/media".
func NewStore(fs afero.Fs, baseURL string) *Store {
	return &Store{fs: fs, baseURL: strings.TrimRight(baseURL, "/")}
}

// NewDiskStore roots a Store at dir on the local filesystem.
func NewDiskStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return NewStore(afero.NewBasePathFs(afero.NewOsFs(), dir), baseURL), nil
}

func cleanKey(key string) (string, error) {
	k := path.Clean("/" + key)
	if k == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: bad object key %q", custom_errors.ErrValidation, key)
	}
	return k, nil
}

// Put writes r under key and returns the object's public URL.
func (s *Store) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.fs.MkdirAll(path.Dir(k), 0o755); err != nil {
		return "", fmt.Errorf("failed to store %s: %w", key, err)
	}
	if err := afero.WriteReader(s.fs, k, r); err != nil {
		_ = s.fs.Remove(k)
		return "", fmt.Errorf("failed to store %s: %w", key, err)
	}
	return s.URL(key), nil
}

// Delete removes the object at key. A missing object is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(k); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// URL returns the public URL of key.
func (s *Store) URL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// Handler serves stored objects. Mount it with the prefix stripped.
// Directory listings are not served.
func (s *Store) Handler() http.Handler {
	files := http.FileServer(afero.NewHttpFs(s.fs))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		files.ServeHTTP(w, r)
	})
}
