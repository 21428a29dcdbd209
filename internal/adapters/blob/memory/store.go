package memory

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"
	"sync"

	"pet-care-log/internal/ports/store"
)

type object struct {
	body        []byte
	contentType string
}

// Store guarda los binarios en memoria. Sirve para dev y tests.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
}

// New arma el store; baseURL es el prefijo de las URLs públicas
// (p.ej. "http://localhost:8080/storage").
func New(baseURL string) *Store {
	return &Store{
		objects: make(map[string]object),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func key(bucket, path string) string {
	return strings.Trim(bucket, "/") + "/" + strings.Trim(path, "/")
}

func (s *Store) Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(bucket, path)
	if _, exists := s.objects[k]; exists {
		return store.ErrConflict
	}
	s.objects[k] = object{body: body, contentType: contentType}
	return nil
}

func (s *Store) PublicURL(bucket, path string) string {
	segs := strings.Split(key(bucket, path), "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return s.baseURL + "/" + strings.Join(segs, "/")
}

func (s *Store) Open(ctx context.Context, bucket, path string) (io.ReadCloser, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.objects[key(bucket, path)]
	if !ok {
		return nil, "", store.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(o.body)), o.contentType, nil
}
