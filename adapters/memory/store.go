// Package memory provides in-memory implementations of the collaborator
// ports, used by tests and by the "memory" store mode.
package memory

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"github.com/artpar/wizide/domain/vpath"
	"github.com/artpar/wizide/ports"
)

// Store is an in-memory implementation of ports.Store.
type Store struct {
	mu    sync.RWMutex
	files map[string][]byte // by cleaned path
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		files: make(map[string][]byte),
	}
}

// Fetch returns the content stored at path, or 404.
func (s *Store) Fetch(ctx context.Context, path string) (ports.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.files[vpath.Clean(path)]
	if !ok {
		return ports.Response{Status: http.StatusNotFound}, nil
	}
	out := make([]byte, len(content))
	copy(out, content)
	return ports.Response{Status: http.StatusOK, Payload: out}, nil
}

// Save stores content at path.
func (s *Store) Save(ctx context.Context, path string, content []byte) (ports.Response, error) {
	p := vpath.Clean(path)
	if p == "" {
		return ports.Response{Status: http.StatusBadRequest}, nil
	}

	stored := make([]byte, len(content))
	copy(stored, content)

	s.mu.Lock()
	s.files[p] = stored
	s.mu.Unlock()

	return ports.Response{Status: http.StatusOK}, nil
}

// Rename moves every file within from to the same position within to.
// It answers 404 when from is empty and 400 when to is already in use or
// either path does not address an entity.
func (s *Store) Rename(ctx context.Context, from, to string) (ports.Response, error) {
	from, to = vpath.Clean(from), vpath.Clean(to)
	if vpath.Depth(from) <= vpath.SegmentEntity || vpath.Depth(to) <= vpath.SegmentEntity {
		return ports.Response{Status: http.StatusBadRequest}, nil
	}
	if from == to {
		return ports.Response{Status: http.StatusOK}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var moving []string
	for p := range s.files {
		if vpath.Within(p, to) {
			return ports.Response{Status: http.StatusBadRequest}, nil
		}
		if vpath.Within(p, from) {
			moving = append(moving, p)
		}
	}
	if len(moving) == 0 {
		return ports.Response{Status: http.StatusNotFound}, nil
	}

	for _, p := range moving {
		s.files[vpath.Rebase(p, from, to)] = s.files[p]
		delete(s.files, p)
	}
	return ports.Response{Status: http.StatusOK}, nil
}

// Delete removes path and everything within it.
func (s *Store) Delete(ctx context.Context, path string) (ports.Response, error) {
	p := vpath.Clean(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k := range s.files {
		if vpath.Within(k, p) {
			delete(s.files, k)
			removed++
		}
	}
	if removed == 0 {
		return ports.Response{Status: http.StatusNotFound}, nil
	}
	return ports.Response{Status: http.StatusOK}, nil
}

// Exists reports whether anything is stored within path.
func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	p := vpath.Clean(path)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for k := range s.files {
		if vpath.Within(k, p) {
			return true, nil
		}
	}
	return false, nil
}

// List returns the distinct child segments directly below prefix, sorted.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	root := vpath.Split(prefix)

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	for k := range s.files {
		parts := vpath.Split(k)
		if len(parts) <= len(root) || !hasSegments(parts, root) {
			continue
		}
		seen[parts[len(root)]] = true
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// Len returns the number of stored files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// Paths returns every stored path, sorted.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func hasSegments(parts, root []string) bool {
	for i, seg := range root {
		if parts[i] != seg {
			return false
		}
	}
	return true
}

var _ ports.Store = (*Store)(nil)
