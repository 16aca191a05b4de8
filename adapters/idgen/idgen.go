// Package idgen provides editor id generators.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/artpar/wizide/ports"
)

// UUID generates random UUIDs, optionally prefixed.
type UUID struct {
	Prefix string
}

// New generates a new UUID v4.
func (g UUID) New() string {
	return g.Prefix + uuid.NewString()
}

var _ ports.IDGenerator = UUID{}

// Sequential generates prefix1, prefix2, ... for tests and reproducible
// listings.
type Sequential struct {
	prefix  string
	counter atomic.Uint64
}

// NewSequential creates a sequential ID generator.
func NewSequential(prefix string) *Sequential {
	return &Sequential{prefix: prefix}
}

// New generates the next sequential ID.
func (s *Sequential) New() string {
	return s.prefix + strconv.FormatUint(s.counter.Add(1), 10)
}

// Reset restarts the counter.
func (s *Sequential) Reset() {
	s.counter.Store(0)
}

var _ ports.IDGenerator = (*Sequential)(nil)
