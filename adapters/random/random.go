// Package random provides Random implementations.
package random

import (
	"crypto/rand"
	"math/big"
	"sync"

	"github.com/artpar/wizide/ports"
)

// Identifier alphabets. The first character is always a letter so the
// result is usable as a namespace or DOM id; 'j' is excluded.
const (
	leadAlphabet = "abcdefghiklmnopqrstuvwxyz"
	bodyAlphabet = "0123456789abcdefghiklmnopqrstuvwxyz"
)

// DefaultIdentifierLength is used when a non-positive length is requested.
const DefaultIdentifierLength = 16

// Real uses crypto/rand.
type Real struct{}

// Bytes generates n cryptographically secure random bytes.
func (Real) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// Identifier generates an n character identifier.
func (Real) Identifier(n int) (string, error) {
	return identifier(n, func(max int) (int, error) {
		v, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
		if err != nil {
			return 0, err
		}
		return int(v.Int64()), nil
	})
}

func identifier(n int, pick func(max int) (int, error)) (string, error) {
	if n <= 0 {
		n = DefaultIdentifierLength
	}
	out := make([]byte, n)
	for i := range out {
		alphabet := bodyAlphabet
		if i == 0 {
			alphabet = leadAlphabet
		}
		idx, err := pick(len(alphabet))
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx]
	}
	return string(out), nil
}

var _ ports.Random = Real{}

// Fake provides deterministic randomness for testing.
type Fake struct {
	mu      sync.Mutex
	counter int
}

// NewFake creates a fake random source.
func NewFake() *Fake {
	return &Fake{}
}

// Bytes returns bytes derived from an internal counter.
func (f *Fake) Bytes(n int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counter++
	b := make([]byte, n)
	for i := range b {
		b[i] = byte((f.counter + i) % 256)
	}
	return b, nil
}

// Identifier returns a deterministic identifier that still follows the
// alphabet rules of Real.
func (f *Fake) Identifier(n int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counter++
	step := f.counter
	return identifier(n, func(max int) (int, error) {
		step++
		return step % max, nil
	})
}

// Reset resets the fake to its initial state.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counter = 0
}

var _ ports.Random = (*Fake)(nil)
