// Package hasher hashes and verifies the API bearer token.
package hasher

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/artpar/wizide/ports"
)

// TokenLength is the length of tokens produced by NewToken.
const TokenLength = 40

// Bcrypt uses bcrypt for hashing.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a bcrypt hasher with the given cost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash generates a bcrypt hash from plaintext.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
}

// Compare checks if plaintext matches hash.
func (h *Bcrypt) Compare(hash []byte, plaintext string) bool {
	if len(hash) == 0 || plaintext == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(plaintext)) == nil
}

var _ ports.Hasher = (*Bcrypt)(nil)

// NewToken generates an API token and its hash. The token is shown once;
// only the hash is kept in configuration.
func NewToken(random ports.Random, h ports.Hasher) (token string, hash string, err error) {
	token, err = random.Identifier(TokenLength)
	if err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	sum, err := h.Hash(token)
	if err != nil {
		return "", "", fmt.Errorf("hash token: %w", err)
	}
	return token, string(sum), nil
}

// Fake provides a no-op hasher for testing (NOT FOR PRODUCTION).
type Fake struct{}

// Hash returns the plaintext as bytes.
func (Fake) Hash(plaintext string) ([]byte, error) {
	return []byte(plaintext), nil
}

// Compare does simple equality check.
func (Fake) Compare(hash []byte, plaintext string) bool {
	return len(hash) > 0 && string(hash) == plaintext
}

var _ ports.Hasher = Fake{}
