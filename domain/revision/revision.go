// Package revision identifies stored content revisions.
package revision

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Size is the digest length in bytes.
const Size = 16

// Digest returns the hex encoded BLAKE2b digest of content. Equal content
// always yields the same digest, so it doubles as an ETag.
func Digest(content []byte) string {
	h, err := blake2b.New(Size, nil)
	if err != nil {
		// only possible for an invalid size or key
		panic(err)
	}
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// Matches reports whether digest identifies content. An empty digest
// matches anything.
func Matches(digest string, content []byte) bool {
	return digest == "" || digest == Digest(content)
}
