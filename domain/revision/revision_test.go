package revision_test

import (
	"testing"

	"github.com/artpar/wizide/domain/revision"
)

func TestDigest(t *testing.T) {
	a := revision.Digest([]byte(`{"id":"main"}`))
	b := revision.Digest([]byte(`{"id":"main"}`))
	c := revision.Digest([]byte(`{"id":"other"}`))

	if a != b {
		t.Errorf("digest not stable: %s != %s", a, b)
	}
	if a == c {
		t.Error("different content produced the same digest")
	}
	if len(a) != revision.Size*2 {
		t.Errorf("len(digest) = %d, want %d", len(a), revision.Size*2)
	}
}

func TestMatches(t *testing.T) {
	content := []byte("print('hi')")
	tests := []struct {
		name   string
		digest string
		want   bool
	}{
		{"empty digest", "", true},
		{"same content", revision.Digest(content), true},
		{"stale digest", revision.Digest([]byte("old")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := revision.Matches(tt.digest, content); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
