package idgen_test

import (
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/artpar/wizide/adapters/idgen"
)

var uuidV4 = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestUUID_New(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"plain", ""},
		{"prefixed", "ed_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := idgen.UUID{Prefix: tt.prefix}.New()
			if !strings.HasPrefix(id, tt.prefix) {
				t.Fatalf("ID %s missing prefix %q", id, tt.prefix)
			}
			if !uuidV4.MatchString(strings.TrimPrefix(id, tt.prefix)) {
				t.Errorf("ID %s doesn't match UUID v4 format", id)
			}
		})
	}
}

func TestUUID_Unique(t *testing.T) {
	g := idgen.UUID{}
	seen := make(map[string]bool)
	for range 1000 {
		id := g.New()
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestSequential_New(t *testing.T) {
	g := idgen.NewSequential("ed-")

	for _, want := range []string{"ed-1", "ed-2", "ed-3"} {
		if got := g.New(); got != want {
			t.Errorf("New() = %s, want %s", got, want)
		}
	}

	g.Reset()
	if got := g.New(); got != "ed-1" {
		t.Errorf("after Reset New() = %s, want ed-1", got)
	}
}

func TestSequential_Concurrent(t *testing.T) {
	g := idgen.NewSequential("")
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]bool)
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				id := g.New()
				mu.Lock()
				if seen[id] {
					t.Errorf("duplicate ID: %s", id)
				}
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != 1000 {
		t.Errorf("generated %d ids, want 1000", len(seen))
	}
}
