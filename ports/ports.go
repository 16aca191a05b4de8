// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"errors"
	"net/http"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Random abstracts randomness for testability.
type Random interface {
	// Bytes generates n random bytes.
	Bytes(n int) ([]byte, error)
	// Identifier generates an n character identifier whose first
	// character is a letter.
	Identifier(n int) (string, error)
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// Hasher hashes API tokens.
type Hasher interface {
	Hash(plaintext string) ([]byte, error)
	Compare(hash []byte, plaintext string) bool
}

// -----------------------------------------------------------------------------
// Remote Store Ports
// -----------------------------------------------------------------------------

// ErrNotFound is returned by store helpers when a path does not exist.
var ErrNotFound = errors.New("not found")

// Response is the outcome of a remote store call. A non-success Status is
// not an error: fetch treats it as "no data", save/rename/delete treat it
// as "operation rejected". Errors are reserved for transport faults.
type Response struct {
	Status  int
	Payload []byte
}

// OK reports whether the response carries a success status.
func (r Response) OK() bool {
	return r.Status >= http.StatusOK && r.Status < http.StatusMultipleChoices
}

// Store is the remote store collaborator: a path-addressed content store.
type Store interface {
	// Fetch returns the content stored at path.
	Fetch(ctx context.Context, path string) (Response, error)

	// Save writes content at path, creating it if needed.
	Save(ctx context.Context, path string, content []byte) (Response, error)

	// Rename moves every path within from to the same position within to.
	// Renaming onto an existing entity is rejected with 400.
	Rename(ctx context.Context, from, to string) (Response, error)

	// Delete removes path and everything within it.
	Delete(ctx context.Context, path string) (Response, error)

	// Exists reports whether anything is stored within path.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns the distinct child segments directly below prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Builder triggers a rebuild of the artifacts derived from path.
type Builder interface {
	Build(ctx context.Context, path string, entire bool) (Response, error)
}

// -----------------------------------------------------------------------------
// Presentation Ports
// -----------------------------------------------------------------------------

// Notifier presents short success/info/error messages to the user.
type Notifier interface {
	Success(ctx context.Context, message string)
	Info(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// Previewer navigates the live preview surface to a view URI.
type Previewer interface {
	Move(ctx context.Context, uri string) error
}
