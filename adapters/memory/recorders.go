package memory

import (
	"context"
	"net/http"
	"sync"

	"github.com/artpar/wizide/ports"
)

// Notice is one recorded notification.
type Notice struct {
	Level   string
	Message string
}

// Notifier records notifications instead of presenting them.
type Notifier struct {
	mu      sync.Mutex
	notices []Notice
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Success(ctx context.Context, message string) { n.add("success", message) }
func (n *Notifier) Info(ctx context.Context, message string)    { n.add("info", message) }
func (n *Notifier) Error(ctx context.Context, message string)   { n.add("error", message) }

func (n *Notifier) add(level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, Notice{Level: level, Message: message})
}

// Notices returns every recorded notification in order.
func (n *Notifier) Notices() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notice, len(n.notices))
	copy(out, n.notices)
	return out
}

// Reset forgets recorded notifications.
func (n *Notifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = nil
}

var _ ports.Notifier = (*Notifier)(nil)

// Build is one recorded build request.
type Build struct {
	Path   string
	Entire bool
}

// Builder records build requests and answers with a preset status.
type Builder struct {
	mu     sync.Mutex
	builds []Build
	status int
	err    error
}

// NewBuilder creates a builder that always succeeds.
func NewBuilder() *Builder {
	return &Builder{status: http.StatusOK}
}

// Fail makes subsequent builds answer with status, or err if non-nil.
func (b *Builder) Fail(status int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = status
	b.err = err
}

// Build records the request.
func (b *Builder) Build(ctx context.Context, path string, entire bool) (ports.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.builds = append(b.builds, Build{Path: path, Entire: entire})
	if b.err != nil {
		return ports.Response{}, b.err
	}
	return ports.Response{Status: b.status}, nil
}

// Builds returns every recorded build in order.
func (b *Builder) Builds() []Build {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Build, len(b.builds))
	copy(out, b.builds)
	return out
}

var _ ports.Builder = (*Builder)(nil)

// Previewer records preview navigation.
type Previewer struct {
	mu   sync.Mutex
	uris []string
}

// NewPreviewer creates an empty previewer.
func NewPreviewer() *Previewer {
	return &Previewer{}
}

// Move records uri.
func (p *Previewer) Move(ctx context.Context, uri string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.uris = append(p.uris, uri)
	return nil
}

// URIs returns every recorded uri in order.
func (p *Previewer) URIs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.uris))
	copy(out, p.uris)
	return out
}

var _ ports.Previewer = (*Previewer)(nil)
