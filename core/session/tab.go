package session

import (
	"context"
	"fmt"
	"sync"
)

// DefaultTabName labels tabs created without a name.
const DefaultTabName = "code"

// TabSpec describes a tab to create inside an editor.
type TabSpec struct {
	Name    string
	ViewRef ViewRef
	Path    string
	Config  Config
	Meta    Meta
}

// DataFunc loads the content of a tab.
type DataFunc func(ctx context.Context, tab *Tab) (Payload, error)

// UpdateFunc persists an edited payload for a tab.
type UpdateFunc func(ctx context.Context, tab *Tab, payload Payload) error

// Tab is one addressable unit of content inside an Editor.
type Tab struct {
	editor  *Editor
	name    string
	viewRef ViewRef
	config  Config

	mu   sync.RWMutex
	path string
	meta Meta

	bindings Bindings[*Tab]
}

func newTab(e *Editor, spec TabSpec, defaultName string) *Tab {
	name := spec.Name
	if name == "" {
		name = defaultName
	}
	meta := Meta{}
	if spec.Meta != nil {
		meta = spec.Meta.clone()
	}
	return &Tab{
		editor:  e,
		name:    name,
		viewRef: spec.ViewRef,
		config:  spec.Config,
		path:    spec.Path,
		meta:    meta,
	}
}

// Name returns the display label.
func (t *Tab) Name() string { return t.name }

// ViewRef returns the rendering collaborator reference.
func (t *Tab) ViewRef() ViewRef { return t.viewRef }

// Config returns the rendering configuration.
func (t *Tab) Config() Config { return t.config }

// Editor returns the owning editor.
func (t *Tab) Editor() *Editor { return t.editor }

// Path returns the tab's current virtual path.
func (t *Tab) Path() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.path
}

// Move replaces the tab's path. Meta and bindings are untouched.
func (t *Tab) Move(newPath string) {
	t.mu.Lock()
	t.path = newPath
	t.mu.Unlock()
}

// SetMeta stores a scratch value.
func (t *Tab) SetMeta(key string, value any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.meta[key] = value
}

// Meta returns a copy of the scratch map.
func (t *Tab) Meta() Meta {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.meta.clone()
}

// MetaPayload returns the payload stored under key, or nil.
func (t *Tab) MetaPayload(key string) Payload {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.meta.Payload(key)
}

// Bind registers h for e and returns the tab for chaining.
func (t *Tab) Bind(e Event, h Handler[*Tab]) *Tab {
	t.bindings.Bind(e, h)
	return t
}

// OnData binds the data event.
func (t *Tab) OnData(fn DataFunc) *Tab {
	return t.Bind(EventData, func(ctx context.Context, tab *Tab, _ ...any) (any, error) {
		return fn(ctx, tab)
	})
}

// OnUpdate binds the update event.
func (t *Tab) OnUpdate(fn UpdateFunc) *Tab {
	return t.Bind(EventUpdate, func(ctx context.Context, tab *Tab, args ...any) (any, error) {
		var p Payload
		if len(args) > 0 {
			p = asPayload(args[0])
		}
		return nil, fn(ctx, tab, p)
	})
}

// Bound reports whether e has a handler.
func (t *Tab) Bound(e Event) bool {
	return t.bindings.Has(e)
}

// Invoke runs the handler bound for e.
func (t *Tab) Invoke(ctx context.Context, e Event, args ...any) (any, bool, error) {
	m := t.editor.manager
	start := m.clock.Now()
	result, bound, err := t.bindings.Invoke(ctx, e, t, args...)
	if bound {
		m.observer.BindingInvoked(e, m.clock.Since(start), err)
	}
	return result, bound, err
}

// Data invokes the data binding. It never fails: an unbound event, a
// handler error or a nil result all yield an empty Payload.
func (t *Tab) Data(ctx context.Context) Payload {
	result, bound, err := t.Invoke(ctx, EventData)
	if !bound {
		return Payload{}
	}
	if err != nil {
		t.editor.manager.logger.Debug().
			Err(err).
			Str("path", t.Path()).
			Msg("tab data binding failed")
		return Payload{}
	}
	if p := asPayload(result); p != nil {
		return p
	}
	return Payload{}
}

// Update invokes the update binding once with payload. An unbound update
// is a no-op.
func (t *Tab) Update(ctx context.Context, payload Payload) error {
	_, _, err := t.Invoke(ctx, EventUpdate, payload)
	if err != nil {
		return fmt.Errorf("update %s: %w", t.Path(), err)
	}
	return nil
}

func asPayload(v any) Payload {
	switch p := v.(type) {
	case Payload:
		return p
	case map[string]any:
		return Payload(p)
	default:
		return nil
	}
}
