package session

import (
	"context"
	"sync"
	"time"

	"github.com/artpar/wizide/domain/vpath"
)

// State is the lifecycle state of an Editor. Whether an open editor is
// activated is tracked by the Manager, not by the editor itself.
type State int

const (
	// StateUnregistered editors exist but are not in the registry.
	StateUnregistered State = iota
	// StateOpen editors are registered.
	StateOpen
	// StateClosing editors are running their delete binding.
	StateClosing
	// StateClosed is terminal.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnregistered:
		return "unregistered"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// EditorSpec describes an editor to create.
type EditorSpec struct {
	// ComponentID identifies the view that owns the editor.
	ComponentID string
	// Path is the entity path; empty for an entity not yet persisted.
	Path     string
	Title    string
	Subtitle string
	// Current is the default sub-view slot to display.
	Current int
	// Unique editors are deduplicated by (ComponentID, Path) on open.
	Unique bool
	// Parent optionally names the path this editor was derived from, so
	// Find can relate it to an ancestor entity explicitly.
	Parent string
	Meta   Meta
}

// Modification is a partial update of an editor's identity. Nil fields
// are left unchanged; Meta keys are merged.
type Modification struct {
	Path     *string
	Title    *string
	Subtitle *string
	Meta     Meta
}

// DeleteFunc runs before an editor is closed.
type DeleteFunc func(ctx context.Context, e *Editor) error

// CloneFunc re-opens the editor's entity at location.
type CloneFunc func(ctx context.Context, e *Editor, location int) error

// Editor is a logical window over one entity, holding an ordered list of
// tabs. Index 0 is conventionally the entity's info tab.
type Editor struct {
	id          string
	manager     *Manager
	componentID string
	unique      bool
	parent      string

	mu          sync.RWMutex
	path        string
	title       string
	subtitle    string
	current     int
	meta        Meta
	tabs        []*Tab
	openedAt    time.Time
	activatedAt time.Time

	// guarded by manager.mu
	state State

	bindings Bindings[*Editor]
}

// ID returns the editor's registry identifier.
func (e *Editor) ID() string { return e.id }

// ComponentID returns the owning view's identifier.
func (e *Editor) ComponentID() string { return e.componentID }

// Unique reports whether the editor is deduplicated by path on open.
func (e *Editor) Unique() bool { return e.unique }

// Parent returns the path this editor was derived from, if any.
func (e *Editor) Parent() string { return e.parent }

// Path returns the entity path.
func (e *Editor) Path() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.path
}

// Title returns the display title.
func (e *Editor) Title() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.title
}

// Subtitle returns the display subtitle.
func (e *Editor) Subtitle() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.subtitle
}

// Current returns the default sub-view slot.
func (e *Editor) Current() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// State returns the lifecycle state.
func (e *Editor) State() State {
	e.manager.mu.Lock()
	defer e.manager.mu.Unlock()
	return e.state
}

// Create appends a new tab built from spec and returns it for chaining.
// Tab paths are unique within an editor: when a tab already has spec's
// non-empty path, that tab is returned and nothing is appended.
func (e *Editor) Create(spec TabSpec) *Tab {
	e.mu.Lock()
	defer e.mu.Unlock()
	if spec.Path != "" {
		for _, t := range e.tabs {
			if t.Path() == spec.Path {
				return t
			}
		}
	}
	t := newTab(e, spec, e.manager.defaultTabName)
	e.tabs = append(e.tabs, t)
	return t
}

// Tab returns the tab at index. Out-of-range access panics.
func (e *Editor) Tab(index int) *Tab {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tabs[index]
}

// Tabs returns the tabs in order.
func (e *Editor) Tabs() []*Tab {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Tab, len(e.tabs))
	copy(out, e.tabs)
	return out
}

// TabCount returns the number of tabs.
func (e *Editor) TabCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.tabs)
}

// SetMeta stores a scratch value shared by the editor's bindings.
func (e *Editor) SetMeta(key string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.meta[key] = value
}

// Meta returns a copy of the scratch map.
func (e *Editor) Meta() Meta {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.meta.clone()
}

// MetaString returns the string stored under key, or "".
func (e *Editor) MetaString(key string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.meta.String(key)
}

// MetaPayload returns the payload stored under key, or nil.
func (e *Editor) MetaPayload(key string) Payload {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.meta.Payload(key)
}

// Modify applies a partial identity update.
func (e *Editor) Modify(mod Modification) {
	e.modify(mod)
	e.manager.observer.EditorChanged(e)
}

func (e *Editor) modify(mod Modification) {
	e.mu.Lock()
	if mod.Path != nil {
		e.path = *mod.Path
	}
	if mod.Title != nil {
		e.title = *mod.Title
	}
	if mod.Subtitle != nil {
		e.subtitle = *mod.Subtitle
	}
	for k, v := range mod.Meta {
		e.meta[k] = v
	}
	e.mu.Unlock()
}

// Relocate finishes an entity rename that the store has already accepted:
// it modifies the editor identity first, then moves every tab by replacing
// path segment index with value. Observers see one change.
func (e *Editor) Relocate(mod Modification, segment int, value string) {
	e.modify(mod)
	for _, t := range e.Tabs() {
		t.Move(vpath.ReplaceSegment(t.Path(), segment, value))
	}
	e.manager.observer.EditorChanged(e)
}

// Bind registers h for ev and returns the editor for chaining.
func (e *Editor) Bind(ev Event, h Handler[*Editor]) *Editor {
	e.bindings.Bind(ev, h)
	return e
}

// OnDelete binds the delete event.
func (e *Editor) OnDelete(fn DeleteFunc) *Editor {
	return e.Bind(EventDelete, func(ctx context.Context, ed *Editor, _ ...any) (any, error) {
		return nil, fn(ctx, ed)
	})
}

// OnClone binds the clone event.
func (e *Editor) OnClone(fn CloneFunc) *Editor {
	return e.Bind(EventClone, func(ctx context.Context, ed *Editor, args ...any) (any, error) {
		location := -1
		if len(args) > 0 {
			if l, ok := args[0].(int); ok {
				location = l
			}
		}
		return nil, fn(ctx, ed, location)
	})
}

// Bound reports whether ev has a handler.
func (e *Editor) Bound(ev Event) bool {
	return e.bindings.Has(ev)
}

// Invoke runs the handler bound for ev.
func (e *Editor) Invoke(ctx context.Context, ev Event, args ...any) (any, bool, error) {
	m := e.manager
	start := m.clock.Now()
	result, bound, err := e.bindings.Invoke(ctx, ev, e, args...)
	if bound {
		m.observer.BindingInvoked(ev, m.clock.Since(start), err)
	}
	return result, bound, err
}

// Open registers the editor at location (negative appends). It returns
// the editor that is actually registered, which differs from e only for
// a unique editor whose path is already open.
func (e *Editor) Open(location int) (*Editor, error) {
	return e.manager.Open(e, location)
}

// Activate makes the editor the activated one.
func (e *Editor) Activate() error {
	return e.manager.Activate(e)
}

// Close runs the delete binding and removes the editor.
func (e *Editor) Close(ctx context.Context) error {
	return e.manager.Close(ctx, e)
}

// Dismiss removes the editor without running its delete binding.
func (e *Editor) Dismiss() bool {
	return e.manager.Dismiss(e)
}

// Clone invokes the clone binding with location. Without a clone binding
// it is a no-op.
func (e *Editor) Clone(ctx context.Context, location int) error {
	_, _, err := e.Invoke(ctx, EventClone, location)
	return err
}

// Activated reports whether this editor is the activated one.
func (e *Editor) Activated() bool {
	return e.manager.Activated() == e
}

// Index returns the editor's position in the registry, or -1.
func (e *Editor) Index() int {
	return e.manager.indexOf(e)
}
