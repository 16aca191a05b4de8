package session

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/artpar/wizide/domain/vpath"
	"github.com/artpar/wizide/ports"
)

// Options configures a Manager. The zero value is usable.
type Options struct {
	Logger zerolog.Logger
	// Clock stamps open and activation times. Defaults to the real clock.
	Clock clockwork.Clock
	// IDs generates editor ids. Defaults to random UUIDs.
	IDs ports.IDGenerator
	// Observer is notified of registry and binding activity.
	Observer Observer
	// DefaultTabName labels tabs created without a name.
	DefaultTabName string
}

type uuidGenerator struct{}

func (uuidGenerator) New() string { return uuid.NewString() }

// Manager is the registry of open editors and the single activated one.
// It is safe for concurrent use. No lock is held while a binding runs, so
// bindings may call back into the Manager.
type Manager struct {
	logger         zerolog.Logger
	clock          clockwork.Clock
	ids            ports.IDGenerator
	observer       Observer
	defaultTabName string

	mu        sync.Mutex
	editors   []*Editor
	activated *Editor
}

// NewManager creates an empty registry.
func NewManager(opts Options) *Manager {
	m := &Manager{
		logger:         opts.Logger.With().Str("component", "session").Logger(),
		clock:          opts.Clock,
		ids:            opts.IDs,
		observer:       opts.Observer,
		defaultTabName: opts.DefaultTabName,
	}
	if m.clock == nil {
		m.clock = clockwork.NewRealClock()
	}
	if m.ids == nil {
		m.ids = uuidGenerator{}
	}
	if m.observer == nil {
		m.observer = NopObserver{}
	}
	if m.defaultTabName == "" {
		m.defaultTabName = DefaultTabName
	}
	return m
}

// Create builds an unregistered editor. Tabs and bindings can be attached
// before it is opened; until then it is invisible to the registry.
func (m *Manager) Create(spec EditorSpec) *Editor {
	meta := Meta{}
	if spec.Meta != nil {
		meta = spec.Meta.clone()
	}
	return &Editor{
		id:          m.ids.New(),
		manager:     m,
		componentID: spec.ComponentID,
		unique:      spec.Unique,
		parent:      spec.Parent,
		path:        spec.Path,
		title:       spec.Title,
		subtitle:    spec.Subtitle,
		current:     spec.Current,
		meta:        meta,
	}
}

// Open inserts e at location. A negative or out-of-range location appends.
// Opening an editor that is already registered is a no-op. A unique editor
// whose component and path match an open editor is not inserted; the open
// editor is returned instead.
func (m *Manager) Open(e *Editor, location int) (*Editor, error) {
	m.mu.Lock()

	switch e.state {
	case StateClosed, StateClosing:
		m.mu.Unlock()
		return nil, ErrClosed
	case StateOpen:
		m.mu.Unlock()
		return e, nil
	}

	if e.unique {
		path := e.Path()
		for _, c := range m.editors {
			if c.componentID == e.componentID && c.Path() == path {
				m.mu.Unlock()
				return c, nil
			}
		}
	}

	if location < 0 || location > len(m.editors) {
		location = len(m.editors)
	}
	m.editors = append(m.editors, nil)
	copy(m.editors[location+1:], m.editors[location:])
	m.editors[location] = e
	e.state = StateOpen
	m.mu.Unlock()

	e.mu.Lock()
	e.openedAt = m.clock.Now()
	e.mu.Unlock()

	m.logger.Debug().
		Str("editor", e.id).
		Str("path", e.Path()).
		Int("location", location).
		Msg("editor opened")
	m.observer.EditorOpened(e)
	return e, nil
}

// Activate makes e the activated editor. The previously activated editor,
// if any, simply stops being activated.
func (m *Manager) Activate(e *Editor) error {
	m.mu.Lock()
	if e.state != StateOpen {
		m.mu.Unlock()
		return fmt.Errorf("activate %s: %w", e.id, ErrNotOpen)
	}
	m.activated = e
	m.mu.Unlock()

	e.mu.Lock()
	e.activatedAt = m.clock.Now()
	e.mu.Unlock()

	m.observer.EditorActivated(e)
	return nil
}

// Close invokes e's delete binding and then removes e from the registry.
// Closing twice runs the binding at most once. A close issued from inside
// the delete binding removes the entry immediately. A binding error is
// returned, but the editor is removed regardless.
func (m *Manager) Close(ctx context.Context, e *Editor) error {
	m.mu.Lock()
	switch e.state {
	case StateClosed:
		m.mu.Unlock()
		return nil
	case StateClosing:
		removed := m.removeLocked(e)
		m.mu.Unlock()
		if removed {
			m.observer.EditorClosed(e)
		}
		return nil
	}
	e.state = StateClosing
	m.mu.Unlock()

	_, _, err := e.Invoke(ctx, EventDelete)

	m.mu.Lock()
	removed := m.removeLocked(e)
	m.mu.Unlock()

	if removed {
		m.logger.Debug().Str("editor", e.id).Str("path", e.Path()).Msg("editor closed")
		m.observer.EditorClosed(e)
	}
	if err != nil {
		return fmt.Errorf("close %s: %w", e.Path(), err)
	}
	return nil
}

// Dismiss removes an open editor without running its delete binding.
// It reports whether anything was removed.
func (m *Manager) Dismiss(e *Editor) bool {
	m.mu.Lock()
	if e.state != StateOpen {
		m.mu.Unlock()
		return false
	}
	removed := m.removeLocked(e)
	m.mu.Unlock()

	if removed {
		m.observer.EditorClosed(e)
	}
	return removed
}

// removeLocked drops e from the registry, clears activation and marks e
// closed. It reports whether e was registered. m.mu must be held.
func (m *Manager) removeLocked(e *Editor) bool {
	e.state = StateClosed
	if m.activated == e {
		m.activated = nil
	}
	for i, c := range m.editors {
		if c == e {
			m.editors = append(m.editors[:i], m.editors[i+1:]...)
			return true
		}
	}
	return false
}

// Find yields every open editor whose path is e's path or below it, plus
// editors whose parent path is. Matching is segment-aware: "app/x" does
// not relate to "app/x2". The registry is read when iteration starts, and
// editors closed during iteration are skipped.
func (m *Manager) Find(e *Editor) iter.Seq[*Editor] {
	return func(yield func(*Editor) bool) {
		root := e.Path()
		if root == "" {
			return
		}
		for _, c := range m.Editors() {
			if c.State() == StateClosed {
				continue
			}
			if !vpath.Within(c.Path(), root) && !(c.parent != "" && vpath.Within(c.parent, root)) {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

// Editors returns the registered editors in order.
func (m *Manager) Editors() []*Editor {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Editor, len(m.editors))
	copy(out, m.editors)
	return out
}

// Len returns the registry size.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.editors)
}

// Get returns the registered editor with id.
func (m *Manager) Get(id string) (*Editor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.editors {
		if e.id == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
}

// Activated returns the activated editor, or nil.
func (m *Manager) Activated() *Editor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activated
}

// IsActive reports whether the activated editor belongs to componentID
// and satisfies match. Views use it to highlight their own list entries
// without picking up another view's activation.
func (m *Manager) IsActive(componentID string, match func(*Editor) bool) bool {
	a := m.Activated()
	if a == nil || a.componentID != componentID {
		return false
	}
	return match == nil || match(a)
}

func (m *Manager) indexOf(e *Editor) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.editors {
		if c == e {
			return i
		}
	}
	return -1
}
