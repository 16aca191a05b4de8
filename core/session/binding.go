// Package session is the editor/tab session core.
//
// A Manager tracks every open Editor and the single activated one. An
// Editor is a logical window over one entity (an app, a route, a source
// file) and owns an ordered list of Tabs. Tabs and Editors carry Bindings:
// lifecycle handlers that decide how content is fetched and persisted, so
// the core never knows anything about transport or rendering.
package session

import (
	"context"
	"sort"
	"sync"
)

// Event names a lifecycle binding.
type Event string

// Lifecycle events understood by the core.
const (
	// EventData fetches the initial content of a tab.
	EventData Event = "data"
	// EventUpdate persists an edited tab and runs its side effects.
	EventUpdate Event = "update"
	// EventDelete runs before an editor is closed.
	EventDelete Event = "delete"
	// EventClone re-opens an editor at a requested location.
	EventClone Event = "clone"
)

// CustomEvent names an event outside the lifecycle set. Custom events are
// only ever invoked explicitly by callers.
func CustomEvent(name string) Event {
	return Event(name)
}

// Handler is a bound callback. It receives the owning Tab or Editor and
// the invocation arguments.
type Handler[T any] func(ctx context.Context, owner T, args ...any) (any, error)

// Bindings maps events to at most one handler each.
// The zero value is ready to use.
type Bindings[T any] struct {
	mu       sync.RWMutex
	handlers map[Event]Handler[T]
}

// Bind registers h for e, replacing any previous handler.
// Binding a nil handler removes the event.
func (b *Bindings[T]) Bind(e Event, h Handler[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if h == nil {
		delete(b.handlers, e)
		return
	}
	if b.handlers == nil {
		b.handlers = make(map[Event]Handler[T])
	}
	b.handlers[e] = h
}

// Has reports whether a handler is bound for e.
func (b *Bindings[T]) Has(e Event) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.handlers[e]
	return ok
}

// Events returns the bound events in name order.
func (b *Bindings[T]) Events() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	events := make([]Event, 0, len(b.handlers))
	for e := range b.handlers {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i] < events[j] })
	return events
}

// Invoke runs the handler bound for e. When nothing is bound it returns
// bound == false and no error; callers treat that as a no-op. Handler
// errors are returned as-is.
func (b *Bindings[T]) Invoke(ctx context.Context, e Event, owner T, args ...any) (result any, bound bool, err error) {
	b.mu.RLock()
	h, ok := b.handlers[e]
	b.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	result, err = h(ctx, owner, args...)
	return result, true, err
}
