package session

import "time"

// TabSnapshot is a point-in-time, serializable view of a Tab.
type TabSnapshot struct {
	Index   int     `json:"index"`
	Name    string  `json:"name"`
	ViewRef ViewRef `json:"viewref"`
	Path    string  `json:"path"`
	Config  Config  `json:"config,omitempty"`
	Events  []Event `json:"events,omitempty"`
}

// EditorSnapshot is a point-in-time, serializable view of an Editor.
type EditorSnapshot struct {
	ID          string        `json:"id"`
	ComponentID string        `json:"component_id"`
	Path        string        `json:"path"`
	Title       string        `json:"title"`
	Subtitle    string        `json:"subtitle,omitempty"`
	Current     int           `json:"current"`
	Unique      bool          `json:"unique,omitempty"`
	Parent      string        `json:"parent,omitempty"`
	State       string        `json:"state"`
	Activated   bool          `json:"activated"`
	Index       int           `json:"index"`
	OpenedAt    time.Time     `json:"opened_at,omitzero"`
	ActivatedAt time.Time     `json:"activated_at,omitzero"`
	Events      []Event       `json:"events,omitempty"`
	Tabs        []TabSnapshot `json:"tabs"`
}

// Snapshot captures the tab's current state.
func (t *Tab) Snapshot(index int) TabSnapshot {
	return TabSnapshot{
		Index:   index,
		Name:    t.name,
		ViewRef: t.viewRef,
		Path:    t.Path(),
		Config:  t.config,
		Events:  t.bindings.Events(),
	}
}

// Snapshot captures the editor's current state.
func (e *Editor) Snapshot() EditorSnapshot {
	s := EditorSnapshot{
		ID:          e.id,
		ComponentID: e.componentID,
		Unique:      e.unique,
		Parent:      e.parent,
		State:       e.State().String(),
		Activated:   e.Activated(),
		Index:       e.Index(),
		Events:      e.bindings.Events(),
	}

	e.mu.RLock()
	s.Path = e.path
	s.Title = e.title
	s.Subtitle = e.subtitle
	s.Current = e.current
	s.OpenedAt = e.openedAt
	s.ActivatedAt = e.activatedAt
	tabs := make([]*Tab, len(e.tabs))
	copy(tabs, e.tabs)
	e.mu.RUnlock()

	s.Tabs = make([]TabSnapshot, len(tabs))
	for i, t := range tabs {
		s.Tabs[i] = t.Snapshot(i)
	}
	return s
}

// OpenedAt returns when the editor was last opened.
func (e *Editor) OpenedAt() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.openedAt
}

// ActivatedAt returns when the editor was last activated.
func (e *Editor) ActivatedAt() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.activatedAt
}
