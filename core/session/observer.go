package session

import "time"

// Observer watches registry and binding activity. Implementations must
// not call back into the Manager synchronously.
type Observer interface {
	EditorOpened(e *Editor)
	EditorClosed(e *Editor)
	EditorActivated(e *Editor)
	EditorChanged(e *Editor)
	BindingInvoked(event Event, d time.Duration, err error)
}

// Observers fans out to every observer in order.
type Observers []Observer

func (o Observers) EditorOpened(e *Editor) {
	for _, ob := range o {
		ob.EditorOpened(e)
	}
}

func (o Observers) EditorClosed(e *Editor) {
	for _, ob := range o {
		ob.EditorClosed(e)
	}
}

func (o Observers) EditorActivated(e *Editor) {
	for _, ob := range o {
		ob.EditorActivated(e)
	}
}

func (o Observers) EditorChanged(e *Editor) {
	for _, ob := range o {
		ob.EditorChanged(e)
	}
}

func (o Observers) BindingInvoked(event Event, d time.Duration, err error) {
	for _, ob := range o {
		ob.BindingInvoked(event, d, err)
	}
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) EditorOpened(*Editor)                        {}
func (NopObserver) EditorClosed(*Editor)                        {}
func (NopObserver) EditorActivated(*Editor)                     {}
func (NopObserver) EditorChanged(*Editor)                       {}
func (NopObserver) BindingInvoked(Event, time.Duration, error) {}
