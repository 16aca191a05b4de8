package session

import "errors"

var (
	// ErrClosed is returned when opening an editor that was closed.
	ErrClosed = errors.New("editor closed")
	// ErrNotOpen is returned when activating an editor that is not open.
	ErrNotOpen = errors.New("editor not open")
	// ErrNotFound is returned by lookups for an unknown editor id.
	ErrNotFound = errors.New("editor not found")
)
