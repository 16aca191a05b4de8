// Package notify presents user notifications through the structured
// logger. The HTTP event stream forwards them to connected clients.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/artpar/wizide/ports"
)

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Notice is a delivered notification.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Listener receives every notice after it is logged.
type Listener func(Notice)

// Logger implements ports.Notifier on zerolog.
type Logger struct {
	logger zerolog.Logger

	mu        sync.RWMutex
	listeners []Listener
}

// New creates a notifier writing to logger.
func New(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger.With().Str("component", "notify").Logger()}
}

// Subscribe registers fn for every future notice.
func (l *Logger) Subscribe(fn Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// Success reports a completed action.
func (l *Logger) Success(ctx context.Context, message string) {
	l.logger.Info().Str("level_ui", string(LevelSuccess)).Msg(message)
	l.publish(Notice{Level: LevelSuccess, Message: message})
}

// Info reports progress.
func (l *Logger) Info(ctx context.Context, message string) {
	l.logger.Info().Str("level_ui", string(LevelInfo)).Msg(message)
	l.publish(Notice{Level: LevelInfo, Message: message})
}

// Error reports a failure the user should see.
func (l *Logger) Error(ctx context.Context, message string) {
	l.logger.Warn().Str("level_ui", string(LevelError)).Msg(message)
	l.publish(Notice{Level: LevelError, Message: message})
}

func (l *Logger) publish(n Notice) {
	l.mu.RLock()
	listeners := l.listeners
	l.mu.RUnlock()
	for _, fn := range listeners {
		fn(n)
	}
}

var _ ports.Notifier = (*Logger)(nil)
