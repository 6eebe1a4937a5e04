// Package notify carries progress events from the pipeline to whoever is
// presenting them.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Level classifies a notification.
type Level string

// Notification levels.
const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier receives pipeline events. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Info(msg string, attrs ...slog.Attr)
	Success(msg string, attrs ...slog.Attr)
	Warning(msg string, attrs ...slog.Attr)
	Error(msg string, attrs ...slog.Attr)
}

// Logger reports events through a slog.Logger. Success is logged at info
// level with an outcome attribute.
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a notifier backed by l, or slog.Default() when l is nil.
func NewLogger(l *slog.Logger) *Logger {
	if l == nil {
		l = slog.Default()
	}
	return &Logger{logger: l}
}

func (n *Logger) Info(msg string, attrs ...slog.Attr) {
	n.logger.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
}

func (n *Logger) Success(msg string, attrs ...slog.Attr) {
	attrs = append(attrs, slog.String("outcome", "success"))
	n.logger.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
}

func (n *Logger) Warning(msg string, attrs ...slog.Attr) {
	n.logger.LogAttrs(context.Background(), slog.LevelWarn, msg, attrs...)
}

func (n *Logger) Error(msg string, attrs ...slog.Attr) {
	n.logger.LogAttrs(context.Background(), slog.LevelError, msg, attrs...)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Info(string, ...slog.Attr)    {}
func (Discard) Success(string, ...slog.Attr) {}
func (Discard) Warning(string, ...slog.Attr) {}
func (Discard) Error(string, ...slog.Attr)   {}

// Event is a recorded notification.
type Event struct {
	Level Level
	Msg   string
	Attrs []slog.Attr
}

// Attr returns the value of the named attribute, or the zero Value.
func (e Event) Attr(key string) slog.Value {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value
		}
	}
	return slog.Value{}
}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Info(msg string, attrs ...slog.Attr)    { r.add(LevelInfo, msg, attrs) }
func (r *Recorder) Success(msg string, attrs ...slog.Attr) { r.add(LevelSuccess, msg, attrs) }
func (r *Recorder) Warning(msg string, attrs ...slog.Attr) { r.add(LevelWarning, msg, attrs) }
func (r *Recorder) Error(msg string, attrs ...slog.Attr)   { r.add(LevelError, msg, attrs) }

func (r *Recorder) add(level Level, msg string, attrs []slog.Attr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Level: level, Msg: msg, Attrs: append([]slog.Attr(nil), attrs...)})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Count returns the number of events recorded at level.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Level == level {
			n++
		}
	}
	return n
}
