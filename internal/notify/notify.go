// Package notify is the one-way outcome channel toward the presentation
// layer. The core publishes {kind, message} events; a sink decides display,
// retry affordances and dismissal. Publishing never fails the operation
// that produced the event.
package notify

import (
	"context"
	"log/slog"
)

// Kind classifies an event for the presentation layer.
type Kind string

const (
	KindInfo  Kind = "info"
	KindError Kind = "error"
)

// Event is one user-visible outcome, reported once per attempt.
type Event struct {
	Kind    Kind
	Message string
}

// Sink consumes events. Implementations must not block the caller for long
// and must swallow their own delivery failures.
type Sink interface {
	Publish(ctx context.Context, ev Event)
}

// LogSink writes events to the application log.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink logging at info/error level by event kind.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With("component", "notify")}
}

func (s *LogSink) Publish(_ context.Context, ev Event) {
	switch ev.Kind {
	case KindError:
		s.logger.Error(ev.Message)
	default:
		s.logger.Info(ev.Message)
	}
}

// Fanout delivers each event to every sink in order.
type Fanout []Sink

func (f Fanout) Publish(ctx context.Context, ev Event) {
	for _, sink := range f {
		sink.Publish(ctx, ev)
	}
}
