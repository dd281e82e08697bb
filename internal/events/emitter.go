package events

import (
	"context"

	"go.uber.org/zap"
)

// Emitter is the fire-and-forget sink for lifecycle events. Implementations
// may fail; callers log and move on — an emit failure must never roll back
// or fail the operation that produced the event.
type Emitter interface {
	Emit(ctx context.Context, e Envelope) error
}

// LogEmitter writes events to the structured log. It is the default sink
// when no broker is configured.
type LogEmitter struct {
	log *zap.Logger
}

func NewLogEmitter(log *zap.Logger) *LogEmitter {
	return &LogEmitter{log: log}
}

func (l *LogEmitter) Emit(_ context.Context, e Envelope) error {
	l.log.Info("event emitted",
		zap.String("event_id", e.EventID),
		zap.String("key", e.Key),
		zap.Any("payload", e.Payload),
	)
	return nil
}
