package lifecycle

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
	"github.com/ihor-metko/RSP-sub015/internal/events"
)

// Sweeper is the slice of the reservation repository the lifecycle sweeps
// run through.
type Sweeper interface {
	ExpireHolds(ctx context.Context, now time.Time) ([]domain.Reservation, error)
	CompleteFinished(ctx context.Context, now time.Time) ([]domain.Reservation, error)
}

// Result reports how many reservations each sweep touched.
type Result struct {
	CancelledCount int `json:"cancelled_count"`
	CompletedCount int `json:"completed_count"`
}

type Service struct {
	reservations Sweeper
	emitter      events.Emitter
	log          *zap.Logger
	now          func() time.Time
}

func NewService(reservations Sweeper, emitter events.Emitter, log *zap.Logger) *Service {
	return &Service{
		reservations: reservations,
		emitter:      emitter,
		log:          log,
		now:          time.Now,
	}
}

// Run executes both sweeps against the current clock. Each sweep is
// idempotent: rows already finalized by a previous run no longer match,
// so re-running immediately touches nothing.
func (s *Service) Run(ctx context.Context) (Result, error) {
	now := s.now()
	var result Result

	expired, err := s.reservations.ExpireHolds(ctx, now)
	if err != nil {
		return result, err
	}
	result.CancelledCount = len(expired)
	for i := range expired {
		s.emit(ctx, events.ReservationEnvelope(events.KeyReservationExpired, &expired[i], expired[i].CancellationReason))
	}

	completed, err := s.reservations.CompleteFinished(ctx, now)
	if err != nil {
		return result, err
	}
	result.CompletedCount = len(completed)
	for i := range completed {
		s.emit(ctx, events.ReservationEnvelope(events.KeyReservationCompleted, &completed[i], ""))
	}

	if result.CancelledCount > 0 || result.CompletedCount > 0 {
		s.log.Info("lifecycle sweep finished",
			zap.Int("cancelled", result.CancelledCount),
			zap.Int("completed", result.CompletedCount),
		)
	}
	return result, nil
}

// emit is best-effort: sweep results stand even when the broker is down.
func (s *Service) emit(ctx context.Context, e events.Envelope) {
	if err := s.emitter.Emit(ctx, e); err != nil {
		s.log.Warn("event emission failed",
			zap.String("key", e.Key),
			zap.Error(err),
		)
	}
}
