package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
	"github.com/ihor-metko/RSP-sub015/internal/events"
	"github.com/ihor-metko/RSP-sub015/internal/modules/pricing"
	"github.com/ihor-metko/RSP-sub015/internal/pkg/timeutil"
	"github.com/ihor-metko/RSP-sub015/internal/repository"
)

const (
	ModeAdminDirect     = "ADMIN_DIRECT"
	ModeCustomerPending = "CUSTOMER_PENDING"
)

const (
	createAttempts   = 3
	createRetryDelay = 50 * time.Millisecond
)

type Service struct {
	reservations ReservationStore
	users        UserRepository
	pricer       Pricer
	emitter      events.Emitter
	log          *zap.Logger

	holdDuration time.Duration
	now          func() time.Time
}

func NewService(
	reservations ReservationStore,
	users UserRepository,
	pricer Pricer,
	emitter events.Emitter,
	log *zap.Logger,
	holdDuration time.Duration,
) *Service {
	return &Service{
		reservations: reservations,
		users:        users,
		pricer:       pricer,
		emitter:      emitter,
		log:          log,
		holdDuration: holdDuration,
		now:          time.Now,
	}
}

type CreateInput struct {
	ResourceID int64
	UserID     int64
	Mode       string
	Start      time.Time
	End        time.Time
	Notes      string
}

// Create books the range atomically: the overlap re-check and the insert
// run in one transaction, so at most one of two concurrent requests for
// the same range wins. The price is resolved from the rules in force at
// booking time and stored on the row.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Reservation, error) {
	if in.Mode != ModeAdminDirect && in.Mode != ModeCustomerPending {
		return nil, ErrInvalidMode
	}
	if !in.End.After(in.Start) {
		return nil, ErrInvalidRange
	}
	now := s.now()
	if in.Start.Before(now) {
		return nil, ErrInvalidRange
	}

	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrRequesterNotFound
	}
	if user.IsBlocked {
		return nil, ErrRequesterBlocked
	}

	loc, err := s.pricer.ResourceLocation(ctx, in.ResourceID)
	if err != nil {
		return nil, mapPricingError(err)
	}

	price, err := s.pricer.ResolvePrice(ctx, in.ResourceID, in.Start, in.End)
	if err != nil {
		return nil, mapPricingError(err)
	}

	res := &domain.Reservation{
		ResourceID: in.ResourceID,
		UserID:     in.UserID,
		StartTime:  in.Start,
		EndTime:    in.End,
		PriceCents: price,
		Notes:      in.Notes,
	}
	switch in.Mode {
	case ModeAdminDirect:
		res.Status = domain.ReservationReserved
	case ModeCustomerPending:
		res.Status = domain.ReservationPendingPayment
		expires := now.Add(s.holdDuration)
		res.ReservationExpiresAt = &expires
	}

	localStart := in.Start.In(loc)
	localDate := timeutil.DateKey(in.Start, loc)
	startMin := timeutil.MinutesOfDay(localStart)
	endMin := startMin + int(in.End.Sub(in.Start).Minutes())

	if err := s.insertWithRetry(ctx, res, localDate, startMin, endMin); err != nil {
		return nil, err
	}

	s.emit(ctx, events.ReservationEnvelope(events.KeyReservationCreated, res, ""))
	return res, nil
}

// insertWithRetry retries only on serialization and deadlock failures.
// Overlap rejections are final: the range is taken.
func (s *Service) insertWithRetry(ctx context.Context, res *domain.Reservation, localDate string, startMin, endMin int) error {
	var err error
	for attempt := 1; attempt <= createAttempts; attempt++ {
		err = s.reservations.CreateWithNoOverlap(ctx, res, localDate, startMin, endMin)
		if err == nil {
			return nil
		}
		if errors.Is(err, repository.ErrOverlap) {
			return ErrConflict
		}
		if !retryable(err) {
			return err
		}
		s.log.Warn("reservation insert hit a transient conflict, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(createRetryDelay * time.Duration(attempt)):
		}
	}
	return err
}

// retryable reports whether the error is a Postgres serialization failure
// (40001) or deadlock (40P01).
func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

type Requester struct {
	UserID int64
	Role   string
}

func (r Requester) isStaff() bool {
	return r.Role == string(domain.RoleAdmin) || r.Role == string(domain.RoleClubAdmin)
}

func (s *Service) GetByID(ctx context.Context, id int64, req Requester) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrReservationNotFound
	}
	if res.UserID != req.UserID && !req.isStaff() {
		return nil, ErrForbidden
	}
	return res, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Reservation, error) {
	return s.reservations.ListForUser(ctx, userID, limit, offset)
}

// Cancel finalizes an active reservation. Terminal rows cannot be
// cancelled again.
func (s *Service) Cancel(ctx context.Context, id int64, req Requester, reason string) (*domain.Reservation, error) {
	res, err := s.GetByID(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if res.Status.IsTerminal() {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.reservations.CancelWithReason(ctx, id, reason, s.now()); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrInvalidStatusTransition
		}
		return nil, err
	}
	res.Status = domain.ReservationCancelled
	res.CancellationReason = reason

	s.emit(ctx, events.ReservationEnvelope(events.KeyReservationCancelled, res, reason))
	return res, nil
}

// MarkPaid records payment confirmation on a pending hold or a direct
// booking. Clearing the hold expiry makes the reservation immune to the
// expiry sweep. The repository re-checks the status inside the update, so
// a hold the sweep cancelled in the meantime stays cancelled.
func (s *Service) MarkPaid(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrReservationNotFound
	}
	if res.Status != domain.ReservationPendingPayment && res.Status != domain.ReservationReserved {
		return nil, ErrInvalidStatusTransition
	}

	updated, err := s.reservations.MarkPaid(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrInvalidStatusTransition
		}
		return nil, err
	}

	s.emit(ctx, events.ReservationEnvelope(events.KeyReservationPaid, updated, ""))
	return updated, nil
}

// emit is best-effort: a broker outage must not fail the booking.
func (s *Service) emit(ctx context.Context, e events.Envelope) {
	if err := s.emitter.Emit(ctx, e); err != nil {
		s.log.Warn("event emission failed",
			zap.String("key", e.Key),
			zap.Error(err),
		)
	}
}

func mapPricingError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrResourceNotFound):
		return ErrResourceNotFound
	case errors.Is(err, pricing.ErrInvalidRange), errors.Is(err, pricing.ErrInvalidDate):
		return ErrInvalidRange
	default:
		return err
	}
}
