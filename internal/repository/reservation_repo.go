package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
	"github.com/ihor-metko/RSP-sub015/internal/pkg/timeutil"
)

// ErrOverlap is returned when a reservation cannot be inserted because an
// active reservation or a maintenance block already occupies part of its
// range. Callers surface it as a conflict, never retry it.
var ErrOverlap = errors.New("reservation range overlaps existing booking")

// ErrStaleStatus is returned by conditional status updates when the row's
// status no longer admits the transition, e.g. a mark-paid racing the
// expiry sweep. The row is left untouched.
var ErrStaleStatus = errors.New("reservation status no longer allows this update")

type ReservationRepository interface {
	// CreateWithNoOverlap re-checks for conflicting active reservations and
	// maintenance blocks and inserts the reservation, all in one
	// transaction. localDate/startMin/endMin locate the range on the
	// resource's local calendar for the block comparison.
	CreateWithNoOverlap(ctx context.Context, res *domain.Reservation, localDate string, startMin, endMin int) error

	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListActiveForRange(ctx context.Context, resourceID int64, from, to time.Time) ([]domain.Reservation, error)
	ListForUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Reservation, error)

	// CancelWithReason cancels an active reservation. Rows already in a
	// terminal status are left alone and reported as ErrStaleStatus.
	CancelWithReason(ctx context.Context, id int64, reason string, now time.Time) error
	// MarkPaid flips a pending_payment or reserved reservation to paid and
	// clears its hold deadline. Any other status yields ErrStaleStatus.
	MarkPaid(ctx context.Context, id int64) (*domain.Reservation, error)

	// ExpireHolds cancels every pending_payment reservation whose hold
	// deadline has passed and returns the affected rows. Re-running with no
	// intervening writes matches nothing.
	ExpireHolds(ctx context.Context, now time.Time) ([]domain.Reservation, error)
	// CompleteFinished promotes ended reserved/paid reservations to
	// completed and returns the affected rows.
	CompleteFinished(ctx context.Context, now time.Time) ([]domain.Reservation, error)
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) CreateWithNoOverlap(ctx context.Context, res *domain.Reservation, localDate string, startMin, endMin int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock candidate rows so two concurrent creates for overlapping
		// ranges serialize; the loser sees the winner's row.
		q := tx.Model(&domain.Reservation{}).
			Where("resource_id = ?", res.ResourceID).
			Where("status IN ?", activeStatusStrings()).
			Where("start_time < ? AND end_time > ?", res.EndTime, res.StartTime)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var existing []domain.Reservation
		if err := q.Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrOverlap
		}

		var blocks []domain.AvailabilityBlock
		if err := tx.Where("resource_id = ? AND date = ?", res.ResourceID, localDate).Find(&blocks).Error; err != nil {
			return err
		}
		for _, b := range blocks {
			bStart, err := timeutil.ParseClock(b.StartTime)
			if err != nil {
				continue
			}
			bEnd, err := timeutil.ParseClock(b.EndTime)
			if err != nil {
				continue
			}
			if timeutil.MinutesOverlap(bStart, bEnd, startMin, endMin) {
				return ErrOverlap
			}
		}

		return tx.Create(res).Error
	})
	if err != nil {
		// Exclusion-constraint backstop: a racing insert that slipped past
		// the lock still surfaces as a conflict, not a 500.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == "23P01" || pgErr.Code == "23505") {
			return ErrOverlap
		}
		return err
	}
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var res domain.Reservation
	err := r.db.WithContext(ctx).First(&res, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) ListActiveForRange(ctx context.Context, resourceID int64, from, to time.Time) ([]domain.Reservation, error) {
	var rows []domain.Reservation
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Where("status IN ?", activeStatusStrings()).
		Where("start_time < ? AND end_time > ?", to, from).
		Order("start_time").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reservationRepository) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Reservation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var rows []domain.Reservation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reservationRepository) CancelWithReason(ctx context.Context, id int64, reason string, now time.Time) error {
	now = now.UTC()
	// The status predicate makes the update a no-op when a sweep or another
	// caller finalized the row first.
	tx := r.db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("id = ? AND status IN ?", id, activeStatusStrings()).
		Updates(map[string]any{
			"status":              string(domain.ReservationCancelled),
			"cancellation_reason": reason,
			"cancelled_at":        &now,
			"updated_at":          now,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *reservationRepository) MarkPaid(ctx context.Context, id int64) (*domain.Reservation, error) {
	// Guard against resurrecting a hold the expiry sweep already cancelled:
	// by then the range may be sold again, and an unconditional update would
	// commit two active overlapping reservations.
	tx := r.db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("id = ? AND status IN ?", id, []string{
			string(domain.ReservationPendingPayment),
			string(domain.ReservationReserved),
		}).
		Updates(map[string]any{
			"status":                 string(domain.ReservationPaid),
			"reservation_expires_at": nil,
			"updated_at":             time.Now().UTC(),
		})
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, ErrStaleStatus
	}
	return r.GetByID(ctx, id)
}

func (r *reservationRepository) ExpireHolds(ctx context.Context, now time.Time) ([]domain.Reservation, error) {
	return r.sweep(ctx,
		"status = ? AND reservation_expires_at < ?",
		[]any{string(domain.ReservationPendingPayment), now},
		map[string]any{
			"status":              string(domain.ReservationCancelled),
			"cancellation_reason": "payment hold expired",
			"cancelled_at":        now.UTC(),
			"updated_at":          now.UTC(),
		})
}

func (r *reservationRepository) CompleteFinished(ctx context.Context, now time.Time) ([]domain.Reservation, error) {
	return r.sweep(ctx,
		"end_time <= ? AND status IN ?",
		[]any{now, []string{string(domain.ReservationReserved), string(domain.ReservationPaid)}},
		map[string]any{
			"status":     string(domain.ReservationCompleted),
			"updated_at": now.UTC(),
		})
}

// sweep selects the matching rows under lock, applies updates to exactly
// those rows, and returns them so the caller can emit per-row events after
// commit.
func (r *reservationRepository) sweep(ctx context.Context, cond string, condArgs []any, updates map[string]any) ([]domain.Reservation, error) {
	var swept []domain.Reservation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where(cond, condArgs...)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.Find(&swept).Error; err != nil {
			return err
		}
		if len(swept) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(swept))
		for _, row := range swept {
			ids = append(ids, row.ID)
		}
		return tx.Model(&domain.Reservation{}).
			Where("id IN ?", ids).
			Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	// Reflect the transition in the returned rows.
	if status, ok := updates["status"].(string); ok {
		for i := range swept {
			swept[i].Status = domain.ReservationStatus(status)
		}
	}
	return swept, nil
}

func activeStatusStrings() []string {
	statuses := domain.ActiveReservationStatuses()
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}
