package reservation

import (
	"context"
	"time"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// ReservationStore is the slice of the reservation repository this module
// writes through.
type ReservationStore interface {
	CreateWithNoOverlap(ctx context.Context, res *domain.Reservation, localDate string, startMin, endMin int) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListForUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Reservation, error)
	CancelWithReason(ctx context.Context, id int64, reason string, now time.Time) error
	MarkPaid(ctx context.Context, id int64) (*domain.Reservation, error)
}

// Pricer resolves the charge for a reservation range and the resource's
// local calendar.
type Pricer interface {
	ResolvePrice(ctx context.Context, resourceID int64, start, end time.Time) (int64, error)
	ResourceLocation(ctx context.Context, resourceID int64) (*time.Location, error)
}
