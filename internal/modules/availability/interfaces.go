package availability

import (
	"context"
	"time"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
)

type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

type ClubRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Club, error)
	GetHours(ctx context.Context, clubID int64) ([]domain.ClubHours, error)
}

type ReservationReader interface {
	ListActiveForRange(ctx context.Context, resourceID int64, from, to time.Time) ([]domain.Reservation, error)
}

type BlockRepository interface {
	ListForDate(ctx context.Context, resourceID int64, date string) ([]domain.AvailabilityBlock, error)
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityBlock, error)
	Create(ctx context.Context, b *domain.AvailabilityBlock) error
	Delete(ctx context.Context, id int64) error
}

// PriceQuote prices sub-ranges of one calendar date.
type PriceQuote interface {
	PriceFor(startMin, endMin int) int64
}

// SlotPricer is the slice of the pricing service the slot generator needs.
type SlotPricer interface {
	QuoteDay(ctx context.Context, resourceID int64, day time.Time) (PriceQuote, error)
}
