package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
	"github.com/ihor-metko/RSP-sub015/internal/pkg/timeutil"
)

const (
	SlotAvailable = "available"
	SlotBooked    = "booked"
	SlotPartial   = "partial"
)

type Service struct {
	resources    ResourceRepository
	clubs        ClubRepository
	reservations ReservationReader
	blocks       BlockRepository
	pricer       SlotPricer
	slotMinutes  int
}

func NewService(
	resources ResourceRepository,
	clubs ClubRepository,
	reservations ReservationReader,
	blocks BlockRepository,
	pricer SlotPricer,
	slotMinutes int,
) *Service {
	if slotMinutes <= 0 {
		slotMinutes = 60
	}
	return &Service{
		resources:    resources,
		clubs:        clubs,
		reservations: reservations,
		blocks:       blocks,
		pricer:       pricer,
		slotMinutes:  slotMinutes,
	}
}

// busyRange is an occupied minute window within the requested date.
type busyRange struct {
	start, end int
}

// GetDayAvailability produces the day's fixed-width slot grid for the
// resource, each slot classified against active reservations and blocks
// and priced for its exact range.
func (s *Service) GetDayAvailability(ctx context.Context, resourceID int64, dateStr string) (*DayAvailability, error) {
	resource, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, ErrResourceNotFound
	}

	club, err := s.clubs.GetByID(ctx, resource.ClubID)
	if err != nil {
		return nil, err
	}
	if club == nil {
		return nil, ErrResourceNotFound
	}
	loc, err := time.LoadLocation(club.Timezone)
	if err != nil {
		return nil, fmt.Errorf("club %d has invalid timezone %q: %w", club.ID, club.Timezone, err)
	}

	day, err := timeutil.ParseDate(dateStr, loc)
	if err != nil {
		return nil, ErrInvalidDate
	}

	openMin, closeMin, err := s.operatingWindow(ctx, club.ID, day)
	if err != nil {
		return nil, err
	}

	out := &DayAvailability{
		ResourceID: resourceID,
		Date:       dateStr,
		Slots:      []Slot{},
	}
	if closeMin <= openMin {
		// closed that day: an empty grid, not an error
		return out, nil
	}

	busy, err := s.busyRanges(ctx, resourceID, dateStr, day, loc)
	if err != nil {
		return nil, err
	}

	quote, err := s.pricer.QuoteDay(ctx, resourceID, day)
	if err != nil {
		return nil, err
	}

	for slotStart := openMin; slotStart+s.slotMinutes <= closeMin; slotStart += s.slotMinutes {
		slotEnd := slotStart + s.slotMinutes
		out.Slots = append(out.Slots, Slot{
			Start:      timeutil.FormatClock(slotStart),
			End:        timeutil.FormatClock(slotEnd),
			Status:     classifySlot(slotStart, slotEnd, busy),
			PriceCents: quote.PriceFor(slotStart, slotEnd),
		})
	}
	return out, nil
}

// operatingWindow returns the club's open/close minutes for the weekday of
// day, (0, 0) when closed.
func (s *Service) operatingWindow(ctx context.Context, clubID int64, day time.Time) (int, int, error) {
	hours, err := s.clubs.GetHours(ctx, clubID)
	if err != nil {
		return 0, 0, err
	}

	weekday := int(day.Weekday())
	for _, h := range hours {
		if h.DayOfWeek != weekday {
			continue
		}
		if h.IsClosed {
			return 0, 0, nil
		}
		openMin, err := timeutil.ParseClock(h.OpenTime)
		if err != nil {
			return 0, 0, fmt.Errorf("club %d hours for day %d: %w", clubID, weekday, err)
		}
		closeMin, err := timeutil.ParseClock(h.CloseTime)
		if err != nil {
			return 0, 0, fmt.Errorf("club %d hours for day %d: %w", clubID, weekday, err)
		}
		return openMin, closeMin, nil
	}
	return 0, 0, nil
}

// busyRanges projects the day's active reservations and maintenance blocks
// onto minute windows of the local date, clamped to the day's bounds.
func (s *Service) busyRanges(ctx context.Context, resourceID int64, dateStr string, day time.Time, loc *time.Location) ([]busyRange, error) {
	// AddDate keeps the bound on the next local midnight even when a DST
	// shift makes the day 23 or 25 hours long.
	dayStart := day
	dayEnd := day.AddDate(0, 0, 1)

	reservations, err := s.reservations.ListActiveForRange(ctx, resourceID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	busy := make([]busyRange, 0, len(reservations))
	for _, r := range reservations {
		// Minutes come from the local wall clock, not elapsed time since
		// midnight, so a DST transition cannot shift slot positions.
		localStart := r.StartTime.In(loc)
		localEnd := r.EndTime.In(loc)

		start := 0
		if timeutil.SameDate(localStart, day, loc) {
			start = timeutil.MinutesOfDay(localStart)
		}
		end := timeutil.MinutesPerDay
		if timeutil.SameDate(localEnd, day, loc) {
			end = timeutil.MinutesOfDay(localEnd)
		}
		if end > start {
			busy = append(busy, busyRange{start: start, end: end})
		}
	}

	blocks, err := s.blocks.ListForDate(ctx, resourceID, dateStr)
	if err != nil {
		return nil, err
	}
	for _, b := range blocks {
		start, err := timeutil.ParseClock(b.StartTime)
		if err != nil {
			continue
		}
		end, err := timeutil.ParseClock(b.EndTime)
		if err != nil {
			continue
		}
		if end > start {
			busy = append(busy, busyRange{start: start, end: end})
		}
	}
	return busy, nil
}

// classifySlot: booked when one occupied range covers the whole slot,
// partial when any occupied range touches it without covering it.
func classifySlot(slotStart, slotEnd int, busy []busyRange) string {
	status := SlotAvailable
	for _, b := range busy {
		if !timeutil.MinutesOverlap(b.start, b.end, slotStart, slotEnd) {
			continue
		}
		if timeutil.MinutesContain(b.start, b.end, slotStart, slotEnd) {
			return SlotBooked
		}
		status = SlotPartial
	}
	return status
}

// CreateBlock inserts a maintenance block after verifying it does not cut
// into time already sold to an active reservation.
func (s *Service) CreateBlock(ctx context.Context, block *domain.AvailabilityBlock) error {
	resource, err := s.resources.GetByID(ctx, block.ResourceID)
	if err != nil {
		return err
	}
	if resource == nil {
		return ErrResourceNotFound
	}

	club, err := s.clubs.GetByID(ctx, resource.ClubID)
	if err != nil {
		return err
	}
	if club == nil {
		return ErrResourceNotFound
	}
	loc, err := time.LoadLocation(club.Timezone)
	if err != nil {
		return fmt.Errorf("club %d has invalid timezone %q: %w", club.ID, club.Timezone, err)
	}

	day, err := timeutil.ParseDate(block.Date, loc)
	if err != nil {
		return ErrInvalidDate
	}
	startMin, err := timeutil.ParseClock(block.StartTime)
	if err != nil {
		return ErrInvalidRange
	}
	endMin, err := timeutil.ParseClock(block.EndTime)
	if err != nil {
		return ErrInvalidRange
	}
	if startMin >= endMin {
		return ErrInvalidRange
	}

	reservations, err := s.reservations.ListActiveForRange(ctx, block.ResourceID,
		timeutil.AtMinutes(day, startMin), timeutil.AtMinutes(day, endMin))
	if err != nil {
		return err
	}
	if len(reservations) > 0 {
		return ErrBlockConflict
	}

	return s.blocks.Create(ctx, block)
}

func (s *Service) DeleteBlock(ctx context.Context, resourceID, blockID int64) error {
	block, err := s.blocks.GetByID(ctx, blockID)
	if err != nil {
		return err
	}
	if block == nil || block.ResourceID != resourceID {
		return ErrBlockNotFound
	}
	return s.blocks.Delete(ctx, blockID)
}
