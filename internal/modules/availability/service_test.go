package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
)

type mockResourceRepo struct{ mock.Mock }

func (m *mockResourceRepo) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*domain.Resource), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockClubRepo struct{ mock.Mock }

func (m *mockClubRepo) GetByID(ctx context.Context, id int64) (*domain.Club, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*domain.Club), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClubRepo) GetHours(ctx context.Context, clubID int64) ([]domain.ClubHours, error) {
	args := m.Called(ctx, clubID)
	return args.Get(0).([]domain.ClubHours), args.Error(1)
}

type mockReservationReader struct{ mock.Mock }

func (m *mockReservationReader) ListActiveForRange(ctx context.Context, resourceID int64, from, to time.Time) ([]domain.Reservation, error) {
	args := m.Called(ctx, resourceID, from, to)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

type mockBlockRepo struct{ mock.Mock }

func (m *mockBlockRepo) ListForDate(ctx context.Context, resourceID int64, date string) ([]domain.AvailabilityBlock, error) {
	args := m.Called(ctx, resourceID, date)
	return args.Get(0).([]domain.AvailabilityBlock), args.Error(1)
}

func (m *mockBlockRepo) GetByID(ctx context.Context, id int64) (*domain.AvailabilityBlock, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*domain.AvailabilityBlock), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBlockRepo) Create(ctx context.Context, b *domain.AvailabilityBlock) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBlockRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// flatQuote prices every minute at the same hourly rate.
type flatQuote struct{ hourly int64 }

func (q flatQuote) PriceFor(startMin, endMin int) int64 {
	return q.hourly * int64(endMin-startMin) / 60
}

type flatPricer struct{ hourly int64 }

func (p flatPricer) QuoteDay(ctx context.Context, resourceID int64, day time.Time) (PriceQuote, error) {
	return flatQuote{hourly: p.hourly}, nil
}

func newTestService(t *testing.T, hourly int64) (*Service, *mockResourceRepo, *mockClubRepo, *mockReservationReader, *mockBlockRepo) {
	t.Helper()
	resources := new(mockResourceRepo)
	clubs := new(mockClubRepo)
	reservations := new(mockReservationReader)
	blocks := new(mockBlockRepo)
	svc := NewService(resources, clubs, reservations, blocks, flatPricer{hourly: hourly}, 60)
	return svc, resources, clubs, reservations, blocks
}

func stubResource(resources *mockResourceRepo, clubs *mockClubRepo, hours []domain.ClubHours) {
	resources.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Resource{ID: 1, ClubID: 10, DefaultPriceCents: 5000, IsActive: true}, nil)
	clubs.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Club{ID: 10, Timezone: "UTC"}, nil)
	clubs.On("GetHours", mock.Anything, int64(10)).Return(hours, nil)
}

func mondayHours(open, close string) []domain.ClubHours {
	return []domain.ClubHours{
		{ClubID: 10, DayOfWeek: 1, OpenTime: open, CloseTime: close},
	}
}

// 2026-03-02 is a Monday.
const testDate = "2026-03-02"

func at(t *testing.T, clock string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", testDate+" "+clock)
	require.NoError(t, err)
	return ts
}

func TestGetDayAvailability_AllFree(t *testing.T) {
	svc, resources, clubs, reservations, blocks := newTestService(t, 5000)
	stubResource(resources, clubs, mondayHours("09:00", "12:00"))
	reservations.On("ListActiveForRange", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Return([]domain.Reservation{}, nil)
	blocks.On("ListForDate", mock.Anything, int64(1), testDate).
		Return([]domain.AvailabilityBlock{}, nil)

	day, err := svc.GetDayAvailability(context.Background(), 1, testDate)
	require.NoError(t, err)
	require.Len(t, day.Slots, 3)
	for _, slot := range day.Slots {
		assert.Equal(t, SlotAvailable, slot.Status)
		assert.Equal(t, int64(5000), slot.PriceCents)
	}
	assert.Equal(t, "09:00", day.Slots[0].Start)
	assert.Equal(t, "12:00", day.Slots[2].End)
}

func TestGetDayAvailability_PartialOverlap(t *testing.T) {
	svc, resources, clubs, reservations, blocks := newTestService(t, 5000)
	stubResource(resources, clubs, mondayHours("09:00", "13:00"))
	reservations.On("ListActiveForRange", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Return([]domain.Reservation{
			{ResourceID: 1, StartTime: at(t, "10:30"), EndTime: at(t, "11:30"), Status: domain.ReservationReserved},
		}, nil)
	blocks.On("ListForDate", mock.Anything, int64(1), testDate).
		Return([]domain.AvailabilityBlock{}, nil)

	day, err := svc.GetDayAvailability(context.Background(), 1, testDate)
	require.NoError(t, err)
	require.Len(t, day.Slots, 4)

	assert.Equal(t, SlotAvailable, day.Slots[0].Status) // 09:00-10:00
	assert.Equal(t, SlotPartial, day.Slots[1].Status)   // 10:00-11:00
	assert.Equal(t, SlotPartial, day.Slots[2].Status)   // 11:00-12:00
	assert.Equal(t, SlotAvailable, day.Slots[3].Status) // 12:00-13:00
}

func TestGetDayAvailability_FullSlotBooked(t *testing.T) {
	svc, resources, clubs, reservations, blocks := newTestService(t, 5000)
	stubResource(resources, clubs, mondayHours("09:00", "12:00"))
	reservations.On("ListActiveForRange", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Return([]domain.Reservation{
			{ResourceID: 1, StartTime: at(t, "10:00"), EndTime: at(t, "11:00"), Status: domain.ReservationPaid},
		}, nil)
	blocks.On("ListForDate", mock.Anything, int64(1), testDate).
		Return([]domain.AvailabilityBlock{}, nil)

	day, err := svc.GetDayAvailability(context.Background(), 1, testDate)
	require.NoError(t, err)
	require.Len(t, day.Slots, 3)
	assert.Equal(t, SlotAvailable, day.Slots[0].Status)
	assert.Equal(t, SlotBooked, day.Slots[1].Status)
	assert.Equal(t, SlotAvailable, day.Slots[2].Status)
}

func TestGetDayAvailability_BlockMarksSlots(t *testing.T) {
	svc, resources, clubs, reservations, blocks := newTestService(t, 5000)
	stubResource(resources, clubs, mondayHours("09:00", "12:00"))
	reservations.On("ListActiveForRange", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Return([]domain.Reservation{}, nil)
	blocks.On("ListForDate", mock.Anything, int64(1), testDate).
		Return([]domain.AvailabilityBlock{
			{ResourceID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:30", Reason: "resurfacing"},
		}, nil)

	day, err := svc.GetDayAvailability(context.Background(), 1, testDate)
	require.NoError(t, err)
	require.Len(t, day.Slots, 3)
	assert.Equal(t, SlotBooked, day.Slots[0].Status)
	assert.Equal(t, SlotPartial, day.Slots[1].Status)
	assert.Equal(t, SlotAvailable, day.Slots[2].Status)
}

func TestGetDayAvailability_ClosedDay(t *testing.T) {
	svc, resources, clubs, _, _ := newTestService(t, 5000)
	stubResource(resources, clubs, []domain.ClubHours{
		{ClubID: 10, DayOfWeek: 1, OpenTime: "09:00", CloseTime: "12:00", IsClosed: true},
	})

	day, err := svc.GetDayAvailability(context.Background(), 1, testDate)
	require.NoError(t, err)
	assert.Empty(t, day.Slots)
}

func TestGetDayAvailability_NoHoursForWeekday(t *testing.T) {
	svc, resources, clubs, _, _ := newTestService(t, 5000)
	stubResource(resources, clubs, []domain.ClubHours{
		{ClubID: 10, DayOfWeek: 2, OpenTime: "09:00", CloseTime: "12:00"},
	})

	day, err := svc.GetDayAvailability(context.Background(), 1, testDate)
	require.NoError(t, err)
	assert.Empty(t, day.Slots)
}

func TestGetDayAvailability_InvalidDate(t *testing.T) {
	svc, resources, clubs, _, _ := newTestService(t, 5000)
	stubResource(resources, clubs, mondayHours("09:00", "12:00"))

	_, err := svc.GetDayAvailability(context.Background(), 1, "02-03-2026")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

// On a spring-forward date the local day is only 23 real hours, so slot
// positions must come from the wall clock, not elapsed time since midnight.
func TestGetDayAvailability_DSTTransitionDay(t *testing.T) {
	svc, resources, clubs, reservations, blocks := newTestService(t, 5000)
	resources.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Resource{ID: 1, ClubID: 10, DefaultPriceCents: 5000, IsActive: true}, nil)
	clubs.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Club{ID: 10, Timezone: "America/New_York"}, nil)
	clubs.On("GetHours", mock.Anything, int64(10)).Return([]domain.ClubHours{
		{ClubID: 10, DayOfWeek: 0, OpenTime: "09:00", CloseTime: "12:00"},
	}, nil)

	// 2026-03-08 springs forward at 02:00; 10:00 EDT is nine elapsed hours
	// after midnight EST.
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	reservations.On("ListActiveForRange", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Return([]domain.Reservation{
			{
				ID:        1,
				StartTime: time.Date(2026, 3, 8, 10, 0, 0, 0, ny),
				EndTime:   time.Date(2026, 3, 8, 11, 0, 0, 0, ny),
				Status:    domain.ReservationReserved,
			},
		}, nil)
	blocks.On("ListForDate", mock.Anything, int64(1), "2026-03-08").
		Return([]domain.AvailabilityBlock{}, nil)

	day, err := svc.GetDayAvailability(context.Background(), 1, "2026-03-08")
	require.NoError(t, err)
	require.Len(t, day.Slots, 3)
	assert.Equal(t, SlotAvailable, day.Slots[0].Status) // 09:00
	assert.Equal(t, SlotBooked, day.Slots[1].Status)    // 10:00
	assert.Equal(t, SlotAvailable, day.Slots[2].Status) // 11:00
}

func TestGetDayAvailability_ResourceMissing(t *testing.T) {
	svc, resources, _, _, _ := newTestService(t, 5000)
	resources.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

	_, err := svc.GetDayAvailability(context.Background(), 99, testDate)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestCreateBlock_RejectsReservedTime(t *testing.T) {
	svc, resources, clubs, reservations, _ := newTestService(t, 5000)
	stubResource(resources, clubs, mondayHours("09:00", "12:00"))
	reservations.On("ListActiveForRange", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Return([]domain.Reservation{
			{ResourceID: 1, StartTime: at(t, "10:00"), EndTime: at(t, "11:00"), Status: domain.ReservationReserved},
		}, nil)

	err := svc.CreateBlock(context.Background(), &domain.AvailabilityBlock{
		ResourceID: 1, Date: testDate, StartTime: "10:00", EndTime: "12:00",
	})
	assert.ErrorIs(t, err, ErrBlockConflict)
}

func TestCreateBlock_InvalidRange(t *testing.T) {
	svc, resources, clubs, _, _ := newTestService(t, 5000)
	stubResource(resources, clubs, mondayHours("09:00", "12:00"))

	err := svc.CreateBlock(context.Background(), &domain.AvailabilityBlock{
		ResourceID: 1, Date: testDate, StartTime: "12:00", EndTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCreateBlock_OK(t *testing.T) {
	svc, resources, clubs, reservations, blocks := newTestService(t, 5000)
	stubResource(resources, clubs, mondayHours("09:00", "12:00"))
	reservations.On("ListActiveForRange", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Return([]domain.Reservation{}, nil)
	blocks.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := svc.CreateBlock(context.Background(), &domain.AvailabilityBlock{
		ResourceID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00", Reason: "maintenance",
	})
	assert.NoError(t, err)
	blocks.AssertCalled(t, "Create", mock.Anything, mock.Anything)
}
