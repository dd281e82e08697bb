package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihor-metko/RSP-sub015/internal/database"
	"github.com/ihor-metko/RSP-sub015/internal/domain"
)

type repoFixture struct {
	repo    ReservationRepository
	courtID int64
	userA   int64
	userB   int64
}

// setupReservationRepo opens an in-memory database pinned to a single
// connection so concurrent transactions serialize the way row locks do on
// Postgres.
func setupReservationRepo(t *testing.T) *repoFixture {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	club := domain.Club{Name: "Ace Tennis Club", Timezone: "UTC"}
	require.NoError(t, db.Create(&club).Error)
	court := domain.Resource{ClubID: club.ID, Name: "Center Court", SportType: domain.SportTennis, DefaultPriceCents: 5000, IsActive: true}
	require.NoError(t, db.Create(&court).Error)
	userA := domain.User{Email: "alex@test.com", Name: "Alex", Role: domain.RoleCustomer}
	require.NoError(t, db.Create(&userA).Error)
	userB := domain.User{Email: "bea@test.com", Name: "Bea", Role: domain.RoleCustomer}
	require.NoError(t, db.Create(&userB).Error)

	return &repoFixture{
		repo:    NewReservationRepository(db),
		courtID: court.ID,
		userA:   userA.ID,
		userB:   userB.ID,
	}
}

var repoDay = time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

func (f *repoFixture) reservation(userID int64, status domain.ReservationStatus, startHour, endHour int) *domain.Reservation {
	return &domain.Reservation{
		ResourceID: f.courtID,
		UserID:     userID,
		StartTime:  repoDay.Add(time.Duration(startHour) * time.Hour),
		EndTime:    repoDay.Add(time.Duration(endHour) * time.Hour),
		PriceCents: 5000,
		Status:     status,
	}
}

func TestCreateWithNoOverlap_ConcurrentCreatesOneWins(t *testing.T) {
	f := setupReservationRepo(t)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, userID := range []int64{f.userA, f.userB} {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			res := f.reservation(userID, domain.ReservationReserved, 10, 11)
			errs <- f.repo.CreateWithNoOverlap(context.Background(), res, "2026-09-10", 600, 660)
		}(userID)
	}
	wg.Wait()
	close(errs)

	var wins, conflicts int
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, ErrOverlap)
		conflicts++
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	rows, err := f.repo.ListActiveForRange(context.Background(), f.courtID, repoDay, repoDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

// A hold the expiry sweep already cancelled must stay cancelled even when a
// late payment confirmation arrives after the freed range was sold again.
func TestMarkPaid_ExpiredHoldStaysCancelled(t *testing.T) {
	f := setupReservationRepo(t)
	ctx := context.Background()

	hold := f.reservation(f.userA, domain.ReservationPendingPayment, 10, 11)
	expired := repoDay.Add(-time.Hour)
	hold.ReservationExpiresAt = &expired
	require.NoError(t, f.repo.CreateWithNoOverlap(ctx, hold, "2026-09-10", 600, 660))

	swept, err := f.repo.ExpireHolds(ctx, repoDay)
	require.NoError(t, err)
	require.Len(t, swept, 1)

	winner := f.reservation(f.userB, domain.ReservationReserved, 10, 11)
	require.NoError(t, f.repo.CreateWithNoOverlap(ctx, winner, "2026-09-10", 600, 660))

	_, err = f.repo.MarkPaid(ctx, hold.ID)
	assert.ErrorIs(t, err, ErrStaleStatus)

	got, err := f.repo.GetByID(ctx, hold.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, got.Status)

	rows, err := f.repo.ListActiveForRange(ctx, f.courtID, repoDay, repoDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, winner.ID, rows[0].ID)
}

func TestMarkPaid_ReservedBooking(t *testing.T) {
	f := setupReservationRepo(t)
	ctx := context.Background()

	res := f.reservation(f.userA, domain.ReservationReserved, 12, 13)
	require.NoError(t, f.repo.CreateWithNoOverlap(ctx, res, "2026-09-10", 720, 780))

	paid, err := f.repo.MarkPaid(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationPaid, paid.Status)
	assert.Nil(t, paid.ReservationExpiresAt)
}

func TestCancelWithReason_TerminalRowLeftAlone(t *testing.T) {
	f := setupReservationRepo(t)
	ctx := context.Background()

	res := f.reservation(f.userA, domain.ReservationReserved, 14, 15)
	require.NoError(t, f.repo.CreateWithNoOverlap(ctx, res, "2026-09-10", 840, 900))
	require.NoError(t, f.repo.CancelWithReason(ctx, res.ID, "change of plans", repoDay))

	err := f.repo.CancelWithReason(ctx, res.ID, "again", repoDay)
	assert.ErrorIs(t, err, ErrStaleStatus)

	got, err := f.repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "change of plans", got.CancellationReason)
}

func TestCancelWithReason_StampsCallerClock(t *testing.T) {
	f := setupReservationRepo(t)
	ctx := context.Background()

	res := f.reservation(f.userA, domain.ReservationReserved, 16, 17)
	require.NoError(t, f.repo.CreateWithNoOverlap(ctx, res, "2026-09-10", 960, 1020))

	cancelledAt := repoDay.Add(2 * time.Hour)
	require.NoError(t, f.repo.CancelWithReason(ctx, res.ID, "rainout", cancelledAt))

	got, err := f.repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CancelledAt)
	assert.True(t, got.CancelledAt.Equal(cancelledAt))
}
