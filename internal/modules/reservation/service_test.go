package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
	"github.com/ihor-metko/RSP-sub015/internal/events"
	"github.com/ihor-metko/RSP-sub015/internal/repository"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) CreateWithNoOverlap(ctx context.Context, res *domain.Reservation, localDate string, startMin, endMin int) error {
	return m.Called(ctx, res, localDate, startMin, endMin).Error(0)
}

func (m *mockStore) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*domain.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Reservation, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *mockStore) CancelWithReason(ctx context.Context, id int64, reason string, now time.Time) error {
	return m.Called(ctx, id, reason, now).Error(0)
}

func (m *mockStore) MarkPaid(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*domain.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPricer struct{ mock.Mock }

func (m *mockPricer) ResolvePrice(ctx context.Context, resourceID int64, start, end time.Time) (int64, error) {
	args := m.Called(ctx, resourceID, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPricer) ResourceLocation(ctx context.Context, resourceID int64) (*time.Location, error) {
	args := m.Called(ctx, resourceID)
	if l := args.Get(0); l != nil {
		return l.(*time.Location), args.Error(1)
	}
	return nil, args.Error(1)
}

type recordingEmitter struct {
	envelopes []events.Envelope
}

func (e *recordingEmitter) Emit(_ context.Context, env events.Envelope) error {
	e.envelopes = append(e.envelopes, env)
	return nil
}

var fixedNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func newTestService() (*Service, *mockStore, *mockUsers, *mockPricer, *recordingEmitter) {
	store := new(mockStore)
	users := new(mockUsers)
	pricer := new(mockPricer)
	emitter := &recordingEmitter{}
	svc := NewService(store, users, pricer, emitter, zap.NewNop(), 15*time.Minute)
	svc.now = func() time.Time { return fixedNow }
	return svc, store, users, pricer, emitter
}

func activeUser(users *mockUsers, id int64) {
	users.On("GetByID", mock.Anything, id).
		Return(&domain.User{ID: id, Role: domain.RoleCustomer}, nil)
}

func stubPricing(pricer *mockPricer, price int64) {
	pricer.On("ResourceLocation", mock.Anything, int64(1)).Return(time.UTC, nil)
	pricer.On("ResolvePrice", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Return(price, nil)
}

func createInput(mode string) CreateInput {
	return CreateInput{
		ResourceID: 1,
		UserID:     7,
		Mode:       mode,
		Start:      fixedNow.Add(2 * time.Hour),
		End:        fixedNow.Add(3 * time.Hour),
	}
}

func TestCreate_AdminDirect(t *testing.T) {
	svc, store, users, pricer, emitter := newTestService()
	activeUser(users, 7)
	stubPricing(pricer, 7500)
	store.On("CreateWithNoOverlap", mock.Anything, mock.Anything, "2026-03-02", 600, 660).
		Return(nil)

	res, err := svc.Create(context.Background(), createInput(ModeAdminDirect))
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationReserved, res.Status)
	assert.Nil(t, res.ReservationExpiresAt)
	assert.Equal(t, int64(7500), res.PriceCents)

	require.Len(t, emitter.envelopes, 1)
	assert.Equal(t, events.KeyReservationCreated, emitter.envelopes[0].Key)
}

func TestCreate_CustomerPendingSetsHold(t *testing.T) {
	svc, store, users, pricer, _ := newTestService()
	activeUser(users, 7)
	stubPricing(pricer, 7500)
	store.On("CreateWithNoOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	res, err := svc.Create(context.Background(), createInput(ModeCustomerPending))
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationPendingPayment, res.Status)
	require.NotNil(t, res.ReservationExpiresAt)
	assert.Equal(t, fixedNow.Add(15*time.Minute), *res.ReservationExpiresAt)
}

func TestCreate_OverlapIsFinal(t *testing.T) {
	svc, store, users, pricer, emitter := newTestService()
	activeUser(users, 7)
	stubPricing(pricer, 7500)
	store.On("CreateWithNoOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(repository.ErrOverlap)

	_, err := svc.Create(context.Background(), createInput(ModeCustomerPending))
	assert.ErrorIs(t, err, ErrConflict)
	store.AssertNumberOfCalls(t, "CreateWithNoOverlap", 1)
	assert.Empty(t, emitter.envelopes)
}

func TestCreate_RetriesSerializationFailure(t *testing.T) {
	svc, store, users, pricer, _ := newTestService()
	activeUser(users, 7)
	stubPricing(pricer, 7500)

	serialization := &pgconn.PgError{Code: "40001"}
	store.On("CreateWithNoOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(serialization).Twice()
	store.On("CreateWithNoOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()

	_, err := svc.Create(context.Background(), createInput(ModeAdminDirect))
	require.NoError(t, err)
	store.AssertNumberOfCalls(t, "CreateWithNoOverlap", 3)
}

func TestCreate_GivesUpAfterRepeatedFailures(t *testing.T) {
	svc, store, users, pricer, _ := newTestService()
	activeUser(users, 7)
	stubPricing(pricer, 7500)

	serialization := &pgconn.PgError{Code: "40001"}
	store.On("CreateWithNoOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(serialization)

	_, err := svc.Create(context.Background(), createInput(ModeAdminDirect))
	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	store.AssertNumberOfCalls(t, "CreateWithNoOverlap", 3)
}

func TestCreate_BlockedRequester(t *testing.T) {
	svc, _, users, _, _ := newTestService()
	users.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.User{ID: 7, IsBlocked: true}, nil)

	_, err := svc.Create(context.Background(), createInput(ModeCustomerPending))
	assert.ErrorIs(t, err, ErrRequesterBlocked)
}

func TestCreate_PastStartRejected(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	in := createInput(ModeCustomerPending)
	in.Start = fixedNow.Add(-time.Hour)
	in.End = fixedNow.Add(time.Hour)

	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCreate_EndBeforeStart(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	in := createInput(ModeCustomerPending)
	in.End = in.Start.Add(-time.Minute)

	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCancel_OwnerOK(t *testing.T) {
	svc, store, _, _, emitter := newTestService()
	store.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Reservation{ID: 5, UserID: 7, Status: domain.ReservationReserved}, nil)
	store.On("CancelWithReason", mock.Anything, int64(5), "change of plans", fixedNow).Return(nil)

	res, err := svc.Cancel(context.Background(), 5, Requester{UserID: 7, Role: string(domain.RoleCustomer)}, "change of plans")
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, res.Status)

	require.Len(t, emitter.envelopes, 1)
	assert.Equal(t, events.KeyReservationCancelled, emitter.envelopes[0].Key)
}

func TestCancel_OtherCustomerForbidden(t *testing.T) {
	svc, store, _, _, _ := newTestService()
	store.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Reservation{ID: 5, UserID: 7, Status: domain.ReservationReserved}, nil)

	_, err := svc.Cancel(context.Background(), 5, Requester{UserID: 8, Role: string(domain.RoleCustomer)}, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancel_TerminalRejected(t *testing.T) {
	svc, store, _, _, _ := newTestService()
	store.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Reservation{ID: 5, UserID: 7, Status: domain.ReservationCompleted}, nil)

	_, err := svc.Cancel(context.Background(), 5, Requester{UserID: 7, Role: string(domain.RoleCustomer)}, "")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestMarkPaid_ClearsHold(t *testing.T) {
	svc, store, _, _, emitter := newTestService()
	expires := fixedNow.Add(10 * time.Minute)
	store.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Reservation{ID: 5, Status: domain.ReservationPendingPayment, ReservationExpiresAt: &expires}, nil)
	store.On("MarkPaid", mock.Anything, int64(5)).
		Return(&domain.Reservation{ID: 5, Status: domain.ReservationPaid}, nil)

	res, err := svc.MarkPaid(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationPaid, res.Status)
	assert.Nil(t, res.ReservationExpiresAt)

	require.Len(t, emitter.envelopes, 1)
	assert.Equal(t, events.KeyReservationPaid, emitter.envelopes[0].Key)
}

func TestMarkPaid_ReservedAccepted(t *testing.T) {
	svc, store, _, _, emitter := newTestService()
	store.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Reservation{ID: 5, Status: domain.ReservationReserved}, nil)
	store.On("MarkPaid", mock.Anything, int64(5)).
		Return(&domain.Reservation{ID: 5, Status: domain.ReservationPaid}, nil)

	res, err := svc.MarkPaid(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationPaid, res.Status)

	require.Len(t, emitter.envelopes, 1)
	assert.Equal(t, events.KeyReservationPaid, emitter.envelopes[0].Key)
}

func TestMarkPaid_WrongStatus(t *testing.T) {
	svc, store, _, _, _ := newTestService()
	store.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Reservation{ID: 5, Status: domain.ReservationCancelled}, nil)

	_, err := svc.MarkPaid(context.Background(), 5)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

// The sweep can cancel the hold between the service's read and the update;
// the repository reports that as a stale status and the row stays final.
func TestMarkPaid_LostRaceWithSweep(t *testing.T) {
	svc, store, _, _, emitter := newTestService()
	store.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Reservation{ID: 5, Status: domain.ReservationPendingPayment}, nil)
	store.On("MarkPaid", mock.Anything, int64(5)).
		Return(nil, repository.ErrStaleStatus)

	_, err := svc.MarkPaid(context.Background(), 5)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Empty(t, emitter.envelopes)
}
