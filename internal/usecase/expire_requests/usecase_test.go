package expire_requests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/internal/integrations/notifier"
	"github.com/m04kA/BH-BookingService/internal/testutil/memstore"
	"github.com/m04kA/BH-BookingService/pkg/ptr"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

var testNow = time.Date(2025, time.December, 10, 15, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type failingRepo struct{}

func (failingRepo) ExpireDue(context.Context, time.Time, uint64) ([]*domain.BookingRequest, error) {
	return nil, errors.New("connection reset")
}

func newUseCase(store *memstore.Store, n *memstore.Notifier, batch uint64) *UseCase {
	uc := NewUseCase(store.Requests, n, store.Tx, batch, memstore.Logger{})
	uc.timeProvider = fixedTime{now: testNow}
	return uc
}

func putRequest(store *memstore.Store, status domain.BookingRequestStatus, expiresAt *time.Time) domain.BookingRequest {
	return store.PutRequest(domain.BookingRequest{
		ProviderID:  1,
		RequesterID: 2,
		EventDate:   types.NewDate(2025, time.December, 20),
		EventType:   domain.EventBirthday,
		Status:      status,
		ExpiresAt:   expiresAt,
	})
}

func TestExecute(t *testing.T) {
	store := memstore.New()
	n := &memstore.Notifier{}

	overdue := putRequest(store, domain.RequestPending, ptr.Ptr(testNow.Add(-time.Hour)))
	fresh := putRequest(store, domain.RequestPending, ptr.Ptr(testNow.Add(time.Hour)))
	noDeadline := putRequest(store, domain.RequestPending, nil)
	negotiating := putRequest(store, domain.RequestNegotiating, ptr.Ptr(testNow.Add(-time.Hour)))

	count, err := newUseCase(store, n, 100).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	want := map[int64]domain.BookingRequestStatus{
		overdue.ID:     domain.RequestExpired,
		fresh.ID:       domain.RequestPending,
		noDeadline.ID:  domain.RequestPending,
		negotiating.ID: domain.RequestNegotiating,
	}
	for id, status := range want {
		stored, err := store.Requests.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, status, stored.Status, "request %d", id)
	}

	sent := n.Sent()
	require.Len(t, sent, 2)
	for _, s := range sent {
		assert.Equal(t, notifier.KindRequestExpired, s.Kind)
	}
}

func TestExecute_Batches(t *testing.T) {
	store := memstore.New()
	n := &memstore.Notifier{}
	for i := 0; i < 7; i++ {
		putRequest(store, domain.RequestPending, ptr.Ptr(testNow.Add(-time.Duration(i+1)*time.Minute)))
	}

	count, err := newUseCase(store, n, 3).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.Equal(t, 3, store.Tx.Commits, "3 + 3 + 1")

	count, err = newUseCase(store, n, 3).Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count, "idempotent")
}

func TestExecute_RepositoryError(t *testing.T) {
	store := memstore.New()
	uc := NewUseCase(failingRepo{}, &memstore.Notifier{}, store.Tx, 10, memstore.Logger{})

	_, err := uc.Execute(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestRun_StopsOnCancel(t *testing.T) {
	store := memstore.New()
	putRequest(store, domain.RequestPending, ptr.Ptr(testNow.Add(-time.Hour)))
	uc := newUseCase(store, &memstore.Notifier{}, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		uc.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		stored, err := store.Requests.GetByID(context.Background(), 1)
		return err == nil && stored.Status == domain.RequestExpired
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
