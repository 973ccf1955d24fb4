package cancel_booking

import (
	"context"
	"strings"
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

const (
	providerID int64 = 10
	clientID   int64 = 20
)

var (
	testNow   = time.Date(2025, time.December, 10, 15, 0, 0, 0, time.UTC)
	eventDate = types.NewDate(2025, time.December, 24)
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fixture struct {
	store    *memstore.Store
	notifier *memstore.Notifier
	uc       *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	n := &memstore.Notifier{}
	uc := NewUseCase(store.Bookings, store.Availability, n, store.Tx, memstore.Logger{})
	uc.timeProvider = fixedTime{now: testNow}

	return &fixture{store: store, notifier: n, uc: uc}
}

// bookedDay создает бронирование и связанный с ним день, бывший в статусе previous
func (f *fixture) bookedDay(status domain.BookingStatus, previous domain.AvailabilityStatus) domain.Booking {
	b := f.store.PutBooking(domain.Booking{
		BookingNumber: "BH-2025-424242",
		ProviderID:    providerID,
		ClientID:      clientID,
		EventDate:     eventDate,
		EventType:     domain.EventConcert,
		Status:        status,
		PayoutStatus:  domain.PayoutPending,
	})
	f.store.PutDay(domain.AvailabilityDay{
		ProviderID:      providerID,
		Date:            eventDate,
		Status:          domain.AvailabilityBooked,
		LinkedBookingID: ptr.Ptr(b.ID),
		PreviousStatus:  ptr.Ptr(previous),
	})
	return b
}

func TestExecute_RestoresAvailability(t *testing.T) {
	for _, previous := range []domain.AvailabilityStatus{domain.AvailabilityAvailable, domain.AvailabilityOpenGig} {
		t.Run(string(previous), func(t *testing.T) {
			f := newFixture(t)
			b := f.bookedDay(domain.StatusConfirmed, previous)

			resp, err := f.uc.Execute(context.Background(), &Request{
				BookingID:                 b.ID,
				ActorID:                   clientID,
				Reason:                    "Event postponed",
				CancellationFeePercentage: ptr.Ptr(25.0),
			})
			require.NoError(t, err)

			assert.Equal(t, string(domain.StatusCancelled), resp.Status)
			assert.Equal(t, clientID, resp.CancelledBy)
			assert.Equal(t, ptr.Ptr(string(previous)), resp.RestoredDayStatus)

			stored, err := f.store.Bookings.GetByID(context.Background(), b.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.StatusCancelled, stored.Status)
			assert.Equal(t, ptr.Ptr("Event postponed"), stored.CancellationReason)
			assert.Equal(t, ptr.Ptr(25.0), stored.CancellationFeePercentage)

			day, ok := f.store.Day(providerID, eventDate)
			require.True(t, ok)
			assert.Equal(t, previous, day.Status)
			assert.Nil(t, day.LinkedBookingID)
			assert.Nil(t, day.PreviousStatus)

			sent := f.notifier.Sent()
			require.Len(t, sent, 1)
			assert.Equal(t, providerID, sent[0].UserID)
			assert.Equal(t, notifier.KindBookingCancelled, sent[0].Kind)
		})
	}
}

func TestExecute_ProviderCancelsFromInProgress(t *testing.T) {
	f := newFixture(t)
	b := f.bookedDay(domain.StatusInProgress, domain.AvailabilityAvailable)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: b.ID, ActorID: providerID, Reason: "Illness"})
	require.NoError(t, err)

	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, clientID, sent[0].UserID)
}

func TestExecute_DayNoLongerLinked(t *testing.T) {
	f := newFixture(t)
	b := f.store.PutBooking(domain.Booking{
		ProviderID: providerID, ClientID: clientID, EventDate: eventDate,
		Status: domain.StatusConfirmed, PayoutStatus: domain.PayoutPending,
	})

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: b.ID, ActorID: clientID, Reason: "Changed plans"})
	require.NoError(t, err)
	assert.Nil(t, resp.RestoredDayStatus)
	assert.Equal(t, 1, f.store.Tx.Commits)
}

func TestExecute_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		status domain.BookingStatus
		req    Request
		want   error
	}{
		{"missing reason", domain.StatusConfirmed, Request{ActorID: clientID, Reason: "  "}, ErrInvalidInput},
		{"long reason", domain.StatusConfirmed, Request{ActorID: clientID, Reason: strings.Repeat("x", domain.MaxReasonLength+1)}, ErrInvalidInput},
		{"fee above 100", domain.StatusConfirmed, Request{ActorID: clientID, Reason: "r", CancellationFeePercentage: ptr.Ptr(120.0)}, ErrInvalidInput},
		{"negative fee", domain.StatusConfirmed, Request{ActorID: clientID, Reason: "r", CancellationFeePercentage: ptr.Ptr(-1.0)}, ErrInvalidInput},
		{"outsider", domain.StatusConfirmed, Request{ActorID: 99, Reason: "r"}, ErrAccessDenied},
		{"already cancelled", domain.StatusCancelled, Request{ActorID: clientID, Reason: "r"}, ErrCannotCancel},
		{"completed", domain.StatusCompleted, Request{ActorID: clientID, Reason: "r"}, ErrCannotCancel},
		{"disputed", domain.StatusDisputed, Request{ActorID: clientID, Reason: "r"}, ErrCannotCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			b := f.bookedDay(tt.status, domain.AvailabilityOpenGig)

			req := tt.req
			req.BookingID = b.ID
			_, err := f.uc.Execute(context.Background(), &req)
			assert.ErrorIs(t, err, tt.want)

			day, ok := f.store.Day(providerID, eventDate)
			require.True(t, ok)
			assert.Equal(t, domain.AvailabilityBooked, day.Status, "calendar untouched")
			assert.Empty(t, f.notifier.Sent())
		})
	}
}

func TestExecute_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 7, ActorID: clientID, Reason: "r"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
