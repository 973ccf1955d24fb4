package requests

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/internal/integrations/notifier"
	"github.com/m04kA/BH-BookingService/internal/service/requests/models"
	"github.com/m04kA/BH-BookingService/internal/testutil/memstore"
	"github.com/m04kA/BH-BookingService/pkg/ptr"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

const (
	providerID  int64 = 10
	requesterID int64 = 20
	outsiderID  int64 = 30
)

var testNow = time.Date(2025, time.December, 10, 15, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type fixture struct {
	store    *memstore.Store
	notifier *memstore.Notifier
	clock    *fixedTime
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	n := &memstore.Notifier{}
	clock := &fixedTime{now: testNow}

	svc := NewService(store.Requests, store.Availability, n, 72*time.Hour, memstore.Logger{})
	svc.timeProvider = clock

	return &fixture{store: store, notifier: n, clock: clock, svc: svc}
}

func validCreate() *models.CreateRequest {
	return &models.CreateRequest{
		RequesterID:    requesterID,
		ProviderID:     providerID,
		EventDate:      types.NewDate(2025, time.December, 24),
		EventTimeStart: ptr.Ptr("19:00"),
		EventTimeEnd:   ptr.Ptr("23:00"),
		EventType:      string(domain.EventWedding),
		ProposedBudget: ptr.Ptr(1500.0),
		Message:        ptr.Ptr("Ceremony and party"),
	}
}

func (f *fixture) create(t *testing.T) *models.BookingRequestResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), validCreate())
	require.NoError(t, err)
	return resp
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	resp := f.create(t)

	assert.NotZero(t, resp.ID)
	assert.Equal(t, string(domain.RequestPending), resp.Status)
	assert.Equal(t, "2025-12-24", resp.EventDate.String())
	assert.Equal(t, ptr.Ptr("19:00"), resp.EventTimeStart)
	require.NotNil(t, resp.ExpiresAt)
	assert.True(t, resp.ExpiresAt.Equal(testNow.Add(72*time.Hour)))

	// календарь не меняется
	_, ok := f.store.Day(providerID, types.NewDate(2025, time.December, 24))
	assert.False(t, ok)

	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, providerID, sent[0].UserID)
	assert.Equal(t, notifier.KindRequestCreated, sent[0].Kind)
}

func TestCreate_ExplicitExpiresAt(t *testing.T) {
	f := newFixture(t)

	req := validCreate()
	deadline := testNow.Add(2 * time.Hour)
	req.ExpiresAt = &deadline

	resp, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.ExpiresAt)
	assert.True(t, resp.ExpiresAt.Equal(deadline))
}

func TestCreate_NoTTL(t *testing.T) {
	f := newFixture(t)
	f.svc.requestTTL = 0

	resp := f.create(t)
	assert.Nil(t, resp.ExpiresAt)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *models.CreateRequest)
	}{
		{"self booking", func(r *models.CreateRequest) { r.ProviderID = requesterID }},
		{"missing provider", func(r *models.CreateRequest) { r.ProviderID = 0 }},
		{"missing date", func(r *models.CreateRequest) { r.EventDate = types.Date{} }},
		{"past date", func(r *models.CreateRequest) { r.EventDate = types.NewDate(2025, time.December, 9) }},
		{"end before start", func(r *models.CreateRequest) { r.EventTimeEnd = ptr.Ptr("18:00") }},
		{"end equals start", func(r *models.CreateRequest) { r.EventTimeEnd = ptr.Ptr("19:00") }},
		{"bad time format", func(r *models.CreateRequest) { r.EventTimeStart = ptr.Ptr("7pm") }},
		{"unknown event type", func(r *models.CreateRequest) { r.EventType = "rave" }},
		{"negative budget", func(r *models.CreateRequest) { r.ProposedBudget = ptr.Ptr(-1.0) }},
		{"expires in the past", func(r *models.CreateRequest) { r.ExpiresAt = ptr.Ptr(testNow.Add(-time.Minute)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := validCreate()
			tt.modify(req)

			_, err := f.svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, f.notifier.Sent())
		})
	}
}

func TestCreate_TodayIsAllowed(t *testing.T) {
	f := newFixture(t)
	req := validCreate()
	req.EventDate = types.DateOf(testNow)

	_, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
}

func TestCreate_DateUnavailable(t *testing.T) {
	for _, status := range []domain.AvailabilityStatus{domain.AvailabilityBlocked, domain.AvailabilityBooked, domain.AvailabilityPending} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			f.store.PutDay(domain.AvailabilityDay{
				ProviderID: providerID,
				Date:       types.NewDate(2025, time.December, 24),
				Status:     status,
			})

			_, err := f.svc.Create(context.Background(), validCreate())
			assert.ErrorIs(t, err, ErrDateUnavailable)
			assert.ErrorIs(t, err, domain.ErrConflict)
		})
	}
}

func TestCreate_OpenGigIsClaimable(t *testing.T) {
	f := newFixture(t)
	f.store.PutDay(domain.AvailabilityDay{
		ProviderID: providerID,
		Date:       types.NewDate(2025, time.December, 24),
		Status:     domain.AvailabilityOpenGig,
	})

	_, err := f.svc.Create(context.Background(), validCreate())
	require.NoError(t, err)
}

func TestGetByID(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)

	for _, userID := range []int64{providerID, requesterID} {
		resp, err := f.svc.GetByID(context.Background(), created.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, resp.ID)
	}

	_, err := f.svc.GetByID(context.Background(), created.ID, outsiderID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetByID(context.Background(), 999, requesterID)
	assert.ErrorIs(t, err, ErrRequestNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByID_ExpiresOnRead(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)

	f.clock.now = testNow.Add(73 * time.Hour)

	resp, err := f.svc.GetByID(context.Background(), created.ID, requesterID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestExpired), resp.Status)

	var expired int
	for _, n := range f.notifier.Sent() {
		if n.Kind == notifier.KindRequestExpired {
			expired++
		}
	}
	assert.Equal(t, 2, expired, "both parties are notified")

	// повторное чтение не отправляет уведомления заново
	_, err = f.svc.GetByID(context.Background(), created.ID, providerID)
	require.NoError(t, err)
	assert.Len(t, f.notifier.Sent(), 3)
}

func TestList(t *testing.T) {
	f := newFixture(t)
	first := f.create(t)

	other := validCreate()
	other.EventDate = types.NewDate(2025, time.December, 31)
	second, err := f.svc.Create(context.Background(), other)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		RequestID: first.ID, ActorID: providerID, Status: string(domain.RequestRejected),
	})
	require.NoError(t, err)

	resp, err := f.svc.List(context.Background(), &models.ListRequest{UserID: requesterID, ActorID: requesterID})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, second.ID, resp.Requests[0].ID, "newest first")

	resp, err = f.svc.List(context.Background(), &models.ListRequest{
		UserID: providerID, ActorID: providerID, As: "provider", Status: ptr.Ptr("pending"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, second.ID, resp.Requests[0].ID)

	resp, err = f.svc.List(context.Background(), &models.ListRequest{UserID: providerID, ActorID: providerID})
	require.NoError(t, err)
	assert.Zero(t, resp.Total, "provider has no requests as requester")
}

func TestList_Rejects(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.List(context.Background(), &models.ListRequest{UserID: requesterID, ActorID: outsiderID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.List(context.Background(), &models.ListRequest{UserID: requesterID, ActorID: requesterID, As: "admin"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.List(context.Background(), &models.ListRequest{UserID: requesterID, ActorID: requesterID, Status: ptr.Ptr("lost")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_Reject(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)

	resp, err := f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		RequestID:       created.ID,
		ActorID:         providerID,
		Status:          string(domain.RequestRejected),
		RejectionReason: ptr.Ptr("Already on tour"),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestRejected), resp.Status)
	assert.Equal(t, ptr.Ptr("Already on tour"), resp.RejectionReason)
	require.NotNil(t, resp.RespondedAt)

	last := f.notifier.Sent()[len(f.notifier.Sent())-1]
	assert.Equal(t, requesterID, last.UserID)
	assert.Equal(t, notifier.KindRequestRejected, last.Kind)

	// терминальный статус
	_, err = f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		RequestID: created.ID, ActorID: requesterID, Status: string(domain.RequestCancelled),
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateStatus_RejectWithoutReason(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)

	resp, err := f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		RequestID: created.ID, ActorID: providerID, Status: string(domain.RequestRejected),
	})
	require.NoError(t, err)
	assert.Equal(t, ptr.Ptr(""), resp.RejectionReason)
}

func TestUpdateStatus_NegotiationRoundTrip(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)

	resp, err := f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		RequestID:      created.ID,
		ActorID:        providerID,
		Status:         string(domain.RequestNegotiating),
		CounterBudget:  ptr.Ptr(2000.0),
		CounterMessage: ptr.Ptr("Two sets"),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestNegotiating), resp.Status)
	assert.Equal(t, ptr.Ptr(2000.0), resp.CounterBudget)

	resp, err = f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		RequestID: created.ID, ActorID: requesterID, Status: string(domain.RequestPending),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestPending), resp.Status)
	assert.Equal(t, ptr.Ptr(2000.0), resp.ProposedBudget, "counter budget is accepted")

	kinds := make([]notifier.Kind, 0)
	for _, n := range f.notifier.Sent() {
		kinds = append(kinds, n.Kind)
	}
	assert.Equal(t, []notifier.Kind{
		notifier.KindRequestCreated,
		notifier.KindRequestNegotiating,
		notifier.KindRequestResubmitted,
	}, kinds)
}

func TestUpdateStatus_Cancel(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)

	resp, err := f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		RequestID:          created.ID,
		ActorID:            requesterID,
		Status:             string(domain.RequestCancelled),
		CancellationReason: ptr.Ptr("Venue closed"),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestCancelled), resp.Status)
	assert.Equal(t, ptr.Ptr(requesterID), resp.CancelledBy)
	assert.Equal(t, ptr.Ptr("Venue closed"), resp.CancellationReason)
	require.NotNil(t, resp.CancelledAt)
}

func TestUpdateStatus_Actors(t *testing.T) {
	tests := []struct {
		name    string
		actorID int64
		status  domain.BookingRequestStatus
		wantErr error
	}{
		{"requester cannot reject", requesterID, domain.RequestRejected, ErrWrongActor},
		{"provider cannot cancel", providerID, domain.RequestCancelled, ErrWrongActor},
		{"requester cannot negotiate", requesterID, domain.RequestNegotiating, ErrWrongActor},
		{"nobody sets expired", providerID, domain.RequestExpired, ErrWrongActor},
		{"accept has its own endpoint", providerID, domain.RequestAccepted, ErrInvalidInput},
		{"outsider", outsiderID, domain.RequestRejected, ErrAccessDenied},
		{"pending to pending", requesterID, domain.RequestPending, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			created := f.create(t)

			_, err := f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
				RequestID: created.ID, ActorID: tt.actorID, Status: string(tt.status),
			})
			assert.ErrorIs(t, err, tt.wantErr)

			stored, getErr := f.store.Requests.GetByID(context.Background(), created.ID)
			require.NoError(t, getErr)
			assert.Equal(t, domain.RequestPending, stored.Status, "request unchanged")
		})
	}
}

func TestUpdateStatus_Validation(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)

	_, err := f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		RequestID: created.ID, ActorID: providerID, Status: "archived",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		RequestID: created.ID, ActorID: providerID, Status: string(domain.RequestNegotiating), CounterBudget: ptr.Ptr(-5.0),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		RequestID: 404, ActorID: providerID, Status: string(domain.RequestRejected),
	})
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestUpdateStatus_OverdueRequest(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)

	f.clock.now = testNow.Add(100 * time.Hour)

	_, err := f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		RequestID: created.ID, ActorID: providerID, Status: string(domain.RequestRejected),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequestExpired))

	stored, err := f.store.Requests.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestExpired, stored.Status)
}

func TestUpdateStatus_TerminalRequestIsFinal(t *testing.T) {
	terminal := []domain.BookingRequestStatus{
		domain.RequestAccepted,
		domain.RequestRejected,
		domain.RequestCancelled,
		domain.RequestExpired,
	}
	targets := []domain.BookingRequestStatus{
		domain.RequestPending,
		domain.RequestNegotiating,
		domain.RequestAccepted,
		domain.RequestRejected,
		domain.RequestCancelled,
		domain.RequestExpired,
	}
	actors := []int64{providerID, requesterID, outsiderID}

	for _, from := range terminal {
		for _, to := range targets {
			for _, actorID := range actors {
				t.Run(fmt.Sprintf("%s->%s by %d", from, to, actorID), func(t *testing.T) {
					f := newFixture(t)
					stored := f.store.PutRequest(domain.BookingRequest{
						ProviderID:  providerID,
						RequesterID: requesterID,
						EventDate:   types.NewDate(2025, time.December, 24),
						EventType:   domain.EventWedding,
						Status:      from,
						CreatedAt:   testNow,
						UpdatedAt:   testNow,
					})

					_, err := f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
						RequestID: stored.ID, ActorID: actorID, Status: string(to),
					})
					require.Error(t, err)
					assert.ErrorIs(t, err, domain.ErrConflict)
					assert.ErrorIs(t, err, ErrInvalidTransition)

					after, getErr := f.store.Requests.GetByID(context.Background(), stored.ID)
					require.NoError(t, getErr)
					assert.Equal(t, from, after.Status)
					assert.Empty(t, f.notifier.Sent())
				})
			}
		}
	}
}

func TestUpdateStatus_ResumeExtendsDeadline(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)
	require.NotNil(t, created.ExpiresAt)

	f.clock.now = testNow.Add(time.Hour)
	_, err := f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		RequestID: created.ID, ActorID: providerID, Status: string(domain.RequestNegotiating),
	})
	require.NoError(t, err)

	// исходный срок истек, пока шли переговоры
	resumedAt := testNow.Add(80 * time.Hour)
	f.clock.now = resumedAt

	resp, err := f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		RequestID: created.ID, ActorID: requesterID, Status: string(domain.RequestPending),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.ExpiresAt)
	assert.True(t, resp.ExpiresAt.Equal(resumedAt.Add(72*time.Hour)))

	read, err := f.svc.GetByID(context.Background(), created.ID, providerID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestPending), read.Status)
}

func TestResumeDeadline(t *testing.T) {
	now := testNow
	ttl := 72 * time.Hour
	past := now.Add(-time.Hour)
	later := now.Add(100 * time.Hour)

	tests := []struct {
		name    string
		current *time.Time
		ttl     time.Duration
		want    *time.Time
	}{
		{"no deadline stays open", nil, ttl, nil},
		{"passed deadline is extended", &past, ttl, ptr.Ptr(now.Add(ttl))},
		{"later deadline is kept", &later, ttl, &later},
		{"ttl disabled keeps deadline", &past, 0, &past},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resumeDeadline(tt.current, now, tt.ttl)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(*tt.want))
		})
	}
}
