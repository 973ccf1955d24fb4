package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BH-BookingService/internal/domain"
	availabilityRepo "github.com/m04kA/BH-BookingService/internal/infra/storage/availability"
	"github.com/m04kA/BH-BookingService/internal/service/availability/models"
	"github.com/m04kA/BH-BookingService/pkg/ptr"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRepo struct {
	days map[types.Date]*domain.AvailabilityDay
}

func newFakeRepo(days ...*domain.AvailabilityDay) *fakeRepo {
	r := &fakeRepo{days: make(map[types.Date]*domain.AvailabilityDay)}
	for _, d := range days {
		r.days[d.Date] = d
	}
	return r
}

func (r *fakeRepo) GetRange(_ context.Context, _ int64, from, to types.Date) ([]*domain.AvailabilityDay, error) {
	result := make([]*domain.AvailabilityDay, 0)
	for date, d := range r.days {
		if !date.Before(from) && !date.After(to) {
			result = append(result, d)
		}
	}
	return result, nil
}

func (r *fakeRepo) Get(_ context.Context, _ int64, date types.Date) (*domain.AvailabilityDay, error) {
	if d, ok := r.days[date]; ok {
		return d, nil
	}
	return nil, availabilityRepo.ErrDayNotFound
}

func (r *fakeRepo) Upsert(_ context.Context, day *domain.AvailabilityDay) (*domain.AvailabilityDay, error) {
	existing, ok := r.days[day.Date]
	if ok && existing.IsLinkedToBooking() {
		status := day.Status
		existing.PreviousStatus = &status
		existing.TimeSlots = day.TimeSlots
		existing.Notes = day.Notes
		return existing, nil
	}
	r.days[day.Date] = day
	return day, nil
}

func (r *fakeRepo) Delete(_ context.Context, _ int64, date types.Date) error {
	d, ok := r.days[date]
	if !ok {
		return availabilityRepo.ErrDayNotFound
	}
	if d.IsLinkedToBooking() {
		return availabilityRepo.ErrDayBooked
	}
	delete(r.days, date)
	return nil
}

func newTestService(repo *fakeRepo) *Service {
	svc := NewService(repo, nopLogger{})
	svc.timeProvider = fixedTime{now: time.Date(2025, time.December, 10, 15, 0, 0, 0, time.UTC)}
	return svc
}

func TestGetCalendar_CustomerView(t *testing.T) {
	repo := newFakeRepo(
		&domain.AvailabilityDay{ProviderID: 1, Date: types.NewDate(2025, time.December, 24), Status: domain.AvailabilityBlocked},
		&domain.AvailabilityDay{ProviderID: 1, Date: types.NewDate(2025, time.December, 26), Status: domain.AvailabilityOpenGig},
	)
	svc := newTestService(repo)

	resp, err := svc.GetCalendar(context.Background(), &models.GetCalendarRequest{
		ProviderID:       1,
		Year:             2025,
		Month:            12,
		DisablePastDates: true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Cells, 35)
	assert.Equal(t, "customer", resp.Role)
	assert.Equal(t, "view", resp.Mode)

	byDate := make(map[string]models.CellResponse)
	for _, c := range resp.Cells {
		byDate[c.Date.String()] = c
	}

	assert.False(t, byDate["2025-12-24"].IsSelectable, "blocked")
	assert.True(t, byDate["2025-12-26"].IsSelectable, "open gig")
	assert.True(t, byDate["2025-12-25"].IsSelectable, "no record means available")
	assert.True(t, byDate["2025-12-10"].IsSelectable, "today")
	assert.True(t, byDate["2025-12-10"].IsToday)
	assert.False(t, byDate["2025-12-09"].IsSelectable, "past")
	assert.False(t, byDate["2026-01-02"].IsSelectable, "next month padding")
}

func TestGetCalendar_Validation(t *testing.T) {
	svc := newTestService(newFakeRepo())

	tests := []struct {
		name string
		req  models.GetCalendarRequest
	}{
		{"month zero", models.GetCalendarRequest{ProviderID: 1, Year: 2025, Month: 0}},
		{"month 13", models.GetCalendarRequest{ProviderID: 1, Year: 2025, Month: 13}},
		{"no provider", models.GetCalendarRequest{Year: 2025, Month: 1}},
		{"customer edit", models.GetCalendarRequest{ProviderID: 1, Year: 2025, Month: 1, Role: "customer", Mode: "edit"}},
		{"unknown role", models.GetCalendarRequest{ProviderID: 1, Year: 2025, Month: 1, Role: "admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetCalendar(context.Background(), &tt.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestSetDay(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	resp, err := svc.SetDay(context.Background(), &models.SetDayRequest{
		ProviderID: 1,
		ActorID:    1,
		Date:       types.NewDate(2025, time.December, 20),
		Status:     "open_gig",
		TimeSlots:  []models.TimeSlotDTO{{Start: "20:00", End: "23:00"}, {Start: "12:00", End: "14:00"}},
		Notes:      ptr.Ptr("Matinee and evening"),
	})
	require.NoError(t, err)
	assert.Equal(t, "open_gig", resp.Status)
	require.Len(t, resp.TimeSlots, 2)
	assert.Equal(t, "12:00", resp.TimeSlots[0].Start, "slots are sorted")
	assert.True(t, resp.HasTimeSlots)
}

func TestSetDay_LinkedDayKeepsBooked(t *testing.T) {
	bookingID := int64(9)
	date := types.NewDate(2025, time.December, 25)
	repo := newFakeRepo(&domain.AvailabilityDay{
		ProviderID:      1,
		Date:            date,
		Status:          domain.AvailabilityBooked,
		LinkedBookingID: &bookingID,
		PreviousStatus:  ptr.Ptr(domain.AvailabilityAvailable),
	})
	svc := newTestService(repo)

	resp, err := svc.SetDay(context.Background(), &models.SetDayRequest{ProviderID: 1, ActorID: 1, Date: date, Status: "blocked"})
	require.NoError(t, err)
	assert.Equal(t, "booked", resp.Status)
	require.NotNil(t, resp.RestoreStatus)
	assert.Equal(t, "blocked", *resp.RestoreStatus)
}

func TestSetDay_Rejects(t *testing.T) {
	svc := newTestService(newFakeRepo())
	future := types.NewDate(2025, time.December, 20)

	tests := []struct {
		name string
		req  models.SetDayRequest
		kind error
	}{
		{"other user", models.SetDayRequest{ProviderID: 1, ActorID: 2, Date: future, Status: "blocked"}, domain.ErrForbidden},
		{"booked by hand", models.SetDayRequest{ProviderID: 1, ActorID: 1, Date: future, Status: "booked"}, domain.ErrValidation},
		{"unknown status", models.SetDayRequest{ProviderID: 1, ActorID: 1, Date: future, Status: "busy"}, domain.ErrValidation},
		{"past date", models.SetDayRequest{ProviderID: 1, ActorID: 1, Date: types.NewDate(2025, time.December, 9), Status: "blocked"}, domain.ErrValidation},
		{"overlapping slots", models.SetDayRequest{
			ProviderID: 1, ActorID: 1, Date: future, Status: "available",
			TimeSlots: []models.TimeSlotDTO{{Start: "10:00", End: "12:00"}, {Start: "11:00", End: "13:00"}},
		}, domain.ErrValidation},
		{"slot ends before start", models.SetDayRequest{
			ProviderID: 1, ActorID: 1, Date: future, Status: "available",
			TimeSlots: []models.TimeSlotDTO{{Start: "12:00", End: "10:00"}},
		}, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SetDay(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestDeleteDay(t *testing.T) {
	bookingID := int64(3)
	blocked := types.NewDate(2025, time.December, 20)
	booked := types.NewDate(2025, time.December, 21)
	repo := newFakeRepo(
		&domain.AvailabilityDay{ProviderID: 1, Date: blocked, Status: domain.AvailabilityBlocked},
		&domain.AvailabilityDay{ProviderID: 1, Date: booked, Status: domain.AvailabilityBooked, LinkedBookingID: &bookingID},
	)
	svc := newTestService(repo)
	ctx := context.Background()

	require.NoError(t, svc.DeleteDay(ctx, &models.DeleteDayRequest{ProviderID: 1, ActorID: 1, Date: blocked}))
	assert.ErrorIs(t, svc.DeleteDay(ctx, &models.DeleteDayRequest{ProviderID: 1, ActorID: 1, Date: blocked}), ErrDayNotFound)
	assert.ErrorIs(t, svc.DeleteDay(ctx, &models.DeleteDayRequest{ProviderID: 1, ActorID: 1, Date: booked}), domain.ErrConflict)
	assert.ErrorIs(t, svc.DeleteDay(ctx, &models.DeleteDayRequest{ProviderID: 1, ActorID: 7, Date: booked}), ErrAccessDenied)
}
