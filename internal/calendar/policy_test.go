package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

func cell(status domain.AvailabilityStatus, currentMonth, past, today bool) Cell {
	return Cell{
		Date:           types.NewDate(2025, time.June, 15),
		Status:         status,
		IsCurrentMonth: currentMonth,
		IsPast:         past,
		IsToday:        today,
	}
}

func TestCanSelect_CustomerView(t *testing.T) {
	tests := []struct {
		status domain.AvailabilityStatus
		want   bool
	}{
		{domain.AvailabilityAvailable, true},
		{domain.AvailabilityOpenGig, true},
		{domain.AvailabilityBooked, false},
		{domain.AvailabilityPending, false},
		{domain.AvailabilityBlocked, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, CanSelect(cell(tt.status, true, false, false), RoleCustomer, ModeView, true))
		})
	}
}

func TestCanSelect_ProviderEdit(t *testing.T) {
	for _, status := range domain.AvailabilityStatuses {
		assert.True(t, CanSelect(cell(status, true, false, false), RoleProvider, ModeEdit, true), status)
	}
}

func TestCanSelect_CommonRules(t *testing.T) {
	for _, role := range []Role{RoleCustomer, RoleProvider} {
		for _, mode := range []Mode{ModeView, ModeEdit} {
			// соседний месяц никогда не выбирается
			assert.False(t, CanSelect(cell(domain.AvailabilityAvailable, false, false, false), role, mode, false))

			// прошлое блокируется только с disablePastDates
			assert.False(t, CanSelect(cell(domain.AvailabilityAvailable, true, true, false), role, mode, true))
			assert.True(t, CanSelect(cell(domain.AvailabilityAvailable, true, true, false), role, mode, false))

			// сегодня всегда можно выбрать
			assert.True(t, CanSelect(cell(domain.AvailabilityAvailable, true, false, true), role, mode, true))
		}
	}
}

func TestClick(t *testing.T) {
	c := cell(domain.AvailabilityOpenGig, true, false, false)

	ev, ok := Click(c, RoleCustomer, ModeView, true)
	assert.True(t, ok)
	assert.Equal(t, EventDateSelected, ev.Kind)
	assert.Equal(t, c.Date, ev.Date)

	ev, ok = Click(c, RoleProvider, ModeEdit, true)
	assert.True(t, ok)
	assert.Equal(t, EventToggleAvailability, ev.Kind)
	assert.Equal(t, domain.AvailabilityOpenGig, ev.PreviousStatus)

	_, ok = Click(cell(domain.AvailabilityBooked, true, false, false), RoleCustomer, ModeView, true)
	assert.False(t, ok)
}

func TestNextStatus(t *testing.T) {
	assert.Equal(t, domain.AvailabilityBlocked, NextStatus(domain.AvailabilityAvailable))
	assert.Equal(t, domain.AvailabilityOpenGig, NextStatus(domain.AvailabilityBlocked))
	assert.Equal(t, domain.AvailabilityAvailable, NextStatus(domain.AvailabilityOpenGig))
	assert.Equal(t, domain.AvailabilityBooked, NextStatus(domain.AvailabilityBooked))
	assert.Equal(t, domain.AvailabilityPending, NextStatus(domain.AvailabilityPending))
}
