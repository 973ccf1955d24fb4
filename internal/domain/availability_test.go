package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BH-BookingService/pkg/ptr"
)

func TestRestoreStatusFrom(t *testing.T) {
	assert.Equal(t, AvailabilityAvailable, RestoreStatusFrom(nil))
	assert.Equal(t, AvailabilityOpenGig, RestoreStatusFrom(ptr.Ptr(AvailabilityOpenGig)))
	assert.Equal(t, AvailabilityBlocked, RestoreStatusFrom(ptr.Ptr(AvailabilityBlocked)))
	assert.Equal(t, AvailabilityAvailable, RestoreStatusFrom(ptr.Ptr(AvailabilityBooked)))
	assert.Equal(t, AvailabilityAvailable, RestoreStatusFrom(ptr.Ptr(AvailabilityStatus("garbage"))))
}

func TestAvailabilityStatus(t *testing.T) {
	assert.True(t, AvailabilityAvailable.IsClaimable())
	assert.True(t, AvailabilityOpenGig.IsClaimable())
	assert.False(t, AvailabilityBlocked.IsClaimable())
	assert.False(t, AvailabilityBooked.IsClaimable())
	assert.False(t, AvailabilityPending.IsClaimable())
	assert.False(t, AvailabilityStatus("busy").IsValid())
}

func TestNormalizeTimeSlots(t *testing.T) {
	slots, err := NormalizeTimeSlots([]TimeSlot{
		{Start: "20:00", End: "23:00"},
		{Start: "12:00", End: "14:00"},
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "12:00", slots[0].Start.String())

	_, err = NormalizeTimeSlots([]TimeSlot{{Start: "14:00", End: "12:00"}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NormalizeTimeSlots([]TimeSlot{{Start: "12:00", End: "15:00"}, {Start: "14:00", End: "16:00"}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NormalizeTimeSlots([]TimeSlot{{Start: "12:00", End: "14:00"}, {Start: "14:00", End: "16:00"}})
	assert.NoError(t, err)

	_, err = NormalizeTimeSlots([]TimeSlot{{Start: "noon", End: "14:00"}})
	assert.ErrorIs(t, err, ErrValidation)
}
