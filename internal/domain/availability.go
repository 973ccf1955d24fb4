package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/BH-BookingService/pkg/types"
)

// AvailabilityStatus represents the status of a provider's calendar day
type AvailabilityStatus string

const (
	AvailabilityAvailable AvailabilityStatus = "available"
	AvailabilityBooked    AvailabilityStatus = "booked"
	AvailabilityPending   AvailabilityStatus = "pending"
	AvailabilityBlocked   AvailabilityStatus = "blocked"
	AvailabilityOpenGig   AvailabilityStatus = "open_gig"
)

// AvailabilityStatuses all valid availability statuses
var AvailabilityStatuses = []AvailabilityStatus{
	AvailabilityAvailable,
	AvailabilityBooked,
	AvailabilityPending,
	AvailabilityBlocked,
	AvailabilityOpenGig,
}

// ClaimableStatuses statuses a booking may claim on acceptance
var ClaimableStatuses = []AvailabilityStatus{
	AvailabilityAvailable,
	AvailabilityOpenGig,
}

// IsValid returns true if the status belongs to the closed set
func (s AvailabilityStatus) IsValid() bool {
	for _, v := range AvailabilityStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsClaimable returns true if a booking may claim a day in this status
func (s AvailabilityStatus) IsClaimable() bool {
	return s == AvailabilityAvailable || s == AvailabilityOpenGig
}

// TimeSlot wall-clock interval within a day
type TimeSlot struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// AvailabilityDay per-provider, per-date availability record.
// Absence of a record means the day is available.
type AvailabilityDay struct {
	ProviderID      int64
	Date            types.Date
	Status          AvailabilityStatus
	TimeSlots       []TimeSlot
	Notes           *string
	LinkedBookingID *int64 // weak back-reference, lookup only

	// PreviousStatus status held immediately before a booking claimed the day
	PreviousStatus *AvailabilityStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultAvailabilityDay returns the implicit record for a date without a stored row
func DefaultAvailabilityDay(providerID int64, date types.Date) *AvailabilityDay {
	return &AvailabilityDay{
		ProviderID: providerID,
		Date:       date,
		Status:     AvailabilityAvailable,
	}
}

// HasTimeSlots returns true if the day carries at least one time slot
func (d *AvailabilityDay) HasTimeSlots() bool {
	return len(d.TimeSlots) > 0
}

// IsLinkedToBooking returns true if a booking owns the day
func (d *AvailabilityDay) IsLinkedToBooking() bool {
	return d.LinkedBookingID != nil
}

// RestoreStatus status to return to when the linked booking is cancelled
func (d *AvailabilityDay) RestoreStatus() AvailabilityStatus {
	return RestoreStatusFrom(d.PreviousStatus)
}

// RestoreStatusFrom applies the restoration rule: the status held before the claim,
// or available if it is unknown or was itself a booking-owned status.
func RestoreStatusFrom(previous *AvailabilityStatus) AvailabilityStatus {
	if previous == nil || !previous.IsValid() || *previous == AvailabilityBooked {
		return AvailabilityAvailable
	}
	return *previous
}

// NormalizeTimeSlots validates slots and returns them sorted by start time.
// Slots must have end after start and must not overlap.
func NormalizeTimeSlots(slots []TimeSlot) ([]TimeSlot, error) {
	if len(slots) > MaxTimeSlotsPerDay {
		return nil, fmt.Errorf("%w: at most %d time slots per day", ErrValidation, MaxTimeSlotsPerDay)
	}

	result := make([]TimeSlot, len(slots))
	copy(result, slots)

	for _, slot := range result {
		if err := slot.Start.Validate(); err != nil {
			return nil, fmt.Errorf("%w: time slot start: %v", ErrValidation, err)
		}
		if err := slot.End.Validate(); err != nil {
			return nil, fmt.Errorf("%w: time slot end: %v", ErrValidation, err)
		}
		if !slot.End.IsAfter(slot.Start) {
			return nil, fmt.Errorf("%w: time slot %s-%s ends before it starts", ErrValidation, slot.Start, slot.End)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Start.IsBefore(result[j].Start)
	})

	for i := 1; i < len(result); i++ {
		if result[i].Start.IsBefore(result[i-1].End) {
			return nil, fmt.Errorf("%w: time slots %s-%s and %s-%s overlap", ErrValidation,
				result[i-1].Start, result[i-1].End, result[i].Start, result[i].End)
		}
	}

	return result, nil
}
