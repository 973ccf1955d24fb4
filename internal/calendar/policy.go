package calendar

import (
	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

// Role who is looking at the calendar
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
)

// IsValid returns true for known roles
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleProvider
}

// Mode calendar interaction mode
type Mode string

const (
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
)

// IsValid returns true for known modes
func (m Mode) IsValid() bool {
	return m == ModeView || m == ModeEdit
}

// CanSelect decides whether a cell is clickable.
//   - cells outside the current month never are;
//   - past days (today excluded) are not when disablePastDates is set;
//   - a customer viewing the calendar may pick only available and open_gig days;
//   - a provider editing the calendar may pick any day.
func CanSelect(cell Cell, role Role, mode Mode, disablePastDates bool) bool {
	if !cell.IsCurrentMonth {
		return false
	}
	if disablePastDates && cell.IsPast && !cell.IsToday {
		return false
	}
	if mode == ModeEdit && role == RoleProvider {
		return true
	}
	return cell.Status == domain.AvailabilityAvailable || cell.Status == domain.AvailabilityOpenGig
}

// EventKind what a click on a cell means
type EventKind string

const (
	EventDateSelected       EventKind = "date_selected"
	EventToggleAvailability EventKind = "toggle_availability"
)

// Event result of clicking a selectable cell
type Event struct {
	Kind           EventKind
	Date           types.Date
	PreviousStatus domain.AvailabilityStatus // set for toggle events
}

// Click returns the event emitted by clicking the cell; ok is false when the cell is not selectable.
// View mode seeds a new booking request date, edit mode asks the caller to pick the next status.
func Click(cell Cell, role Role, mode Mode, disablePastDates bool) (Event, bool) {
	if !CanSelect(cell, role, mode, disablePastDates) {
		return Event{}, false
	}
	if mode == ModeEdit {
		return Event{
			Kind:           EventToggleAvailability,
			Date:           cell.Date,
			PreviousStatus: cell.Status,
		}, true
	}
	return Event{Kind: EventDateSelected, Date: cell.Date}, true
}

// NextStatus default edit cycle: available -> blocked -> open_gig -> available.
// Booked and pending days belong to the booking flow and keep their status.
func NextStatus(previous domain.AvailabilityStatus) domain.AvailabilityStatus {
	switch previous {
	case domain.AvailabilityAvailable:
		return domain.AvailabilityBlocked
	case domain.AvailabilityBlocked:
		return domain.AvailabilityOpenGig
	case domain.AvailabilityOpenGig:
		return domain.AvailabilityAvailable
	default:
		return previous
	}
}
