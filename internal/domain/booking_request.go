package domain

import (
	"time"

	"github.com/m04kA/BH-BookingService/pkg/types"
)

// EventType kind of event a provider is booked for
type EventType string

const (
	EventWedding      EventType = "wedding"
	EventCorporate    EventType = "corporate"
	EventPrivateParty EventType = "private_party"
	EventClub         EventType = "club"
	EventFestival     EventType = "festival"
	EventBirthday     EventType = "birthday"
	EventConcert      EventType = "concert"
	EventGala         EventType = "gala"
	EventOther        EventType = "other"
)

// EventTypes all valid event types
var EventTypes = []EventType{
	EventWedding,
	EventCorporate,
	EventPrivateParty,
	EventClub,
	EventFestival,
	EventBirthday,
	EventConcert,
	EventGala,
	EventOther,
}

// IsValid returns true if the event type belongs to the closed set
func (t EventType) IsValid() bool {
	for _, v := range EventTypes {
		if t == v {
			return true
		}
	}
	return false
}

// BookingRequestStatus represents the status of a booking request
type BookingRequestStatus string

const (
	RequestPending     BookingRequestStatus = "pending"
	RequestAccepted    BookingRequestStatus = "accepted"
	RequestRejected    BookingRequestStatus = "rejected"
	RequestNegotiating BookingRequestStatus = "negotiating"
	RequestCancelled   BookingRequestStatus = "cancelled"
	RequestExpired     BookingRequestStatus = "expired"
)

// BookingRequestStatuses all valid request statuses
var BookingRequestStatuses = []BookingRequestStatus{
	RequestPending,
	RequestAccepted,
	RequestRejected,
	RequestNegotiating,
	RequestCancelled,
	RequestExpired,
}

// IsValid returns true if the status belongs to the closed set
func (s BookingRequestStatus) IsValid() bool {
	for _, v := range BookingRequestStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transition is possible
func (s BookingRequestStatus) IsTerminal() bool {
	switch s {
	case RequestAccepted, RequestRejected, RequestCancelled, RequestExpired:
		return true
	default:
		return false
	}
}

// Actor role of the party performing a transition
type Actor string

const (
	ActorProvider  Actor = "provider"
	ActorRequester Actor = "requester"
	ActorSystem    Actor = "system"
)

type requestTransition struct {
	to    BookingRequestStatus
	actor Actor
}

// requestTransitions allowed (from -> to) pairs together with the only actor permitted to perform them
var requestTransitions = map[BookingRequestStatus][]requestTransition{
	RequestPending: {
		{to: RequestAccepted, actor: ActorProvider},
		{to: RequestRejected, actor: ActorProvider},
		{to: RequestNegotiating, actor: ActorProvider},
		{to: RequestCancelled, actor: ActorRequester},
		{to: RequestExpired, actor: ActorSystem},
	},
	RequestNegotiating: {
		{to: RequestPending, actor: ActorRequester},
		{to: RequestAccepted, actor: ActorProvider},
		{to: RequestRejected, actor: ActorProvider},
		{to: RequestCancelled, actor: ActorRequester},
	},
}

// CanTransitionRequest checks whether from -> to exists in the state machine
func CanTransitionRequest(from, to BookingRequestStatus) bool {
	for _, t := range requestTransitions[from] {
		if t.to == to {
			return true
		}
	}
	return false
}

// RequestTransitionActor returns the actor allowed to move a request from -> to
func RequestTransitionActor(from, to BookingRequestStatus) (Actor, bool) {
	for _, t := range requestTransitions[from] {
		if t.to == to {
			return t.actor, true
		}
	}
	return "", false
}

// RequestSourceStatuses returns every status from which `to` is reachable.
// Used as the compare-and-swap guard of a status update.
func RequestSourceStatuses(to BookingRequestStatus) []BookingRequestStatus {
	sources := make([]BookingRequestStatus, 0, 2)
	for _, from := range BookingRequestStatuses {
		if CanTransitionRequest(from, to) {
			sources = append(sources, from)
		}
	}
	return sources
}

// BookingRequest proposal of a date/time from a requester to a provider
type BookingRequest struct {
	ID              int64
	ProviderID      int64
	RequesterID     int64
	EventDate       types.Date
	EventTimeStart  *types.TimeString
	EventTimeEnd    *types.TimeString
	EventType       EventType
	LocationName    *string
	LocationAddress *string
	ProposedBudget  *float64
	Message         *string
	Status          BookingRequestStatus

	RejectionReason *string

	// Counter-offer recorded while negotiating
	CounterBudget  *float64
	CounterMessage *string

	CancelledAt        *time.Time
	CancelledBy        *int64
	CancellationReason *string

	ExpiresAt   *time.Time
	RespondedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsExpiredAt returns true if the request is pending and its deadline has passed
func (r *BookingRequest) IsExpiredAt(now time.Time) bool {
	return r.Status == RequestPending && r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

// ActorOf resolves the role a user plays in the request; ok is false for outsiders
func (r *BookingRequest) ActorOf(userID int64) (Actor, bool) {
	switch userID {
	case r.ProviderID:
		return ActorProvider, true
	case r.RequesterID:
		return ActorRequester, true
	default:
		return "", false
	}
}

// IsParticipant returns true if the user is the provider or the requester
func (r *BookingRequest) IsParticipant(userID int64) bool {
	_, ok := r.ActorOf(userID)
	return ok
}

// RequestTransition describes the fields written together with a request status change
type RequestTransition struct {
	To                 BookingRequestStatus
	At                 time.Time
	RejectionReason    *string
	CounterBudget      *float64
	CounterMessage     *string
	ProposedBudget     *float64
	ExpiresAt          *time.Time
	CancelledBy        *int64
	CancellationReason *string
}

// RequestsFilter filter for listing requests of a user
type RequestsFilter struct {
	ProviderID  *int64
	RequesterID *int64
	Status      *BookingRequestStatus
}
