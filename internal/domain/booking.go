package domain

import (
	"time"

	"github.com/m04kA/BH-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusDisputed   BookingStatus = "disputed"
	StatusRefunded   BookingStatus = "refunded"
)

// BookingStatuses all valid booking statuses
var BookingStatuses = []BookingStatus{
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusDisputed,
	StatusRefunded,
}

// IsValid returns true if the status belongs to the closed set
func (s BookingStatus) IsValid() bool {
	for _, v := range BookingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transition is possible
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRefunded
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusDisputed},
	StatusInProgress: {StatusCompleted, StatusCancelled, StatusDisputed},
	StatusCompleted:  {StatusDisputed},
	StatusDisputed:   {StatusRefunded},
}

// CanTransitionBooking checks whether from -> to exists in the state machine
func CanTransitionBooking(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// BookingSourceStatuses returns every status from which `to` is reachable
func BookingSourceStatuses(to BookingStatus) []BookingStatus {
	sources := make([]BookingStatus, 0, 3)
	for _, from := range BookingStatuses {
		if CanTransitionBooking(from, to) {
			sources = append(sources, from)
		}
	}
	return sources
}

// PayoutStatus stored payout status
type PayoutStatus string

const (
	PayoutPending    PayoutStatus = "pending"
	PayoutScheduled  PayoutStatus = "scheduled"
	PayoutProcessing PayoutStatus = "processing"
	PayoutCompleted  PayoutStatus = "completed"
	PayoutFailed     PayoutStatus = "failed"

	// PayoutNotSet derived only: no payout amount is known yet
	PayoutNotSet PayoutStatus = "not_set"
)

// IsValid returns true for statuses that may be stored
func (s PayoutStatus) IsValid() bool {
	switch s {
	case PayoutPending, PayoutScheduled, PayoutProcessing, PayoutCompleted, PayoutFailed:
		return true
	default:
		return false
	}
}

var payoutTransitions = map[PayoutStatus][]PayoutStatus{
	PayoutPending:    {PayoutScheduled},
	PayoutScheduled:  {PayoutProcessing, PayoutFailed},
	PayoutProcessing: {PayoutCompleted, PayoutFailed},
	PayoutFailed:     {PayoutScheduled},
}

// CanAdvancePayout checks whether the payout may move from -> to
func CanAdvancePayout(from, to PayoutStatus) bool {
	for _, next := range payoutTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ContractStatus derived co-signature state
type ContractStatus string

const (
	ContractNone          ContractStatus = "none"
	ContractAwaitingBoth  ContractStatus = "awaiting_both"
	ContractAwaitingOne   ContractStatus = "awaiting_one"
	ContractFullyExecuted ContractStatus = "fully_executed"
)

// ContractParty a signing party
type ContractParty string

const (
	PartyProvider ContractParty = "provider"
	PartyClient   ContractParty = "client"
)

// ContractState derived contract status; PendingParty is set only for awaiting_one
type ContractState struct {
	Status       ContractStatus
	PendingParty *ContractParty
}

// MilestoneKind payment milestone kind
type MilestoneKind string

const (
	MilestoneDeposit MilestoneKind = "deposit"
	MilestoneFinal   MilestoneKind = "final"
)

// IsValid returns true for known milestone kinds
func (k MilestoneKind) IsValid() bool {
	return k == MilestoneDeposit || k == MilestoneFinal
}

// PaymentMilestone derived view over an amount/due-date/paid-at triplet
type PaymentMilestone struct {
	Kind         MilestoneKind
	Amount       float64
	DueDate      *types.Date
	PaidAt       *time.Time
	IsPaid       bool
	IsOverdue    bool
	DaysUntilDue *int // nil once paid or when no due date
}

// Booking confirmed engagement created from an accepted request
type Booking struct {
	ID            int64
	BookingNumber string
	RequestID     int64
	ProviderID    int64
	ClientID      int64

	// Event fields copied from the request at acceptance, immutable afterwards
	EventDate       types.Date
	EventTimeStart  *types.TimeString
	EventTimeEnd    *types.TimeString
	EventType       EventType
	LocationName    *string
	LocationAddress *string

	TotalPrice          float64
	DepositAmount       *float64
	DepositDueDate      *types.Date
	DepositPaidAt       *time.Time
	FinalPaymentAmount  *float64
	FinalPaymentDueDate *types.Date
	FinalPaymentPaidAt  *time.Time

	PlatformFeePercentage *float64
	PlatformFeeAmount     *float64
	ProviderPayoutAmount  *float64
	PayoutStatus          PayoutStatus
	PayoutScheduledDate   *types.Date
	PayoutCompletedAt     *time.Time

	ContractURL              *string
	ContractSignedProvider   bool
	ContractSignedProviderAt *time.Time
	ContractSignedClient     bool
	ContractSignedClientAt   *time.Time

	Status BookingStatus

	CancelledAt               *time.Time
	CancelledBy               *int64
	CancellationReason        *string
	CancellationFeePercentage *float64

	// Opaque external calendar references
	ProviderCalendarEventID *string
	ClientCalendarEventID   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PartyOf resolves the contract party of a user; ok is false for outsiders
func (b *Booking) PartyOf(userID int64) (ContractParty, bool) {
	switch userID {
	case b.ProviderID:
		return PartyProvider, true
	case b.ClientID:
		return PartyClient, true
	default:
		return "", false
	}
}

// IsParticipant returns true if the user is the provider or the client
func (b *Booking) IsParticipant(userID int64) bool {
	_, ok := b.PartyOf(userID)
	return ok
}

// Contract derives the contract status from the stored signature flags
func (b *Booking) Contract() ContractState {
	if b.ContractURL == nil || *b.ContractURL == "" {
		return ContractState{Status: ContractNone}
	}

	switch {
	case b.ContractSignedProvider && b.ContractSignedClient:
		return ContractState{Status: ContractFullyExecuted}
	case b.ContractSignedProvider:
		party := PartyClient
		return ContractState{Status: ContractAwaitingOne, PendingParty: &party}
	case b.ContractSignedClient:
		party := PartyProvider
		return ContractState{Status: ContractAwaitingOne, PendingParty: &party}
	default:
		return ContractState{Status: ContractAwaitingBoth}
	}
}

// HasAnySignature returns true if at least one party has signed
func (b *Booking) HasAnySignature() bool {
	return b.ContractSignedProvider || b.ContractSignedClient
}

// PaymentMilestones derives zero, one or two milestones relative to today
func (b *Booking) PaymentMilestones(today types.Date) []PaymentMilestone {
	milestones := make([]PaymentMilestone, 0, 2)
	if b.DepositAmount != nil {
		milestones = append(milestones, newMilestone(MilestoneDeposit, *b.DepositAmount, b.DepositDueDate, b.DepositPaidAt, today))
	}
	if b.FinalPaymentAmount != nil {
		milestones = append(milestones, newMilestone(MilestoneFinal, *b.FinalPaymentAmount, b.FinalPaymentDueDate, b.FinalPaymentPaidAt, today))
	}
	return milestones
}

func newMilestone(kind MilestoneKind, amount float64, due *types.Date, paidAt *time.Time, today types.Date) PaymentMilestone {
	m := PaymentMilestone{
		Kind:    kind,
		Amount:  amount,
		DueDate: due,
		PaidAt:  paidAt,
		IsPaid:  paidAt != nil,
	}
	if m.IsPaid || due == nil {
		return m
	}
	days := today.DaysUntil(*due)
	m.DaysUntilDue = &days
	m.IsOverdue = due.Before(today)
	return m
}

// MilestonePaidAt returns the paid-at of a milestone; ok is false if the milestone does not exist
func (b *Booking) MilestonePaidAt(kind MilestoneKind) (paidAt *time.Time, ok bool) {
	switch kind {
	case MilestoneDeposit:
		return b.DepositPaidAt, b.DepositAmount != nil
	case MilestoneFinal:
		return b.FinalPaymentPaidAt, b.FinalPaymentAmount != nil
	default:
		return nil, false
	}
}

// DerivedPayoutStatus computes the displayed payout status.
// Priority: completed > failed > processing > scheduled > pending > not_set.
func (b *Booking) DerivedPayoutStatus() PayoutStatus {
	switch {
	case b.PayoutCompletedAt != nil || b.PayoutStatus == PayoutCompleted:
		return PayoutCompleted
	case b.PayoutStatus == PayoutFailed:
		return PayoutFailed
	case b.PayoutStatus == PayoutProcessing:
		return PayoutProcessing
	case b.PayoutScheduledDate != nil || b.PayoutStatus == PayoutScheduled:
		return PayoutScheduled
	case b.ProviderPayoutAmount != nil:
		return PayoutPending
	default:
		return PayoutNotSet
	}
}

// BookingTransition describes the fields written together with a booking status change
type BookingTransition struct {
	To                        BookingStatus
	At                        time.Time
	CancelledBy               *int64
	CancellationReason        *string
	CancellationFeePercentage *float64
}

// PayoutUpdate describes a payout status change
type PayoutUpdate struct {
	From          PayoutStatus
	To            PayoutStatus
	ScheduledDate *types.Date
	CompletedAt   *time.Time
}

// BookingsFilter filter for listing bookings of a user
type BookingsFilter struct {
	ProviderID *int64
	ClientID   *int64
	Status     *BookingStatus
	StartDate  *types.Date
	EndDate    *types.Date
}

// PaymentQuote financial fields supplied by the payment collaborator
type PaymentQuote struct {
	DepositAmount         *float64
	DepositDueDate        *types.Date
	FinalPaymentAmount    *float64
	FinalPaymentDueDate   *types.Date
	PlatformFeePercentage *float64
	PlatformFeeAmount     *float64
	ProviderPayoutAmount  *float64
}

// Apply copies quote fields onto the booking
func (q *PaymentQuote) Apply(b *Booking) {
	b.DepositAmount = q.DepositAmount
	b.DepositDueDate = q.DepositDueDate
	b.FinalPaymentAmount = q.FinalPaymentAmount
	b.FinalPaymentDueDate = q.FinalPaymentDueDate
	b.PlatformFeePercentage = q.PlatformFeePercentage
	b.PlatformFeeAmount = q.PlatformFeeAmount
	b.ProviderPayoutAmount = q.ProviderPayoutAmount
}

// ScheduledTotal sum of deposit and final payment
func (q *PaymentQuote) ScheduledTotal() float64 {
	var total float64
	if q.DepositAmount != nil {
		total += *q.DepositAmount
	}
	if q.FinalPaymentAmount != nil {
		total += *q.FinalPaymentAmount
	}
	return total
}
