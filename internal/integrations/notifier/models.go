package notifier

import (
	"encoding/json"
	"time"
)

// Kind тип уведомления
type Kind string

const (
	KindRequestCreated       Kind = "booking_request.created"
	KindRequestAccepted      Kind = "booking_request.accepted"
	KindRequestRejected      Kind = "booking_request.rejected"
	KindRequestNegotiating   Kind = "booking_request.negotiating"
	KindRequestResubmitted   Kind = "booking_request.resubmitted"
	KindRequestCancelled     Kind = "booking_request.cancelled"
	KindRequestExpired       Kind = "booking_request.expired"
	KindBookingStatusChanged Kind = "booking.status_changed"
	KindBookingCancelled     Kind = "booking.cancelled"
	KindContractAttached     Kind = "booking.contract_attached"
	KindContractSigned       Kind = "booking.contract_signed"
	KindPaymentReceived      Kind = "booking.payment_received"
	KindPayoutUpdated        Kind = "booking.payout_updated"
)

// Payload произвольные данные уведомления
type Payload map[string]interface{}

// Event уведомление пользователю
type Event struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"user_id"`
	Kind       Kind      `json:"kind"`
	Payload    Payload   `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e Event) encode() ([]byte, error) {
	return json.Marshal(e)
}
