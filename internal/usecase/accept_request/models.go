package accept_request

import (
	"time"

	"github.com/m04kA/BH-BookingService/pkg/types"
)

// Request модель запроса на принятие
type Request struct {
	RequestID  int64    `json:"-"`
	ActorID    int64    `json:"-"`
	TotalPrice *float64 `json:"totalPrice,omitempty"` // если не задана, берется proposedBudget запроса
}

// Response модель ответа: принятый запрос и созданное бронирование
type Response struct {
	RequestID     int64      `json:"requestId"`
	RequestStatus string     `json:"requestStatus"`
	BookingID     int64      `json:"bookingId"`
	BookingNumber string     `json:"bookingNumber"`
	BookingStatus string     `json:"bookingStatus"`
	ProviderID    int64      `json:"providerId"`
	ClientID      int64      `json:"clientId"`
	EventDate     types.Date `json:"eventDate"`
	TotalPrice    float64    `json:"totalPrice"`

	// Финансовые поля отсутствуют, если PaymentService был недоступен
	DepositAmount        *float64    `json:"depositAmount,omitempty"`
	DepositDueDate       *types.Date `json:"depositDueDate,omitempty"`
	FinalPaymentAmount   *float64    `json:"finalPaymentAmount,omitempty"`
	FinalPaymentDueDate  *types.Date `json:"finalPaymentDueDate,omitempty"`
	ProviderPayoutAmount *float64    `json:"providerPayoutAmount,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
