package paymentservice

import "github.com/m04kA/BH-BookingService/pkg/types"

// QuoteRequest параметры расчета платежного плана
type QuoteRequest struct {
	RequestID  int64      `json:"request_id"`
	ProviderID int64      `json:"provider_id"`
	ClientID   int64      `json:"client_id"`
	EventDate  types.Date `json:"event_date"`
	EventType  string     `json:"event_type"`
	TotalPrice float64    `json:"total_price"`
}

// Quote платежный план от PaymentService
type Quote struct {
	DepositAmount         *float64    `json:"deposit_amount,omitempty"`
	DepositDueDate        *types.Date `json:"deposit_due_date,omitempty"`
	FinalPaymentAmount    *float64    `json:"final_payment_amount,omitempty"`
	FinalPaymentDueDate   *types.Date `json:"final_payment_due_date,omitempty"`
	PlatformFeePercentage *float64    `json:"platform_fee_percentage,omitempty"`
	PlatformFeeAmount     *float64    `json:"platform_fee_amount,omitempty"`
	ProviderPayoutAmount  *float64    `json:"provider_payout_amount,omitempty"`
}

// ErrorResponse модель ошибки от PaymentService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
