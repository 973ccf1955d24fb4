package models

import (
	"time"

	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID    int64
	ActorID   int64
	As        string      // provider | client
	Status    *string     // фильтр по статусу (опционально)
	StartDate *types.Date // начало периода (опционально)
	EndDate   *types.Date // конец периода (опционально)
}

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	BookingID int64  `json:"-"`
	ActorID   int64  `json:"-"`
	Status    string `json:"status"`
}

// AttachContractRequest запрос на прикрепление договора
type AttachContractRequest struct {
	BookingID   int64  `json:"-"`
	ActorID     int64  `json:"-"`
	ContractURL string `json:"contractUrl"`
}

// SignContractRequest запрос на подпись договора
type SignContractRequest struct {
	BookingID int64 `json:"-"`
	ActorID   int64 `json:"-"`
}

// MarkPaidRequest отметка об оплате (от PaymentService)
type MarkPaidRequest struct {
	BookingID int64  `json:"-"`
	Milestone string `json:"-"` // deposit | final
}

// UpdatePayoutRequest смена статуса выплаты (от PaymentService)
type UpdatePayoutRequest struct {
	BookingID     int64       `json:"-"`
	Status        string      `json:"status"`
	ScheduledDate *types.Date `json:"scheduledDate,omitempty"` // обязательно для scheduled
}

// Response модели

// ContractResponse производное состояние договора
type ContractResponse struct {
	URL          *string    `json:"url,omitempty"`
	Status       string     `json:"status"`
	PendingParty *string    `json:"pendingParty,omitempty"`
	ProviderAt   *time.Time `json:"providerSignedAt,omitempty"`
	ClientAt     *time.Time `json:"clientSignedAt,omitempty"`
}

// MilestoneResponse платеж по графику
type MilestoneResponse struct {
	Kind         string      `json:"kind"`
	Amount       float64     `json:"amount"`
	DueDate      *types.Date `json:"dueDate,omitempty"`
	PaidAt       *time.Time  `json:"paidAt,omitempty"`
	IsPaid       bool        `json:"isPaid"`
	IsOverdue    bool        `json:"isOverdue"`
	DaysUntilDue *int        `json:"daysUntilDue,omitempty"`
}

// PayoutResponse выплата провайдеру
type PayoutResponse struct {
	Amount        *float64    `json:"amount,omitempty"`
	Status        string      `json:"status"`
	ScheduledDate *types.Date `json:"scheduledDate,omitempty"`
	CompletedAt   *time.Time  `json:"completedAt,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64      `json:"id"`
	BookingNumber   string     `json:"bookingNumber"`
	RequestID       int64      `json:"requestId"`
	ProviderID      int64      `json:"providerId"`
	ClientID        int64      `json:"clientId"`
	EventDate       types.Date `json:"eventDate"`
	EventTimeStart  *string    `json:"eventTimeStart,omitempty"`
	EventTimeEnd    *string    `json:"eventTimeEnd,omitempty"`
	EventType       string     `json:"eventType"`
	LocationName    *string    `json:"locationName,omitempty"`
	LocationAddress *string    `json:"locationAddress,omitempty"`
	Status          string     `json:"status"`

	TotalPrice            float64             `json:"totalPrice"`
	PlatformFeePercentage *float64            `json:"platformFeePercentage,omitempty"`
	PlatformFeeAmount     *float64            `json:"platformFeeAmount,omitempty"`
	Milestones            []MilestoneResponse `json:"milestones"`
	Payout                PayoutResponse      `json:"payout"`
	Contract              ContractResponse    `json:"contract"`

	CancelledAt               *time.Time `json:"cancelledAt,omitempty"`
	CancelledBy               *int64     `json:"cancelledBy,omitempty"`
	CancellationReason        *string    `json:"cancellationReason,omitempty"`
	CancellationFeePercentage *float64   `json:"cancellationFeePercentage,omitempty"`

	ProviderCalendarEventID *string `json:"providerCalendarEventId,omitempty"`
	ClientCalendarEventID   *string `json:"clientCalendarEventId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// FromDomainBooking конвертирует доменную модель в ответ.
// Состояние договора, платежей и выплаты вычисляется относительно today.
func FromDomainBooking(b *domain.Booking, today types.Date) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                        b.ID,
		BookingNumber:             b.BookingNumber,
		RequestID:                 b.RequestID,
		ProviderID:                b.ProviderID,
		ClientID:                  b.ClientID,
		EventDate:                 b.EventDate,
		EventTimeStart:            timeString(b.EventTimeStart),
		EventTimeEnd:              timeString(b.EventTimeEnd),
		EventType:                 string(b.EventType),
		LocationName:              b.LocationName,
		LocationAddress:           b.LocationAddress,
		Status:                    string(b.Status),
		TotalPrice:                b.TotalPrice,
		PlatformFeePercentage:     b.PlatformFeePercentage,
		PlatformFeeAmount:         b.PlatformFeeAmount,
		CancelledAt:               b.CancelledAt,
		CancelledBy:               b.CancelledBy,
		CancellationReason:        b.CancellationReason,
		CancellationFeePercentage: b.CancellationFeePercentage,
		ProviderCalendarEventID:   b.ProviderCalendarEventID,
		ClientCalendarEventID:     b.ClientCalendarEventID,
		CreatedAt:                 b.CreatedAt,
		UpdatedAt:                 b.UpdatedAt,
		Payout: PayoutResponse{
			Amount:        b.ProviderPayoutAmount,
			Status:        string(b.DerivedPayoutStatus()),
			ScheduledDate: b.PayoutScheduledDate,
			CompletedAt:   b.PayoutCompletedAt,
		},
	}

	contract := b.Contract()
	resp.Contract = ContractResponse{
		URL:        b.ContractURL,
		Status:     string(contract.Status),
		ProviderAt: b.ContractSignedProviderAt,
		ClientAt:   b.ContractSignedClientAt,
	}
	if contract.PendingParty != nil {
		party := string(*contract.PendingParty)
		resp.Contract.PendingParty = &party
	}

	milestones := b.PaymentMilestones(today)
	resp.Milestones = make([]MilestoneResponse, 0, len(milestones))
	for _, m := range milestones {
		resp.Milestones = append(resp.Milestones, MilestoneResponse{
			Kind:         string(m.Kind),
			Amount:       m.Amount,
			DueDate:      m.DueDate,
			PaidAt:       m.PaidAt,
			IsPaid:       m.IsPaid,
			IsOverdue:    m.IsOverdue,
			DaysUntilDue: m.DaysUntilDue,
		})
	}

	return resp
}

// FromDomainBookingList конвертирует список доменных моделей в ответ
func FromDomainBookingList(bookings []*domain.Booking, today types.Date) *BookingListResponse {
	result := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, FromDomainBooking(b, today))
	}
	return &BookingListResponse{
		Bookings: result,
		Total:    len(result),
	}
}

func timeString(t *types.TimeString) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}
