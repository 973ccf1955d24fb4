package cancel_booking

import "time"

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID                 int64    `json:"-"`
	ActorID                   int64    `json:"-"`
	Reason                    string   `json:"reason"`
	CancellationFeePercentage *float64 `json:"cancellationFeePercentage,omitempty"`
}

// Response модель ответа с отмененным бронированием
type Response struct {
	BookingID                 int64     `json:"bookingId"`
	BookingNumber             string    `json:"bookingNumber"`
	Status                    string    `json:"status"`
	CancelledAt               time.Time `json:"cancelledAt"`
	CancelledBy               int64     `json:"cancelledBy"`
	CancellationReason        string    `json:"cancellationReason"`
	CancellationFeePercentage *float64  `json:"cancellationFeePercentage,omitempty"`
	RestoredDayStatus         *string   `json:"restoredDayStatus,omitempty"` // статус дня в календаре после отмены
}
