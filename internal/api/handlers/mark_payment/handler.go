package mark_payment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/BH-BookingService/internal/api/handlers"
	"github.com/m04kA/BH-BookingService/internal/service/bookings"
	"github.com/m04kA/BH-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID  = "некорректный ID бронирования"
	msgNotFound          = "бронирование не найдено"
	msgMilestoneConflict = "платеж уже отмечен или не запланирован"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /internal/bookings/{bookingId}/payments/{milestone}
// Вызывается PaymentService, milestone: deposit | final
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /internal/bookings/{id}/payments/{milestone} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}
	milestone := mux.Vars(r)["milestone"]

	result, err := h.service.MarkMilestonePaid(r.Context(), &models.MarkPaidRequest{
		BookingID: bookingID,
		Milestone: milestone,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /internal/bookings/{id}/payments/{milestone} - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /internal/bookings/{id}/payments/{milestone} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrMilestoneConflict):
			h.logger.Warn("POST /internal/bookings/{id}/payments/{milestone} - Milestone conflict: booking_id=%d, milestone=%s",
				bookingID, milestone)
			handlers.RespondConflict(w, msgMilestoneConflict)

		default:
			h.logger.Error("POST /internal/bookings/{id}/payments/{milestone} - Failed to mark payment: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /internal/bookings/{id}/payments/{milestone} - Payment recorded: booking_id=%d, milestone=%s",
		bookingID, milestone)
	handlers.RespondJSON(w, http.StatusOK, result)
}
