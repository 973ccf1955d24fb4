package update_payout

import (
	"errors"
	"net/http"

	"github.com/m04kA/BH-BookingService/internal/api/handlers"
	"github.com/m04kA/BH-BookingService/internal/service/bookings"
	"github.com/m04kA/BH-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgPayoutConflict     = "выплата не может перейти в указанный статус"
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

// Handle PATCH /internal/bookings/{bookingId}/payout
// Тело: {"status": "scheduled", "scheduledDate": "2026-01-15"}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /internal/bookings/{id}/payout - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req models.UpdatePayoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /internal/bookings/{id}/payout - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.BookingID = bookingID

	result, err := h.service.UpdatePayout(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /internal/bookings/{id}/payout - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /internal/bookings/{id}/payout - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrPayoutConflict):
			h.logger.Warn("PATCH /internal/bookings/{id}/payout - Payout conflict: booking_id=%d, status=%s", bookingID, req.Status)
			handlers.RespondConflict(w, msgPayoutConflict)

		default:
			h.logger.Error("PATCH /internal/bookings/{id}/payout - Failed to update payout: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /internal/bookings/{id}/payout - Payout updated: booking_id=%d, status=%s", bookingID, result.Payout.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
