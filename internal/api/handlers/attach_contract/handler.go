package attach_contract

import (
	"errors"
	"net/http"

	"github.com/m04kA/BH-BookingService/internal/api/handlers"
	"github.com/m04kA/BH-BookingService/internal/api/middleware"
	"github.com/m04kA/BH-BookingService/internal/service/bookings"
	"github.com/m04kA/BH-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "прикрепить договор может только провайдер"
	msgContractConflict   = "договор уже подписан или бронирование закрыто"
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

// Handle PUT /api/v1/bookings/{bookingId}/contract
// Тело: {"contractUrl": "https://..."}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PUT /bookings/{id}/contract - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req models.AttachContractRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id}/contract - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.BookingID = bookingID
	req.ActorID = userID

	result, err := h.service.AttachContract(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PUT /bookings/{id}/contract - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id}/contract - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied), errors.Is(err, bookings.ErrWrongParty):
			h.logger.Warn("PUT /bookings/{id}/contract - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrContractConflict):
			h.logger.Warn("PUT /bookings/{id}/contract - Contract conflict: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgContractConflict)

		default:
			h.logger.Error("PUT /bookings/{id}/contract - Failed to attach contract: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id}/contract - Contract attached: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
