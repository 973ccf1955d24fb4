package accept_request

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/BH-BookingService/internal/api/handlers"
	"github.com/m04kA/BH-BookingService/internal/api/middleware"
	acceptRequest "github.com/m04kA/BH-BookingService/internal/usecase/accept_request"
)

const (
	msgInvalidRequestID   = "некорректный ID запроса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "запрос бронирования не найден"
	msgForbidden          = "доступ запрещен"
	msgNotProvider        = "принять запрос может только провайдер"
	msgInvalidTransition  = "запрос уже не ожидает ответа"
	msgExpired            = "срок ответа на запрос истек"
	msgDateUnavailable    = "дата уже занята или заблокирована"
)

type Handler struct {
	useCase AcceptRequestUseCase
	logger  Logger
}

func NewHandler(useCase AcceptRequestUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/booking-requests/{requestId}/accept
// Тело запроса необязательно: {"totalPrice": 1500}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	requestID, err := handlers.PathID(r, "requestId")
	if err != nil {
		h.logger.Warn("POST /booking-requests/{id}/accept - Invalid request ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	var req acceptRequest.Request
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /booking-requests/{id}/accept - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.RequestID = requestID
	req.ActorID = userID

	result, err := h.useCase.Execute(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, acceptRequest.ErrInvalidInput):
			h.logger.Warn("POST /booking-requests/{id}/accept - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, acceptRequest.ErrRequestNotFound):
			h.logger.Warn("POST /booking-requests/{id}/accept - Request not found: request_id=%d", requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, acceptRequest.ErrNotProvider):
			h.logger.Warn("POST /booking-requests/{id}/accept - Not a provider: request_id=%d, user_id=%d", requestID, userID)
			handlers.RespondForbidden(w, msgNotProvider)

		case errors.Is(err, acceptRequest.ErrAccessDenied):
			h.logger.Warn("POST /booking-requests/{id}/accept - Access denied: request_id=%d, user_id=%d", requestID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, acceptRequest.ErrRequestExpired):
			h.logger.Warn("POST /booking-requests/{id}/accept - Request expired: request_id=%d", requestID)
			handlers.RespondConflict(w, msgExpired)

		case errors.Is(err, acceptRequest.ErrInvalidTransition):
			h.logger.Warn("POST /booking-requests/{id}/accept - Invalid transition: request_id=%d", requestID)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, acceptRequest.ErrDateUnavailable):
			h.logger.Warn("POST /booking-requests/{id}/accept - Date unavailable: request_id=%d", requestID)
			handlers.RespondConflict(w, msgDateUnavailable)

		default:
			h.logger.Error("POST /booking-requests/{id}/accept - Failed to accept request: request_id=%d, error=%v", requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /booking-requests/{id}/accept - Request accepted: request_id=%d, booking_id=%d, number=%s",
		requestID, result.BookingID, result.BookingNumber)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
