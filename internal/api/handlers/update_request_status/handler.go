package update_request_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/BH-BookingService/internal/api/handlers"
	"github.com/m04kA/BH-BookingService/internal/api/middleware"
	"github.com/m04kA/BH-BookingService/internal/service/requests"
	"github.com/m04kA/BH-BookingService/internal/service/requests/models"
)

const (
	msgInvalidRequestID   = "некорректный ID запроса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "запрос бронирования не найден"
	msgForbidden          = "доступ запрещен"
	msgWrongActor         = "этот переход выполняет другая сторона"
	msgInvalidTransition  = "недопустимый переход статуса"
	msgExpired            = "срок ответа на запрос истек"
)

type Handler struct {
	service RequestService
	logger  Logger
}

func NewHandler(service RequestService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/booking-requests/{requestId}/status
// Тело: {"status": "rejected|negotiating|pending|cancelled", ...}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	requestID, err := handlers.PathID(r, "requestId")
	if err != nil {
		h.logger.Warn("PATCH /booking-requests/{id}/status - Invalid request ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	var req models.UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /booking-requests/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.RequestID = requestID
	req.ActorID = userID

	result, err := h.service.UpdateStatus(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, requests.ErrInvalidInput):
			h.logger.Warn("PATCH /booking-requests/{id}/status - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, requests.ErrRequestNotFound):
			h.logger.Warn("PATCH /booking-requests/{id}/status - Request not found: request_id=%d", requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, requests.ErrWrongActor):
			h.logger.Warn("PATCH /booking-requests/{id}/status - Wrong actor: request_id=%d, user_id=%d, status=%s",
				requestID, userID, req.Status)
			handlers.RespondForbidden(w, msgWrongActor)

		case errors.Is(err, requests.ErrAccessDenied):
			h.logger.Warn("PATCH /booking-requests/{id}/status - Access denied: request_id=%d, user_id=%d", requestID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, requests.ErrRequestExpired):
			h.logger.Warn("PATCH /booking-requests/{id}/status - Request expired: request_id=%d", requestID)
			handlers.RespondConflict(w, msgExpired)

		case errors.Is(err, requests.ErrInvalidTransition):
			h.logger.Warn("PATCH /booking-requests/{id}/status - Invalid transition: request_id=%d, status=%s",
				requestID, req.Status)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /booking-requests/{id}/status - Failed to update status: request_id=%d, error=%v", requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /booking-requests/{id}/status - Status updated: request_id=%d, status=%s", requestID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
