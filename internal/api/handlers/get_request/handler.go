package get_request

import (
	"errors"
	"net/http"

	"github.com/m04kA/BH-BookingService/internal/api/handlers"
	"github.com/m04kA/BH-BookingService/internal/api/middleware"
	"github.com/m04kA/BH-BookingService/internal/service/requests"
)

const (
	msgInvalidRequestID = "некорректный ID запроса"
	msgNotFound         = "запрос бронирования не найден"
	msgForbidden        = "доступ запрещен"
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

// Handle GET /api/v1/booking-requests/{requestId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	requestID, err := handlers.PathID(r, "requestId")
	if err != nil {
		h.logger.Warn("GET /booking-requests/{id} - Invalid request ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	result, err := h.service.GetByID(r.Context(), requestID, userID)
	if err != nil {
		switch {
		case errors.Is(err, requests.ErrRequestNotFound):
			h.logger.Warn("GET /booking-requests/{id} - Request not found: request_id=%d", requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, requests.ErrAccessDenied):
			h.logger.Warn("GET /booking-requests/{id} - Access denied: request_id=%d, user_id=%d", requestID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /booking-requests/{id} - Failed to get request: request_id=%d, error=%v", requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /booking-requests/{id} - Request retrieved: request_id=%d, status=%s", requestID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
