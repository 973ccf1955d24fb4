package create_request

import (
	"errors"
	"net/http"

	"github.com/m04kA/BH-BookingService/internal/api/handlers"
	"github.com/m04kA/BH-BookingService/internal/api/middleware"
	"github.com/m04kA/BH-BookingService/internal/service/requests"
	"github.com/m04kA/BH-BookingService/internal/service/requests/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgDateUnavailable    = "выбранная дата недоступна для бронирования"
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

// Handle POST /api/v1/booking-requests
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	var req models.CreateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking-requests - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.RequesterID = userID

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, requests.ErrInvalidInput):
			h.logger.Warn("POST /booking-requests - Validation failed: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, requests.ErrDateUnavailable):
			h.logger.Warn("POST /booking-requests - Date unavailable: provider_id=%d, date=%s",
				req.ProviderID, req.EventDate)
			handlers.RespondConflict(w, msgDateUnavailable)

		default:
			h.logger.Error("POST /booking-requests - Failed to create request: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /booking-requests - Request created: id=%d, provider_id=%d, requester_id=%d",
		result.ID, result.ProviderID, result.RequesterID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
