package get_user_requests

import (
	"errors"
	"net/http"

	"github.com/m04kA/BH-BookingService/internal/api/handlers"
	"github.com/m04kA/BH-BookingService/internal/api/middleware"
	"github.com/m04kA/BH-BookingService/internal/service/requests"
	"github.com/m04kA/BH-BookingService/internal/service/requests/models"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgForbidden     = "можно смотреть только свои запросы"
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

// Handle GET /api/v1/users/{userId}/booking-requests
// Query params: as (provider | requester, по умолчанию requester), status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	userID, err := handlers.PathID(r, "userId")
	if err != nil {
		h.logger.Warn("GET /users/{userId}/booking-requests - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	req := &models.ListRequest{
		UserID:  userID,
		ActorID: actorID,
		As:      r.URL.Query().Get("as"),
		Status:  handlers.QueryString(r, "status"),
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, requests.ErrAccessDenied):
			h.logger.Warn("GET /users/{userId}/booking-requests - Access denied: user_id=%d, actor_id=%d", userID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, requests.ErrInvalidInput):
			h.logger.Warn("GET /users/{userId}/booking-requests - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /users/{userId}/booking-requests - Failed to list requests: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/{userId}/booking-requests - Requests retrieved: user_id=%d, count=%d", userID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
