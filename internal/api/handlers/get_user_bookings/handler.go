package get_user_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/BH-BookingService/internal/api/handlers"
	"github.com/m04kA/BH-BookingService/internal/api/middleware"
	"github.com/m04kA/BH-BookingService/internal/service/bookings"
	"github.com/m04kA/BH-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidUserID    = "некорректный ID пользователя"
	msgInvalidStartDate = "некорректная дата startDate, ожидается YYYY-MM-DD"
	msgInvalidEndDate   = "некорректная дата endDate, ожидается YYYY-MM-DD"
	msgForbidden        = "можно смотреть только свои бронирования"
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

// Handle GET /api/v1/users/{userId}/bookings
// Query params: as (provider | client, по умолчанию client), status, startDate, endDate (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	// Извлекаем userId из URL
	userID, err := handlers.PathID(r, "userId")
	if err != nil {
		h.logger.Warn("GET /users/{userId}/bookings - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	startDate, err := handlers.QueryDate(r, "startDate")
	if err != nil {
		h.logger.Warn("GET /users/{userId}/bookings - Invalid start date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartDate)
		return
	}
	endDate, err := handlers.QueryDate(r, "endDate")
	if err != nil {
		h.logger.Warn("GET /users/{userId}/bookings - Invalid end date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEndDate)
		return
	}

	serviceReq := &models.GetUserBookingsRequest{
		UserID:    userID,
		ActorID:   actorID,
		As:        r.URL.Query().Get("as"),
		Status:    handlers.QueryString(r, "status"),
		StartDate: startDate,
		EndDate:   endDate,
	}

	result, err := h.service.GetUserBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /users/{userId}/bookings - Access denied: user_id=%d, actor_id=%d", userID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /users/{userId}/bookings - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /users/{userId}/bookings - Failed to get bookings: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/{userId}/bookings - Bookings retrieved successfully: user_id=%d, count=%d",
		userID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
