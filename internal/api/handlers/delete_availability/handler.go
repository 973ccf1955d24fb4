package delete_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/BH-BookingService/internal/api/handlers"
	"github.com/m04kA/BH-BookingService/internal/api/middleware"
	"github.com/m04kA/BH-BookingService/internal/service/availability"
	"github.com/m04kA/BH-BookingService/internal/service/availability/models"
)

const (
	msgInvalidProviderID = "некорректный ID провайдера"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgForbidden         = "календарь может менять только сам провайдер"
	msgNotFound          = "запись дня не найдена"
	msgDayBooked         = "день занят бронированием, сначала отмените бронирование"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/providers/{providerId}/availability/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	providerID, err := handlers.PathID(r, "providerId")
	if err != nil {
		h.logger.Warn("DELETE /providers/{id}/availability/{date} - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	date, err := handlers.PathDate(r, "date")
	if err != nil {
		h.logger.Warn("DELETE /providers/{id}/availability/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	err = h.service.DeleteDay(r.Context(), &models.DeleteDayRequest{
		ProviderID: providerID,
		ActorID:    userID,
		Date:       date,
	})
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("DELETE /providers/{id}/availability/{date} - Access denied: provider_id=%d, user_id=%d",
				providerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrDayNotFound):
			h.logger.Warn("DELETE /providers/{id}/availability/{date} - Day not found: provider_id=%d, date=%s",
				providerID, date)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, availability.ErrDayBooked):
			h.logger.Warn("DELETE /providers/{id}/availability/{date} - Day is booked: provider_id=%d, date=%s",
				providerID, date)
			handlers.RespondConflict(w, msgDayBooked)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("DELETE /providers/{id}/availability/{date} - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("DELETE /providers/{id}/availability/{date} - Failed to delete day: provider_id=%d, date=%s, error=%v",
				providerID, date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /providers/{id}/availability/{date} - Day deleted: provider_id=%d, date=%s", providerID, date)
	w.WriteHeader(http.StatusNoContent)
}
