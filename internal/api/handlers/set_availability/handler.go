package set_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/BH-BookingService/internal/api/handlers"
	"github.com/m04kA/BH-BookingService/internal/api/middleware"
	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/internal/service/availability"
	"github.com/m04kA/BH-BookingService/internal/service/availability/models"
)

const (
	msgInvalidProviderID  = "некорректный ID провайдера"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgForbidden          = "календарь может менять только сам провайдер"
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

// Handle PUT /api/v1/providers/{providerId}/availability/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	providerID, err := handlers.PathID(r, "providerId")
	if err != nil {
		h.logger.Warn("PUT /providers/{id}/availability/{date} - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	date, err := handlers.PathDate(r, "date")
	if err != nil {
		h.logger.Warn("PUT /providers/{id}/availability/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var req models.SetDayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /providers/{id}/availability/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ProviderID = providerID
	req.ActorID = userID
	req.Date = date

	result, err := h.service.SetDay(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("PUT /providers/{id}/availability/{date} - Access denied: provider_id=%d, user_id=%d",
				providerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("PUT /providers/{id}/availability/{date} - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("PUT /providers/{id}/availability/{date} - Conflict: provider_id=%d, date=%s, error=%v",
				providerID, date, err)
			handlers.RespondConflict(w, err.Error())

		default:
			h.logger.Error("PUT /providers/{id}/availability/{date} - Failed to set day: provider_id=%d, date=%s, error=%v",
				providerID, date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /providers/{id}/availability/{date} - Day saved: provider_id=%d, date=%s, status=%s",
		providerID, date, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
