package get_calendar

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/BH-BookingService/internal/api/handlers"
	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/internal/service/availability/models"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

const (
	msgInvalidProviderID = "некорректный ID провайдера"
	msgInvalidYear       = "некорректный год"
	msgInvalidMonth      = "некорректный месяц"
	msgInvalidSelected   = "некорректная дата selected, ожидается YYYY-MM-DD"
	msgInvalidHighlight  = "некорректная дата в highlight, ожидается YYYY-MM-DD"
	msgInvalidFlag       = "некорректное значение disablePastDates"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
	now     func() time.Time
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle GET /api/v1/providers/{providerId}/calendar
// Query params: year, month (по умолчанию текущие), selected, highlight (через запятую), role, mode, disablePastDates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, err := handlers.PathID(r, "providerId")
	if err != nil {
		h.logger.Warn("GET /providers/{id}/calendar - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	query := r.URL.Query()
	now := h.now()

	year := now.Year()
	if raw := query.Get("year"); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil {
			h.logger.Warn("GET /providers/{id}/calendar - Invalid year: %v", err)
			handlers.RespondBadRequest(w, msgInvalidYear)
			return
		}
	}

	month := int(now.Month())
	if raw := query.Get("month"); raw != "" {
		if month, err = strconv.Atoi(raw); err != nil {
			h.logger.Warn("GET /providers/{id}/calendar - Invalid month: %v", err)
			handlers.RespondBadRequest(w, msgInvalidMonth)
			return
		}
	}

	selected, err := handlers.QueryDate(r, "selected")
	if err != nil {
		h.logger.Warn("GET /providers/{id}/calendar - Invalid selected date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSelected)
		return
	}

	highlighted, err := parseHighlight(query["highlight"])
	if err != nil {
		h.logger.Warn("GET /providers/{id}/calendar - Invalid highlight: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHighlight)
		return
	}

	disablePast := true
	if raw := query.Get("disablePastDates"); raw != "" {
		if disablePast, err = strconv.ParseBool(raw); err != nil {
			h.logger.Warn("GET /providers/{id}/calendar - Invalid disablePastDates: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFlag)
			return
		}
	}

	req := &models.GetCalendarRequest{
		ProviderID:       providerID,
		Year:             year,
		Month:            month,
		Role:             query.Get("role"),
		Mode:             query.Get("mode"),
		Selected:         selected,
		Highlighted:      highlighted,
		DisablePastDates: disablePast,
	}

	result, err := h.service.GetCalendar(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("GET /providers/{id}/calendar - Validation failed: provider_id=%d, error=%v", providerID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /providers/{id}/calendar - Failed to build calendar: provider_id=%d, error=%v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/{id}/calendar - Calendar built: provider_id=%d, %04d-%02d, cells=%d",
		providerID, year, month, len(result.Cells))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// parseHighlight принимает как повторяющийся параметр, так и список через запятую
func parseHighlight(values []string) ([]types.Date, error) {
	var dates []types.Date
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			d, err := types.ParseDate(part)
			if err != nil {
				return nil, err
			}
			dates = append(dates, d)
		}
	}
	return dates, nil
}
