package get_calendar

import (
	"context"

	"github.com/m04kA/BH-BookingService/internal/service/availability/models"
)

type AvailabilityService interface {
	GetCalendar(ctx context.Context, req *models.GetCalendarRequest) (*models.CalendarResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
