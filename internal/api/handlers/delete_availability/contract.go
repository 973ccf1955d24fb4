package delete_availability

import (
	"context"

	"github.com/m04kA/BH-BookingService/internal/service/availability/models"
)

type AvailabilityService interface {
	DeleteDay(ctx context.Context, req *models.DeleteDayRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
