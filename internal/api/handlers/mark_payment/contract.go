package mark_payment

import (
	"context"

	"github.com/m04kA/BH-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	MarkMilestonePaid(ctx context.Context, req *models.MarkPaidRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
