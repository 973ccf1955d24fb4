package update_request_status

import (
	"context"

	"github.com/m04kA/BH-BookingService/internal/service/requests/models"
)

type RequestService interface {
	UpdateStatus(ctx context.Context, req *models.UpdateStatusRequest) (*models.BookingRequestResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
