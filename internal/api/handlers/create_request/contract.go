package create_request

import (
	"context"

	"github.com/m04kA/BH-BookingService/internal/service/requests/models"
)

type RequestService interface {
	Create(ctx context.Context, req *models.CreateRequest) (*models.BookingRequestResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
