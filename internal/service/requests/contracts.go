package requests

import (
	"context"
	"time"

	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/internal/integrations/notifier"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

// RequestRepository интерфейс репозитория запросов на бронирование
type RequestRepository interface {
	Create(ctx context.Context, req *domain.BookingRequest) (*domain.BookingRequest, error)
	GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error)
	List(ctx context.Context, filter domain.RequestsFilter) ([]*domain.BookingRequest, error)
	Transition(ctx context.Context, id int64, from []domain.BookingRequestStatus, t domain.RequestTransition) (*domain.BookingRequest, error)
}

// AvailabilityRepository интерфейс репозитория календаря доступности
type AvailabilityRepository interface {
	Get(ctx context.Context, providerID int64, date types.Date) (*domain.AvailabilityDay, error)
}

// Notifier интерфейс отправки уведомлений участникам
type Notifier interface {
	Notify(ctx context.Context, userID int64, kind notifier.Kind, payload notifier.Payload)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
