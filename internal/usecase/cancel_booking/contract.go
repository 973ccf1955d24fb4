package cancel_booking

import (
	"context"
	"time"

	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/internal/integrations/notifier"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Transition(ctx context.Context, id int64, from []domain.BookingStatus, t domain.BookingTransition) (*domain.Booking, error)
}

// AvailabilityRepository интерфейс репозитория календаря доступности
type AvailabilityRepository interface {
	Release(ctx context.Context, providerID int64, date types.Date, bookingID int64) (*domain.AvailabilityDay, error)
}

// Notifier интерфейс отправки уведомлений участникам
type Notifier interface {
	Notify(ctx context.Context, userID int64, kind notifier.Kind, payload notifier.Payload)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
