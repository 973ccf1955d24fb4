package expire_requests

import (
	"context"
	"time"

	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/internal/integrations/notifier"
)

// RequestRepository интерфейс репозитория запросов на бронирование
type RequestRepository interface {
	ExpireDue(ctx context.Context, now time.Time, limit uint64) ([]*domain.BookingRequest, error)
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
