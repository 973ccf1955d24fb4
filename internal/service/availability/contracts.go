package availability

import (
	"context"
	"time"

	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

// AvailabilityRepository интерфейс репозитория календаря доступности
type AvailabilityRepository interface {
	GetRange(ctx context.Context, providerID int64, from, to types.Date) ([]*domain.AvailabilityDay, error)
	Get(ctx context.Context, providerID int64, date types.Date) (*domain.AvailabilityDay, error)
	Upsert(ctx context.Context, day *domain.AvailabilityDay) (*domain.AvailabilityDay, error)
	Delete(ctx context.Context, providerID int64, date types.Date) error
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
