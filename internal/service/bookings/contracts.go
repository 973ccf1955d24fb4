package bookings

import (
	"context"
	"time"

	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/internal/integrations/notifier"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	Transition(ctx context.Context, id int64, from []domain.BookingStatus, t domain.BookingTransition) (*domain.Booking, error)
	AttachContract(ctx context.Context, id int64, url string, at time.Time) (*domain.Booking, error)
	SignContract(ctx context.Context, id int64, party domain.ContractParty, at time.Time) (*domain.Booking, error)
	MarkMilestonePaid(ctx context.Context, id int64, kind domain.MilestoneKind, at time.Time) (*domain.Booking, error)
	UpdatePayout(ctx context.Context, id int64, upd domain.PayoutUpdate, at time.Time) (*domain.Booking, error)
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
