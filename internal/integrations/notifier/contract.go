package notifier

import "context"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Sink транспорт доставки уведомлений
type Sink interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Metrics счетчик отправленных уведомлений
type Metrics interface {
	IncNotification(kind string, ok bool)
}
