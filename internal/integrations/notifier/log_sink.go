package notifier

import "context"

// LogSink пишет уведомления в лог; используется, когда брокер не настроен
type LogSink struct {
	log Logger
}

// NewLogSink создает LogSink
func NewLogSink(log Logger) *LogSink {
	return &LogSink{log: log}
}

// Publish логирует событие
func (s *LogSink) Publish(_ context.Context, event Event) error {
	body, err := event.encode()
	if err != nil {
		return err
	}
	s.log.Info("notification: %s", body)
	return nil
}

// Close ничего не делает
func (s *LogSink) Close() error {
	return nil
}
