// Package notifier доставляет уведомления участникам бронирования после фиксации транзакции.
package notifier

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Dispatcher формирует события и отправляет их в Sink.
// Ошибки доставки логируются и никогда не возвращаются вызывающему:
// уведомление не может откатить уже зафиксированный переход.
type Dispatcher struct {
	sink    Sink
	metrics Metrics
	log     Logger
	timeout time.Duration
	now     func() time.Time
}

// NewDispatcher создает диспетчер уведомлений; metrics может быть nil
func NewDispatcher(sink Sink, metrics Metrics, timeout time.Duration, log Logger) *Dispatcher {
	return &Dispatcher{
		sink:    sink,
		metrics: metrics,
		log:     log,
		timeout: timeout,
		now:     time.Now,
	}
}

// Notify отправляет уведомление пользователю
func (d *Dispatcher) Notify(ctx context.Context, userID int64, kind Kind, payload Payload) {
	event := Event{
		ID:         uuid.NewString(),
		UserID:     userID,
		Kind:       kind,
		Payload:    payload,
		OccurredAt: d.now().UTC(),
	}

	// отмена запроса клиента не должна прерывать отправку
	sendCtx := context.WithoutCancel(ctx)
	if d.timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(sendCtx, d.timeout)
		defer cancel()
	}

	err := d.sink.Publish(sendCtx, event)
	if d.metrics != nil {
		d.metrics.IncNotification(string(kind), err == nil)
	}
	if err != nil {
		d.log.Error("Failed to deliver notification %s (kind=%s, user_id=%d): %v", event.ID, kind, userID, err)
		return
	}

	d.log.Info("Notification %s delivered (kind=%s, user_id=%d)", event.ID, kind, userID)
}

// Close закрывает транспорт
func (d *Dispatcher) Close() error {
	return d.sink.Close()
}
