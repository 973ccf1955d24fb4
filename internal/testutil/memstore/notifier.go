package memstore

import (
	"context"
	"sync"

	"github.com/m04kA/BH-BookingService/internal/integrations/notifier"
)

// Notification записанное уведомление
type Notification struct {
	UserID  int64
	Kind    notifier.Kind
	Payload notifier.Payload
}

// Notifier собирает уведомления вместо отправки
type Notifier struct {
	mu   sync.Mutex
	sent []Notification
}

// Notify записывает уведомление
func (n *Notifier) Notify(_ context.Context, userID int64, kind notifier.Kind, payload notifier.Payload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, Notification{UserID: userID, Kind: kind, Payload: payload})
}

// Sent копия отправленных уведомлений
func (n *Notifier) Sent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.sent...)
}

// Logger логгер, который ничего не пишет
type Logger struct{}

// Info ничего не делает
func (Logger) Info(string, ...interface{}) {}

// Warn ничего не делает
func (Logger) Warn(string, ...interface{}) {}

// Error ничего не делает
func (Logger) Error(string, ...interface{}) {}
