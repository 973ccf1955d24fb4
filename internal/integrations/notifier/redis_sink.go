package notifier

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSink публикует уведомления в pub/sub канал пользователя: <prefix>:<userID>
type RedisSink struct {
	client *redis.Client
	prefix string
}

// NewRedisSink подключается к Redis и проверяет соединение
func NewRedisSink(ctx context.Context, opts *redis.Options, prefix string) (*RedisSink, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis: ping %s: %v", ErrConnect, opts.Addr, err)
	}
	return &RedisSink{client: client, prefix: prefix}, nil
}

// Channel имя канала пользователя
func (s *RedisSink) Channel(userID int64) string {
	return fmt.Sprintf("%s:%d", s.prefix, userID)
}

// Publish публикует событие в канал пользователя
func (s *RedisSink) Publish(ctx context.Context, event Event) error {
	body, err := event.encode()
	if err != nil {
		return fmt.Errorf("%w: redis: encode event: %v", ErrPublish, err)
	}

	if err := s.client.Publish(ctx, s.Channel(event.UserID), body).Err(); err != nil {
		return fmt.Errorf("%w: redis: %v", ErrPublish, err)
	}
	return nil
}

// Close закрывает клиент
func (s *RedisSink) Close() error {
	return s.client.Close()
}
