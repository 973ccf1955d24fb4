package notifier

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Драйверы доставки
const (
	DriverLog      = "log"
	DriverKafka    = "kafka"
	DriverRabbitMQ = "rabbitmq"
	DriverRedis    = "redis"
)

// SinkConfig параметры транспорта уведомлений
type SinkConfig struct {
	Driver string

	KafkaBrokers string
	KafkaTopic   string

	RabbitMQURL   string
	RabbitMQQueue string

	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RedisChannelPrefix string
}

// NewSink создает транспорт по имени драйвера; пустой драйвер означает log
func NewSink(ctx context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	switch cfg.Driver {
	case "", DriverLog:
		return NewLogSink(log), nil
	case DriverKafka:
		return NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
	case DriverRabbitMQ:
		return NewRabbitMQSink(cfg.RabbitMQURL, cfg.RabbitMQQueue)
	case DriverRedis:
		return NewRedisSink(ctx, &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.RedisChannelPrefix)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
