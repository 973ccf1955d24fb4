package notifier

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// kafkaBatchTimeout WriteMessages синхронный и ждет наполнения батча не дольше этого времени;
// уведомление публикуется внутри HTTP запроса, поэтому ожидание короткое
const kafkaBatchTimeout = 10 * time.Millisecond

// KafkaSink публикует уведомления в топик Kafka; ключ сообщения - ID пользователя,
// поэтому события одного пользователя попадают в одну партицию по порядку
type KafkaSink struct {
	writer *kafka.Writer
}

// NewKafkaSink создает KafkaSink. brokers - список адресов через запятую
func NewKafkaSink(brokers, topic string) (*KafkaSink, error) {
	addrs := splitBrokers(brokers)
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: kafka: no brokers configured", ErrConnect)
	}
	if topic == "" {
		return nil, fmt.Errorf("%w: kafka: empty topic", ErrConnect)
	}

	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      addrs,
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: kafkaBatchTimeout,
	})

	return &KafkaSink{writer: writer}, nil
}

// Publish отправляет событие в Kafka
func (s *KafkaSink) Publish(ctx context.Context, event Event) error {
	body, err := event.encode()
	if err != nil {
		return fmt.Errorf("%w: kafka: encode event: %v", ErrPublish, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.UserID, 10)),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "kind", Value: []byte(event.Kind)},
		},
	}

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: kafka: %v", ErrPublish, err)
	}
	return nil
}

// Close закрывает writer
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

func splitBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
