package notifier

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQSink публикует уведомления в durable-очередь RabbitMQ
type RabbitMQSink struct {
	conn  *amqp.Connection
	queue string

	mu sync.Mutex
	ch *amqp.Channel
}

// NewRabbitMQSink подключается к брокеру и объявляет очередь
func NewRabbitMQSink(url, queue string) (*RabbitMQSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: rabbitmq: dial: %v", ErrConnect, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: rabbitmq: open channel: %v", ErrConnect, err)
	}

	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: rabbitmq: declare queue %q: %v", ErrConnect, queue, err)
	}

	return &RabbitMQSink{conn: conn, queue: queue, ch: ch}, nil
}

// Publish отправляет событие в очередь
func (s *RabbitMQSink) Publish(ctx context.Context, event Event) error {
	body, err := event.encode()
	if err != nil {
		return fmt.Errorf("%w: rabbitmq: encode event: %v", ErrPublish, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         string(event.Kind),
		Timestamp:    event.OccurredAt,
		Body:         body,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ch.PublishWithContext(ctx,
		"",      // default exchange
		s.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		return fmt.Errorf("%w: rabbitmq: %v", ErrPublish, err)
	}
	return nil
}

// Close закрывает канал и соединение
func (s *RabbitMQSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.ch.Close()
	return s.conn.Close()
}
