package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/observability"
)

// CatalogExchange receives one message per back-office mutation, routed by event type.
const CatalogExchange = "catalog.events"

type RabbitMQ struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

var _ domain.EventPublisher = (*RabbitMQ)(nil)

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	rmq := &RabbitMQ{
		conn:    conn,
		channel: ch,
	}

	if err := rmq.Setup(); err != nil {
		rmq.Close()
		return nil, err
	}

	return rmq, nil
}

// NewRabbitMQWithRetry dials until it succeeds, attempts run out or ctx is done.
func NewRabbitMQWithRetry(ctx context.Context, url string, attempts int, delay time.Duration) (*RabbitMQ, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rmq, err := NewRabbitMQ(url)
		if err == nil {
			return rmq, nil
		}
		lastErr = err
		slog.Warn("rabbitmq not ready",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.String("error", err.Error()))

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("rabbitmq unavailable after %d attempts: %w", attempts, lastErr)
}

func (r *RabbitMQ) Setup() error {
	if err := r.channel.ExchangeDeclare(
		CatalogExchange, // name
		"topic",         // type
		true,            // durable
		false,           // auto-deleted
		false,           // internal
		false,           // no-wait
		nil,             // arguments
	); err != nil {
		return fmt.Errorf("failed to declare catalog exchange: %w", err)
	}

	slog.Info("rabbitmq setup completed successfully", slog.String("exchange", CatalogExchange))
	return nil
}

// PublishCatalogEvent sends a persistent JSON message keyed by the event type.
func (r *RabbitMQ) PublishCatalogEvent(ctx context.Context, event *domain.CatalogEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	r.mu.Lock()
	err = r.channel.PublishWithContext(
		ctx,
		CatalogExchange,
		RoutingKey(event.Type),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Unix(event.Timestamp, 0),
		},
	)
	r.mu.Unlock()

	if err != nil {
		observability.CatalogEventsPublishedTotal.WithLabelValues(string(event.Type), observability.ResultFailure).Inc()
		return fmt.Errorf("failed to publish event: %w", err)
	}

	observability.CatalogEventsPublishedTotal.WithLabelValues(string(event.Type), observability.ResultSuccess).Inc()
	slog.Debug("published catalog event",
		slog.String("type", string(event.Type)),
		slog.String("document_id", event.DocumentID))
	return nil
}

// RoutingKey maps an event type to its topic routing key.
func RoutingKey(t domain.CatalogEventType) string {
	return "catalog." + string(t)
}

// Ping reports whether the broker connection is usable.
func (r *RabbitMQ) Ping(ctx context.Context) error {
	if r.IsClosed() {
		return fmt.Errorf("rabbitmq connection closed")
	}
	return nil
}

func (r *RabbitMQ) IsClosed() bool {
	return r == nil || r.conn == nil || r.conn.IsClosed()
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// NopPublisher drops events. It is used when no broker is configured.
type NopPublisher struct{}

var _ domain.EventPublisher = NopPublisher{}

func (NopPublisher) PublishCatalogEvent(ctx context.Context, event *domain.CatalogEvent) error {
	return nil
}
