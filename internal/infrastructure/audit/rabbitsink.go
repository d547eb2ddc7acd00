package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	domainaudit "github.com/parkwarden/parkwarden/internal/domain/audit"
	"github.com/parkwarden/parkwarden/internal/shared/goroutine"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

var _ domainaudit.Sink = (*RabbitSink)(nil)

// channelPublisher is the part of *amqp.Channel the sink uses.
type channelPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// message is the JSON body published for each event.
type message struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   uint           `json:"entity_id"`
	ActorID    uint           `json:"actor_id"`
	Detail     map[string]any `json:"detail,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// RabbitSink publishes events to a topic exchange with the event action as
// routing key, for example "ticket.closed".
type RabbitSink struct {
	conn     *amqp.Connection
	channel  channelPublisher
	exchange string
	mu       sync.Mutex
	logger   logger.Interface
}

// DialRabbitSink connects to url and declares a durable topic exchange.
func DialRabbitSink(url, exchange string, log logger.Interface) (*RabbitSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}

	sink := newRabbitSink(ch, exchange, log)
	sink.conn = conn

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	goroutine.SafeGo(sink.logger, "audit-rabbitmq-close-watch", func() {
		if amqpErr, ok := <-closed; ok && amqpErr != nil {
			sink.logger.Warnw("rabbitmq connection closed; audit publishing will fail until restart",
				"code", amqpErr.Code,
				"reason", amqpErr.Reason)
		}
	})

	return sink, nil
}

func newRabbitSink(ch channelPublisher, exchange string, log logger.Interface) *RabbitSink {
	return &RabbitSink{
		channel:  ch,
		exchange: exchange,
		logger:   log.Named("audit.rabbitmq"),
	}
}

func (s *RabbitSink) Record(ctx context.Context, event domainaudit.Event) error {
	body, err := json.Marshal(message{
		ID:         event.ID,
		Action:     event.Action,
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		ActorID:    event.ActorID,
		Detail:     event.Detail,
		OccurredAt: event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode audit event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.channel.PublishWithContext(ctx, s.exchange, event.Action, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish audit event: %w", err)
	}
	return nil
}

func (s *RabbitSink) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
