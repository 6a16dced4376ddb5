package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	contractsv1 "deliverables/contracts/gen/events/v1"

	amqp "github.com/rabbitmq/amqp091-go"
)

const uploadExchange = "media"

// RabbitMQ subscribes to upload notifications published by the media
// uploader. Messages are acked after the handler succeeds and requeued when
// it fails; undecodable messages are dropped.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *slog.Logger
}

func NewRabbitMQ(url string, queue string, logger *slog.Logger) (*RabbitMQ, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if err := channel.ExchangeDeclare(uploadExchange, "topic", true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if err := channel.Qos(16, 0, false); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}
	return &RabbitMQ{conn: conn, channel: channel, queue: strings.TrimSpace(queue), logger: logger}, nil
}

// Subscribe binds the configured queue to topic. The consumer group becomes
// the AMQP consumer tag.
func (r *RabbitMQ) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, contractsv1.Envelope) error,
) error {
	queue := r.queue
	if queue == "" {
		queue = consumerGroup
	}
	if _, err := r.channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := r.channel.QueueBind(queue, topic, uploadExchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	deliveries, err := r.channel.Consume(queue, consumerGroup, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = r.channel.Cancel(consumerGroup, false)
				return
			case msg, ok := <-deliveries:
				if !ok {
					return
				}
				r.deliver(ctx, topic, msg, handler)
			}
		}
	}()
	return nil
}

func (r *RabbitMQ) deliver(
	ctx context.Context,
	topic string,
	msg amqp.Delivery,
	handler func(context.Context, contractsv1.Envelope) error,
) {
	event, err := decodeDelivery(topic, msg)
	if err != nil {
		r.logger.Error("rabbitmq message decode failed",
			"event", "rabbitmq_decode_failed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"error", err.Error(),
		)
		_ = msg.Nack(false, false)
		return
	}
	if err := handler(ctx, event); err != nil {
		r.logger.Error("rabbitmq handler failed",
			"event", "rabbitmq_consume_failed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"error", err.Error(),
		)
		_ = msg.Nack(false, true)
		return
	}
	_ = msg.Ack(false)
}

// decodeDelivery accepts either a full envelope or a bare payload, which is
// wrapped using the AMQP message id and timestamp.
func decodeDelivery(topic string, msg amqp.Delivery) (contractsv1.Envelope, error) {
	if event, err := contractsv1.Decode(msg.Body); err == nil {
		return event, nil
	}
	if !json.Valid(msg.Body) {
		return contractsv1.Envelope{}, fmt.Errorf("message body is not json")
	}
	occurredAt := msg.Timestamp
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	return contractsv1.Envelope{
		EventID:       msg.MessageId,
		EventType:     topic,
		OccurredAt:    occurredAt.UTC(),
		SourceService: msg.AppId,
		SchemaVersion: 1,
		Data:          append(json.RawMessage(nil), msg.Body...),
	}, nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
