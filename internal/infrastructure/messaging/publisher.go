package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/garyjia/tpa-claims/internal/application/dispatcher"
	"github.com/garyjia/tpa-claims/internal/application/port"
	"github.com/garyjia/tpa-claims/internal/domain/event"
)

// DefaultQueue receives claim events when no queue is configured
const DefaultQueue = "claim_events"

// publishTimeout bounds a single broker publish
const publishTimeout = 5 * time.Second

// channel is the subset of *amqp.Channel the publisher uses
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQPublisher publishes committed claim events as JSON to a durable queue
type RabbitMQPublisher struct {
	mu     sync.Mutex
	ch     channel
	conn   io.Closer
	queue  string
	logger *zap.Logger

	published int64
	failed    int64
}

// Connect dials the broker, opens a channel and declares the claim event queue
func Connect(url, queue string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p, err := newPublisher(ch, conn, queue, logger)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("Connected to RabbitMQ", zap.String("queue", p.queue))
	return p, nil
}

func newPublisher(ch channel, conn io.Closer, queue string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	if queue == "" {
		queue = DefaultQueue
	}

	_, err := ch.QueueDeclare(
		queue, // queue name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &RabbitMQPublisher{
		ch:     ch,
		conn:   conn,
		queue:  queue,
		logger: logger,
	}, nil
}

// Publish implements port.EventPublisher
func (p *RabbitMQPublisher) Publish(ctx context.Context, evt *event.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		p.recordFailure()
		return fmt.Errorf("failed to marshal claim event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	err = p.ch.PublishWithContext(
		ctx,
		"",      // exchange
		p.queue, // routing key (queue name)
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			DeliveryMode:  amqp.Persistent,
			ContentType:   "application/json",
			MessageId:     evt.ID,
			CorrelationId: evt.CorrelationID,
			Type:          string(evt.Type),
			Body:          body,
			Timestamp:     evt.Timestamp,
		},
	)
	if err != nil {
		p.failed++
		p.mu.Unlock()
		return fmt.Errorf("failed to publish claim event: %w", err)
	}
	p.published++
	p.mu.Unlock()

	p.logger.Debug("Claim event published",
		zap.String("queue", p.queue),
		zap.String("event_type", string(evt.Type)),
		zap.String("claim_id", evt.ClaimID))
	return nil
}

// Handler adapts the publisher to a catch-all dispatcher subscription
func (p *RabbitMQPublisher) Handler() dispatcher.Handler {
	return func(ctx context.Context, evt *event.Event) error {
		return p.Publish(ctx, evt)
	}
}

// Stats returns how many events were published and how many failed
func (p *RabbitMQPublisher) Stats() (published, failed int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.published, p.failed
}

// Close closes the channel and then the connection
func (p *RabbitMQPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.logger.Error("Failed to close RabbitMQ channel", zap.Error(err))
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.logger.Error("Failed to close RabbitMQ connection", zap.Error(err))
			return err
		}
	}
	p.logger.Info("RabbitMQ publisher closed")
	return nil
}

func (p *RabbitMQPublisher) recordFailure() {
	p.mu.Lock()
	p.failed++
	p.mu.Unlock()
}

// Verify interface compliance
var _ port.EventPublisher = (*RabbitMQPublisher)(nil)
