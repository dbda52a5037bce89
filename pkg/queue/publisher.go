package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// OrderCreatedEvent is published once the factory has accepted an order.
type OrderCreatedEvent struct {
	OrderID     int64     `json:"orderId"`
	DinerID     int64     `json:"dinerId"`
	FranchiseID int64     `json:"franchiseId"`
	StoreID     int64     `json:"storeId"`
	ItemCount   int       `json:"itemCount"`
	Revenue     float64   `json:"revenue"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Publisher writes persistent JSON messages to one durable queue. A channel
// is not safe for concurrent publishing, so publishes are serialized.
type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	mu    sync.Mutex
	log   *zap.Logger
}

func NewPublisher(url, queueName string, log *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queueName, err)
	}

	return &Publisher{
		conn:  conn,
		ch:    ch,
		queue: queueName,
		log:   log.With(zap.String("component", "amqp_publisher")),
	}, nil
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.CreatedAt,
		Type:         "order.created",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish order %d: %w", event.OrderID, err)
	}

	p.log.Debug("Order event published", zap.Int64("order_id", event.OrderID))
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
