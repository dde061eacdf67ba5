package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"marketplace/internal/config"
	"marketplace/internal/entities"

	"github.com/segmentio/kafka-go"
)

// Publisher emits order lifecycle events for downstream consumers, such as
// the notification worker. Events are keyed by order id so updates for one
// order stay in partition order.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(cfg config.Kafka) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: cfg.BatchTimeout,
		},
	}
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, o entities.Order) error {
	return p.publish(ctx, orderEvent(EventOrderCreated, o))
}

func (p *Publisher) PublishOrderStatusChanged(ctx context.Context, o entities.Order) error {
	return p.publish(ctx, orderEvent(EventOrderStatusChanged, o))
}

func (p *Publisher) publish(ctx context.Context, ev OrderEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.OrderID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
