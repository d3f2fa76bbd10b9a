package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/IBM/sarama"

	"safi-kitchen/internal/models"
)

// Consumer delivers order-created events to a handler in the order the
// brokers hand them over. No deduplication is attempted; an event racing the
// initial dashboard load may surface a row that is already present.
type Consumer struct {
	consumer sarama.ConsumerGroup
	topics   []string
}

func NewOrderConsumer(brokers []string, groupID string) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	consumer, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &Consumer{
		consumer: consumer,
		topics:   []string{TopicOrderCreated},
	}, nil
}

// ConsumeOrders blocks until ctx is cancelled, invoking handler once per
// inbound order. Handler errors skip the message; they never stop the loop.
func (c *Consumer) ConsumeOrders(ctx context.Context, handler func(*models.Order) error) error {
	consumerHandler := &OrderConsumerHandler{Handler: handler}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := c.consumer.Consume(ctx, c.topics, consumerHandler); err != nil {
				log.Printf("Error consuming messages: %v", err)
				return err
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.consumer.Close()
}

// OrderConsumerHandler is exported so tests can drive ConsumeClaim directly.
type OrderConsumerHandler struct {
	Handler func(*models.Order) error
}

func (h *OrderConsumerHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *OrderConsumerHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *OrderConsumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var event models.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("Failed to unmarshal message: %v", err)
			continue
		}

		if event.Order == nil {
			log.Printf("Dropping %s event without order payload", event.Type)
			continue
		}

		if err := h.Handler(event.Order); err != nil {
			log.Printf("Failed to handle order event: %v", err)
			continue
		}

		session.MarkMessage(message, "")
	}

	return nil
}
