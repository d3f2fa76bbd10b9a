package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"safi-kitchen/internal/logger"
	"safi-kitchen/internal/models"
)

// TopicOrderCreated carries one message per committed order row; the payload
// is the full inserted row, which is what dashboard subscriptions merge in.
const TopicOrderCreated = "order-created"

type Producer struct {
	producer sarama.SyncProducer
	mockMode bool
	log      *logger.Logger
}

func NewProducer(brokers []string, mockMode bool, log *logger.Logger) (*Producer, error) {
	if mockMode {
		log.LogKafka("MOCK_MODE", "producer", "Running in mock mode - no actual Kafka connection")
		return &Producer{
			producer: nil,
			mockMode: true,
			log:      log,
		}, nil
	}

	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	log.LogKafka("CONNECTED", "producer", fmt.Sprintf("Connected to Kafka brokers: %v", brokers))
	return &Producer{
		producer: producer,
		mockMode: false,
		log:      log,
	}, nil
}

// PublishOrderCreated announces a freshly inserted order on the realtime
// channel. Keyed by order id so replays for the same order stay in partition
// order.
func (p *Producer) PublishOrderCreated(order *models.Order) error {
	event := &models.OrderEvent{
		Type:      models.EventOrderCreated,
		Order:     order,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if p.mockMode {
		p.log.LogKafka("MOCK_PUBLISH", TopicOrderCreated, fmt.Sprintf("Mock publishing %s for order %s", event.Type, order.ID))
		p.log.LogKafka("MOCK_DATA", TopicOrderCreated, string(data))
		return nil
	}

	msg := &sarama.ProducerMessage{
		Topic: TopicOrderCreated,
		Key:   sarama.StringEncoder(order.ID),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.log.Error("KAFKA", fmt.Sprintf("Failed to send message to topic %s: %v", TopicOrderCreated, err))
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.log.LogKafka("PUBLISHED", TopicOrderCreated, fmt.Sprintf("Message sent to partition %d at offset %d for order %s", partition, offset, order.ID))
	return nil
}

func (p *Producer) Close() error {
	if p.mockMode {
		p.log.LogKafka("MOCK_CLOSE", "producer", "Mock producer closed")
		return nil
	}

	if p.producer != nil {
		p.log.LogKafka("CLOSING", "producer", "Closing Kafka producer connection")
		return p.producer.Close()
	}
	return nil
}
