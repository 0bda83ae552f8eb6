package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	wbkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"

	"watermark-service/internal/config"
	"watermark-service/internal/domain"
)

// ProducerClient publishes processing events to the results topic.
type ProducerClient struct {
	producer *wbkafka.Producer
}

func NewProducerClient(cfg *config.Config) *ProducerClient {
	return &ProducerClient{
		producer: wbkafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ResultsTopic),
	}
}

func (p *ProducerClient) SendEvent(ctx context.Context, strategy retry.Strategy, event *domain.ProcessedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.producer.SendWithRetry(ctx, strategy, []byte(event.ID), value)
}

func (p *ProducerClient) Close() error {
	return p.producer.Close()
}
