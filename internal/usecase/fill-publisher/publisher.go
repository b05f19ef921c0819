package fillpublisher

import (
	"context"

	"github.com/segmentio/kafka-go"

	fillpublisherv1 "github.com/SiddNan/Quant-Orderbook-Project/internal/domain/fill-publisher/v1"
	"github.com/SiddNan/Quant-Orderbook-Project/pkg/config"
	"github.com/SiddNan/Quant-Orderbook-Project/pkg/errors"
	"github.com/SiddNan/Quant-Orderbook-Project/pkg/logger"
)

// Publisher publishes fill events to the fill topic.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      *logger.Logger
}

// NewPublisher creates a Kafka publisher for fill events.
func NewPublisher(cfg config.FillPublisherConfig, log *logger.Logger) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// PublishFillEvent publishes a fill event to the fill topic.
func (p *Publisher) PublishFillEvent(ctx context.Context, event *fillpublisherv1.FillEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.Pair),
		Value: fillpublisherv1.ToBytes(event),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "eventID", Value: event.EventID},
			logger.Field{Key: "makerOrderID", Value: event.MakerOrderID},
			logger.Field{Key: "takerOrderID", Value: event.TakerOrderID},
		)
		return errors.NewTracer("failed to publish fill event").Wrap(err)
	}
	return nil
}

// Close closes the underlying Kafka writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
