// Package events wires the service to Kafka: interaction analytics go out,
// catalog change notifications come in.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/anishsharma/catalog-assist/internal/config"
	"github.com/anishsharma/catalog-assist/internal/models"
	"github.com/anishsharma/catalog-assist/internal/observability"
)

const publishTimeout = 2 * time.Second

type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewProducer(cfg config.KafkaConfig, logger *zap.Logger) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicInteractions,
		Balancer:     &kafka.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	logger.Info("kafka producer created",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.TopicInteractions),
	)

	return &Producer{writer: w, logger: logger}
}

// PublishInteraction sends one analytics event. Fire-and-forget from the
// caller's point of view: run it in a goroutine off the request path.
func (p *Producer) PublishInteraction(ctx context.Context, ev *models.InteractionEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling interaction event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(ev.Type),
		Value: data,
		Time:  ev.Timestamp,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		observability.InteractionEventsTotal.WithLabelValues(ev.Type, "error").Inc()
		return fmt.Errorf("publishing interaction event: %w", err)
	}

	observability.InteractionEventsTotal.WithLabelValues(ev.Type, "success").Inc()
	return nil
}

// PublishAsync publishes off the request path and logs any failure.
func (p *Producer) PublishAsync(ev *models.InteractionEvent) {
	go func() {
		if err := p.PublishInteraction(context.Background(), ev); err != nil {
			p.logger.Warn("interaction publish failed", zap.Error(err))
		}
	}()
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
