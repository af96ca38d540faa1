package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/anishsharma/catalog-assist/internal/config"
	"github.com/anishsharma/catalog-assist/internal/models"
	"github.com/anishsharma/catalog-assist/internal/observability"
)

// ChangeHandler reacts to one catalog change event. Handlers must be
// idempotent: the consumer commits after handling, so redelivery is possible.
type ChangeHandler func(ctx context.Context, event *models.CatalogChangeEvent)

// Consumer listens for catalog change events and drives cache invalidation.
// Losing an event is harmless because the freshness window catches up
// eventually, so there is no retry or dead-letter machinery here.
type Consumer struct {
	reader     *kafka.Reader
	handler    ChangeHandler
	cfg        config.KafkaConfig
	logger     *zap.Logger
	wg         sync.WaitGroup
	cancelFunc context.CancelFunc
}

func NewConsumer(cfg config.KafkaConfig, handler ChangeHandler, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.TopicChanges,
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       1e3,
		MaxBytes:       1e6,
		MaxWait:        500 * time.Millisecond,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})

	logger.Info("kafka consumer created",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.TopicChanges),
		zap.String("group", cfg.ConsumerGroup),
	)

	return &Consumer{
		reader:  reader,
		handler: handler,
		cfg:     cfg,
		logger:  logger,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancelFunc = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.consumeLoop(ctx)
	}()

	c.logger.Info("catalog change consumer started")
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("catalog change consumer shutting down")
			return
		default:
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("fetching catalog change message", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var event models.CatalogChangeEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			observability.CatalogChangeEventsTotal.WithLabelValues("malformed").Inc()
			c.logger.Warn("dropping malformed catalog change event",
				zap.Error(err),
				zap.Int64("offset", msg.Offset),
			)
		} else {
			c.handler(ctx, &event)
			observability.CatalogChangeEventsTotal.WithLabelValues("handled").Inc()
			c.logger.Debug("catalog change handled",
				zap.String("type", event.Type),
				zap.String("product_id", event.ProductID),
			)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("committing catalog change message",
				zap.Error(err),
				zap.Int64("offset", msg.Offset),
			)
		}
	}
}

func (c *Consumer) HealthCheck(ctx context.Context) error {
	if len(c.cfg.Brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", c.cfg.Brokers[0])
	if err != nil {
		return fmt.Errorf("kafka health check dial: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Brokers(); err != nil {
		return fmt.Errorf("kafka health check brokers: %w", err)
	}
	return nil
}

func (c *Consumer) Stop() error {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()

	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("closing reader: %w", err)
	}
	return nil
}
