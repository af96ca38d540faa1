// Package analytics writes interaction events to ClickHouse. The sink is
// optional: when ClickHouse is unreachable the service runs without it.
package analytics

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/anishsharma/catalog-assist/internal/config"
	"github.com/anishsharma/catalog-assist/internal/models"
)

type Client struct {
	conn   driver.Conn
	logger *zap.Logger
}

func NewClient(cfg config.ClickHouseConfig, logger *zap.Logger) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: cfg.Addresses,
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": int(cfg.QueryTimeout.Seconds()),
		},
		DialTimeout:  cfg.DialTimeout,
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("opening clickhouse connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("pinging clickhouse: %w", err)
	}

	logger.Info("clickhouse client connected", zap.Strings("addresses", cfg.Addresses))

	return &Client{conn: conn, logger: logger}, nil
}

func (c *Client) EnsureTables(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS interactions (
			type         LowCardinality(String),
			query        String,
			intent       LowCardinality(String),
			sentiment    LowCardinality(String),
			result_count UInt32,
			user_id      String,
			request_id   String,
			ts           DateTime64(3)
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(ts)
		ORDER BY (type, ts)
	`
	if err := c.conn.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("creating interactions table: %w", err)
	}
	return nil
}

// WriteInteraction records one interaction event. Callers invoke this
// asynchronously; a failed write is logged, never surfaced to a request.
func (c *Client) WriteInteraction(ctx context.Context, ev *models.InteractionEvent) error {
	query := `
		INSERT INTO interactions
			(type, query, intent, sentiment, result_count, user_id, request_id, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	err := c.conn.Exec(ctx, query,
		ev.Type, ev.Query, ev.Intent, ev.Sentiment,
		uint32(ev.ResultCount), ev.UserID, ev.RequestID, ev.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("inserting interaction: %w", err)
	}
	return nil
}

// TopQueries returns the most frequent search queries in the window,
// for the ops dashboard.
func (c *Client) TopQueries(ctx context.Context, limit int) ([]string, error) {
	query := `
		SELECT query
		FROM interactions
		WHERE type = 'search' AND query != ''
		GROUP BY query
		ORDER BY count() DESC
		LIMIT ?
	`
	rows, err := c.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top queries: %w", err)
	}
	defer rows.Close()

	var queries []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scanning query row: %w", err)
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating query rows: %w", err)
	}
	return queries, nil
}

func (c *Client) HealthCheck(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *Client) Close() error {
	return c.conn.Close()
}
