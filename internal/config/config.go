package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Upstream      UpstreamConfig      `yaml:"upstream"`
	Snapshot      SnapshotConfig      `yaml:"snapshot"`
	Redis         RedisConfig         `yaml:"redis"`
	ClickHouse    ClickHouseConfig    `yaml:"clickhouse"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Recommend     RecommendConfig     `yaml:"recommend"`
	Search        SearchConfig        `yaml:"search"`
	Chat          ChatConfig          `yaml:"chat"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxConcurrent   int           `yaml:"max_concurrent"`
}

type UpstreamConfig struct {
	BaseURL        string               `yaml:"base_url"`
	PageSize       int                  `yaml:"page_size"`
	RequestTimeout time.Duration        `yaml:"request_timeout"`
	MaxPages       int                  `yaml:"max_pages"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	MaxRequests      uint32        `yaml:"max_requests"`
	Interval         time.Duration `yaml:"interval"`
	Timeout          time.Duration `yaml:"timeout"`
	FailureThreshold uint32        `yaml:"failure_threshold"`
}

type SnapshotConfig struct {
	FreshnessWindow time.Duration `yaml:"freshness_window"`
}

type RedisConfig struct {
	Addresses    []string       `yaml:"addresses"`
	Password     string         `yaml:"password"`
	DB           int            `yaml:"db"`
	PoolSize     int            `yaml:"pool_size"`
	MinIdleConns int            `yaml:"min_idle_conns"`
	DialTimeout  time.Duration  `yaml:"dial_timeout"`
	ReadTimeout  time.Duration  `yaml:"read_timeout"`
	WriteTimeout time.Duration  `yaml:"write_timeout"`
	TTL          CacheTTLConfig `yaml:"ttl"`
}

type CacheTTLConfig struct {
	SearchResults   time.Duration `yaml:"search_results"`
	Suggestions     time.Duration `yaml:"suggestions"`
	Recommendations time.Duration `yaml:"recommendations"`
}

type ClickHouseConfig struct {
	Addresses    []string      `yaml:"addresses"`
	Database     string        `yaml:"database"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	QueryTimeout time.Duration `yaml:"query_timeout"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
}

type KafkaConfig struct {
	Brokers           []string      `yaml:"brokers"`
	TopicInteractions string        `yaml:"topic_interactions"`
	TopicChanges      string        `yaml:"topic_changes"`
	ConsumerGroup     string        `yaml:"consumer_group"`
	BatchSize         int           `yaml:"batch_size"`
	BatchTimeout      time.Duration `yaml:"batch_timeout"`
}

type RecommendConfig struct {
	Strategy       string  `yaml:"strategy"` // similarity or tiered
	MaxRelated     int     `yaml:"max_related"`
	MaxPersonal    int     `yaml:"max_personal"`
	CategoryBonus  float64 `yaml:"category_bonus"`
	ScoreThreshold float64 `yaml:"score_threshold"`
}

type SearchConfig struct {
	MaxResults     int `yaml:"max_results"`
	MaxSuggestions int `yaml:"max_suggestions"`
	// Scoring weights. Tunable, but name must outweigh category which must
	// outweigh description, and full-phrase must outweigh per-word.
	PhraseInName     int `yaml:"phrase_in_name"`
	WordInName       int `yaml:"word_in_name"`
	PhraseInCategory int `yaml:"phrase_in_category"`
	PhraseInDesc     int `yaml:"phrase_in_description"`
	WordInNameToken  int `yaml:"word_in_name_token"`
}

type ChatConfig struct {
	SupportContact string `yaml:"support_contact"`
}

type ObservabilityConfig struct {
	MetricsPort     int    `yaml:"metrics_port"`
	TracingEndpoint string `yaml:"tracing_endpoint"`
	LogLevel        string `yaml:"log_level"`
	ServiceName     string `yaml:"service_name"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	data = []byte(os.ExpandEnv(string(data)))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5001,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxConcurrent:   500,
		},
		Upstream: UpstreamConfig{
			BaseURL:        "http://localhost:5000/api/v1",
			PageSize:       20,
			RequestTimeout: 5 * time.Second,
			MaxPages:       500,
			CircuitBreaker: CircuitBreakerConfig{
				MaxRequests:      10,
				Interval:         30 * time.Second,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
		},
		Snapshot: SnapshotConfig{
			FreshnessWindow: 30 * time.Minute,
		},
		Redis: RedisConfig{
			Addresses:    []string{"localhost:6379"},
			PoolSize:     50,
			MinIdleConns: 5,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  1 * time.Second,
			WriteTimeout: 1 * time.Second,
			TTL: CacheTTLConfig{
				SearchResults:   2 * time.Minute,
				Suggestions:     10 * time.Minute,
				Recommendations: 5 * time.Minute,
			},
		},
		ClickHouse: ClickHouseConfig{
			Addresses:    []string{"localhost:9000"},
			Database:     "storefront_analytics",
			DialTimeout:  5 * time.Second,
			QueryTimeout: 2 * time.Second,
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		Kafka: KafkaConfig{
			Brokers:           []string{"localhost:9092"},
			TopicInteractions: "storefront.interactions",
			TopicChanges:      "catalog.changes",
			ConsumerGroup:     "catalog-assist",
			BatchSize:         100,
			BatchTimeout:      1 * time.Second,
		},
		Recommend: RecommendConfig{
			Strategy:       "similarity",
			MaxRelated:     5,
			MaxPersonal:    8,
			CategoryBonus:  0.3,
			ScoreThreshold: 0.1,
		},
		Search: SearchConfig{
			MaxResults:       20,
			MaxSuggestions:   8,
			PhraseInName:     10,
			WordInName:       5,
			PhraseInCategory: 3,
			PhraseInDesc:     2,
			WordInNameToken:  1,
		},
		Chat: ChatConfig{
			SupportContact: "support@example.com",
		},
		Observability: ObservabilityConfig{
			MetricsPort: 9090,
			LogLevel:    "info",
			ServiceName: "catalog-assist",
		},
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream base_url required")
	}
	if c.Upstream.PageSize <= 0 {
		return fmt.Errorf("upstream page size must be positive")
	}
	if c.Snapshot.FreshnessWindow <= 0 {
		return fmt.Errorf("snapshot freshness window must be positive")
	}
	switch c.Recommend.Strategy {
	case "similarity", "tiered":
	default:
		return fmt.Errorf("unknown recommend strategy %q", c.Recommend.Strategy)
	}
	if c.Recommend.MaxRelated <= 0 || c.Recommend.MaxPersonal <= 0 {
		return fmt.Errorf("recommendation limits must be positive")
	}
	if c.Search.MaxResults <= 0 || c.Search.MaxSuggestions <= 0 {
		return fmt.Errorf("search limits must be positive")
	}
	if c.Search.PhraseInName <= c.Search.PhraseInCategory ||
		c.Search.PhraseInCategory <= c.Search.PhraseInDesc {
		return fmt.Errorf("search weights must keep name above category above description")
	}
	if c.Search.PhraseInName <= c.Search.WordInName {
		return fmt.Errorf("full-phrase name weight must exceed per-word name weight")
	}
	return nil
}
