package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/anishsharma/catalog-assist/internal/analytics"
	"github.com/anishsharma/catalog-assist/internal/api"
	"github.com/anishsharma/catalog-assist/internal/cache"
	"github.com/anishsharma/catalog-assist/internal/catalog"
	"github.com/anishsharma/catalog-assist/internal/chat"
	"github.com/anishsharma/catalog-assist/internal/config"
	"github.com/anishsharma/catalog-assist/internal/events"
	"github.com/anishsharma/catalog-assist/internal/models"
	"github.com/anishsharma/catalog-assist/internal/observability"
	"github.com/anishsharma/catalog-assist/internal/recommend"
	"github.com/anishsharma/catalog-assist/internal/search"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Observability.LogLevel)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting catalog assist service",
		zap.String("service", cfg.Observability.ServiceName),
	)

	tracerShutdown, err := observability.InitTracer(cfg.Observability.ServiceName)
	if err != nil {
		logger.Warn("tracing initialization failed, continuing without tracing", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Core: upstream fetcher + in-memory snapshot store.
	fetcher := catalog.NewFetcher(cfg.Upstream, logger)
	store := catalog.NewStore(fetcher, cfg.Snapshot.FreshnessWindow, logger)

	// Warm the snapshot so the first request doesn't pay the fetch latency.
	if products := store.Products(ctx); len(products) == 0 {
		logger.Warn("initial catalog fetch returned no products, serving degraded until upstream recovers")
	}

	// Optional collaborators: the service runs degraded without any of them.
	var responseCache *cache.ResponseCache
	responseCache, err = cache.NewResponseCache(cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis initialization failed, response caching disabled", zap.Error(err))
		responseCache = nil
	} else {
		defer responseCache.Close()
		logger.Info("response cache initialized")
	}

	var chClient *analytics.Client
	chClient, err = analytics.NewClient(cfg.ClickHouse, logger)
	if err != nil {
		logger.Warn("clickhouse initialization failed, analytics will be unavailable", zap.Error(err))
		chClient = nil
	} else {
		defer chClient.Close()
		if err := chClient.EnsureTables(ctx); err != nil {
			logger.Warn("clickhouse table creation failed", zap.Error(err))
		}
		logger.Info("analytics client initialized")
	}

	producer := events.NewProducer(cfg.Kafka, logger)
	defer producer.Close()

	// Scoring engines and chat heuristic.
	recommender := recommend.NewEngine(cfg.Recommend)
	searcher := search.NewEngine(cfg.Search)
	responder := chat.NewResponder(cfg.Chat, logger)

	// Catalog change events invalidate the snapshot and the response cache.
	consumer := events.NewConsumer(cfg.Kafka, func(ctx context.Context, ev *models.CatalogChangeEvent) {
		store.Invalidate()
		if responseCache != nil {
			if err := responseCache.InvalidateAll(ctx); err != nil {
				logger.Warn("response cache invalidation failed", zap.Error(err))
			}
		}
	}, logger)
	if err := consumer.Start(ctx); err != nil {
		logger.Warn("kafka consumer start failed, change-driven invalidation unavailable", zap.Error(err))
	} else {
		defer consumer.Stop()
	}

	// Interaction events fan out to Kafka and, when available, ClickHouse.
	publisher := newInteractionFanout(producer, chClient, logger)

	// A nil *analytics.Client must not become a non-nil interface value.
	var queryAnalytics api.QueryAnalytics
	if chClient != nil {
		queryAnalytics = chClient
	}

	handler := api.NewHandler(store, recommender, searcher, responder, responseCache, publisher, queryAnalytics, logger)

	healthHandler := api.NewHealthHandler(logger)
	healthHandler.Register("upstream", fetcher)
	if responseCache != nil {
		healthHandler.Register("redis", responseCache)
	}
	if chClient != nil {
		healthHandler.Register("clickhouse", chClient)
	}
	healthHandler.Register("kafka", consumer)

	router := api.NewRouter(handler, healthHandler, cfg.Server.MaxConcurrent, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		return err
	}

	logger.Info("starting graceful shutdown", zap.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", zap.Error(err))
	}

	cancel()

	if tracerShutdown != nil {
		if err := tracerShutdown(shutdownCtx); err != nil {
			logger.Error("tracer shutdown error", zap.Error(err))
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// interactionFanout sends each interaction event to Kafka and ClickHouse.
type interactionFanout struct {
	producer *events.Producer
	ch       *analytics.Client
	logger   *zap.Logger
}

func newInteractionFanout(producer *events.Producer, ch *analytics.Client, logger *zap.Logger) *interactionFanout {
	return &interactionFanout{producer: producer, ch: ch, logger: logger}
}

func (f *interactionFanout) PublishAsync(ev *models.InteractionEvent) {
	f.producer.PublishAsync(ev)
	if f.ch != nil {
		go func() {
			writeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := f.ch.WriteInteraction(writeCtx, ev); err != nil {
				f.logger.Warn("analytics write failed", zap.Error(err))
			}
		}()
	}
}
