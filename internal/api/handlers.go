package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/anishsharma/catalog-assist/internal/cache"
	"github.com/anishsharma/catalog-assist/internal/chat"
	"github.com/anishsharma/catalog-assist/internal/models"
	"github.com/anishsharma/catalog-assist/internal/observability"
	"github.com/anishsharma/catalog-assist/internal/recommend"
	"github.com/anishsharma/catalog-assist/internal/search"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// ProductSource supplies the current catalog snapshot.
type ProductSource interface {
	Products(ctx context.Context) []models.Product
}

// InteractionPublisher records interaction analytics off the request path.
type InteractionPublisher interface {
	PublishAsync(ev *models.InteractionEvent)
}

// QueryAnalytics serves aggregate interaction stats for the ops endpoint.
type QueryAnalytics interface {
	TopQueries(ctx context.Context, limit int) ([]string, error)
}

type Handler struct {
	source      ProductSource
	recommender *recommend.Engine
	searcher    *search.Engine
	responder   *chat.Responder
	cache       *cache.ResponseCache // optional
	publisher   InteractionPublisher // optional
	analytics   QueryAnalytics       // optional
	logger      *zap.Logger
}

func NewHandler(
	source ProductSource,
	recommender *recommend.Engine,
	searcher *search.Engine,
	responder *chat.Responder,
	responseCache *cache.ResponseCache,
	publisher InteractionPublisher,
	analytics QueryAnalytics,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		source:      source,
		recommender: recommender,
		searcher:    searcher,
		responder:   responder,
		cache:       responseCache,
		publisher:   publisher,
		analytics:   analytics,
		logger:      logger,
	}
}

func (h *Handler) Related(w http.ResponseWriter, r *http.Request) {
	h.recommendations(w, r, "related", chi.URLParam(r, "productId"), h.recommender.Related)
}

func (h *Handler) Personalized(w http.ResponseWriter, r *http.Request) {
	h.recommendations(w, r, "personalized", chi.URLParam(r, "userId"), h.recommender.Personalized)
}

func (h *Handler) recommendations(
	w http.ResponseWriter,
	r *http.Request,
	kind, id string,
	rank func([]models.Product, string) []string,
) {
	ctx := r.Context()
	start := time.Now()

	if h.cache != nil {
		ids, hit, err := h.cache.GetRecommendations(ctx, kind, id)
		if err != nil {
			h.logger.Warn("recommendation cache error", zap.Error(err))
		}
		if hit {
			h.track(kind, "cache_hit", start)
			h.writeJSON(w, map[string]any{"success": true, "recommendations": nonNil(ids)})
			return
		}
	}

	products := h.source.Products(ctx)
	ids := rank(products, id)

	if h.cache != nil {
		if err := h.cache.SetRecommendations(ctx, kind, id, ids); err != nil {
			h.logger.Warn("recommendation cache set error", zap.Error(err))
		}
	}
	h.publish(&models.InteractionEvent{
		Type:        kind,
		UserID:      id,
		ResultCount: len(ids),
		RequestID:   RequestIDFromContext(ctx),
		Timestamp:   time.Now().UTC(),
	})

	h.track(kind, "success", start)
	h.writeJSON(w, map[string]any{"success": true, "recommendations": nonNil(ids)})
}

func (h *Handler) SmartSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req models.SearchRequest
	if err := decodeBody(r, &req); err != nil {
		h.track("search", "bad_request", start)
		h.writeFailure(w, "invalid request body")
		return
	}

	if h.cache != nil && req.Query != "" {
		cached, err := h.cache.GetSearchResults(ctx, req.Query)
		if err != nil {
			h.logger.Warn("search cache error", zap.Error(err))
		}
		if cached != nil {
			h.track("search", "cache_hit", start)
			h.writeSearchResults(w, cached)
			return
		}
	}

	products := h.source.Products(ctx)
	results, err := h.searcher.Search(products, req.Query)
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			h.track("search", "empty_query", start)
			h.writeJSON(w, map[string]any{
				"success":  false,
				"products": []models.Product{},
				"count":    0,
				"error":    err.Error(),
			})
			return
		}
		h.logger.Error("search failed", zap.Error(err))
		h.track("search", "error", start)
		h.writeFailure(w, "search temporarily unavailable")
		return
	}

	if h.cache != nil {
		if err := h.cache.SetSearchResults(ctx, req.Query, results); err != nil {
			h.logger.Warn("search cache set error", zap.Error(err))
		}
	}
	h.publish(&models.InteractionEvent{
		Type:        "search",
		Query:       req.Query,
		UserID:      req.UserID,
		ResultCount: len(results),
		RequestID:   RequestIDFromContext(ctx),
		Timestamp:   time.Now().UTC(),
	})

	h.track("search", "success", start)
	h.writeSearchResults(w, results)
}

func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req models.SearchRequest
	if err := decodeBody(r, &req); err != nil {
		h.track("suggest", "bad_request", start)
		h.writeFailure(w, "invalid request body")
		return
	}

	if h.cache != nil {
		cached, hit, err := h.cache.GetSuggestions(ctx, req.Query)
		if err != nil {
			h.logger.Warn("suggestion cache error", zap.Error(err))
		}
		if hit {
			h.track("suggest", "cache_hit", start)
			h.writeJSON(w, map[string]any{"success": true, "suggestions": nonNil(cached)})
			return
		}
	}

	products := h.source.Products(ctx)
	suggestions := h.searcher.Suggest(products, req.Query)

	if h.cache != nil {
		if err := h.cache.SetSuggestions(ctx, req.Query, suggestions); err != nil {
			h.logger.Warn("suggestion cache set error", zap.Error(err))
		}
	}
	h.publish(&models.InteractionEvent{
		Type:        "suggest",
		Query:       req.Query,
		ResultCount: len(suggestions),
		RequestID:   RequestIDFromContext(ctx),
		Timestamp:   time.Now().UTC(),
	})

	h.track("suggest", "success", start)
	h.writeJSON(w, map[string]any{"success": true, "suggestions": nonNil(suggestions)})
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req models.ChatRequest
	if err := decodeBody(r, &req); err != nil {
		h.track("chat", "bad_request", start)
		h.writeFailure(w, "invalid request body")
		return
	}

	reply, err := h.responder.Respond(req.Message, req.UserID)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			h.track("chat", "empty_message", start)
			h.writeJSON(w, map[string]any{
				"success":     false,
				"response":    "Please enter a message so I can help you.",
				"suggestions": []string{"Order status", "Shipping info", "Product help"},
				"error":       err.Error(),
			})
			return
		}
		h.logger.Error("chat responder failed", zap.Error(err))
		h.track("chat", "error", start)
		h.writeFailure(w, "chat temporarily unavailable")
		return
	}

	h.publish(&models.InteractionEvent{
		Type:      "chat",
		Query:     req.Message,
		Intent:    reply.Analysis.Intent,
		Sentiment: reply.Analysis.Sentiment,
		UserID:    req.UserID,
		RequestID: RequestIDFromContext(ctx),
		Timestamp: time.Now().UTC(),
	})

	h.track("chat", "success", start)
	h.writeJSON(w, map[string]any{
		"success":     true,
		"response":    reply.Text,
		"suggestions": nonNil(reply.Suggestions),
		"analysis":    reply.Analysis,
	})
}

// TopQueries reports the most frequent recent search queries. Internal ops
// surface, not part of the storefront contract.
func (h *Handler) TopQueries(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.analytics == nil {
		h.track("top_queries", "unavailable", start)
		h.writeFailure(w, "analytics unavailable")
		return
	}

	queries, err := h.analytics.TopQueries(r.Context(), 10)
	if err != nil {
		h.logger.Error("top queries lookup failed", zap.Error(err))
		h.track("top_queries", "error", start)
		h.writeFailure(w, "analytics unavailable")
		return
	}

	h.track("top_queries", "success", start)
	h.writeJSON(w, map[string]any{"success": true, "queries": nonNil(queries)})
}

func (h *Handler) writeSearchResults(w http.ResponseWriter, results []models.ScoredProduct) {
	products := make([]models.Product, 0, len(results))
	for _, r := range results {
		products = append(products, r.Product)
	}
	h.writeJSON(w, map[string]any{
		"success":  true,
		"products": products,
		"count":    len(products),
	})
}

func (h *Handler) publish(ev *models.InteractionEvent) {
	if h.publisher != nil {
		h.publisher.PublishAsync(ev)
	}
}

func (h *Handler) track(endpoint, status string, start time.Time) {
	observability.RequestsTotal.WithLabelValues(endpoint, status).Inc()
	observability.RequestDuration.WithLabelValues(endpoint, status).Observe(time.Since(start).Seconds())
}

// writeJSON always answers 200: failures are data, not transport errors.
func (h *Handler) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("writing json response", zap.Error(err))
	}
}

func (h *Handler) writeFailure(w http.ResponseWriter, message string) {
	h.writeJSON(w, map[string]any{"success": false, "error": message})
}

func decodeBody(r *http.Request, dst any) error {
	limited := io.LimitReader(r.Body, maxRequestBodySize)
	return json.NewDecoder(limited).Decode(dst)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
