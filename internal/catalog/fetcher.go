package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/anishsharma/catalog-assist/internal/config"
	"github.com/anishsharma/catalog-assist/internal/models"
	"github.com/anishsharma/catalog-assist/internal/observability"
	"github.com/anishsharma/catalog-assist/internal/resilience"
)

const maxPageBodySize = 4 << 20 // 4 MB

// Fetcher pages through the upstream catalog API and assembles a full
// product list. Fetching is best-effort: any page failure ends pagination
// and whatever has been accumulated is returned.
type Fetcher struct {
	client   *http.Client
	baseURL  string
	pageSize int
	maxPages int
	cb       *gobreaker.CircuitBreaker
	logger   *zap.Logger
}

func NewFetcher(cfg config.UpstreamConfig, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:  cfg.BaseURL,
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
		cb:       resilience.NewCircuitBreaker("catalog-upstream", cfg.CircuitBreaker, logger),
		logger:   logger,
	}
}

// FetchAll assembles a full catalog snapshot. Partial results are returned
// on any failure; a snapshot is a best-effort read, not a transactional one.
// No retries: a failed page is treated as "no more pages".
func (f *Fetcher) FetchAll(ctx context.Context) []models.Product {
	ctx, span := observability.StartSpan(ctx, "catalog.fetch_all")
	defer span.End()

	var all []models.Product
	for page := 1; page <= f.maxPages; page++ {
		pageData, err := f.fetchPage(ctx, page)
		if err != nil {
			f.logger.Warn("catalog page fetch failed, ending pagination",
				zap.Int("page", page),
				zap.Int("accumulated", len(all)),
				zap.Error(err),
			)
			return all
		}
		if len(pageData.Products) == 0 {
			return all
		}

		all = append(all, pageData.Products...)

		if pageData.TotalPages > 0 && page >= pageData.TotalPages {
			break
		}
	}

	f.logger.Debug("catalog fetched", zap.Int("products", len(all)))
	return all
}

func (f *Fetcher) fetchPage(ctx context.Context, page int) (*models.CatalogPage, error) {
	start := time.Now()

	result, err := f.cb.Execute(func() (any, error) {
		return f.executePage(ctx, page)
	})

	status := "success"
	if err != nil {
		status = "error"
	}
	observability.UpstreamPageDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}
	pageData, ok := result.(*models.CatalogPage)
	if !ok || pageData == nil {
		return nil, fmt.Errorf("fetch page %d: unexpected nil result from circuit breaker", page)
	}
	return pageData, nil
}

func (f *Fetcher) executePage(ctx context.Context, page int) (*models.CatalogPage, error) {
	url := fmt.Sprintf("%s/products?page=%d&limit=%d", f.baseURL, page, f.pageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building page request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("page %d returned status %d", page, resp.StatusCode)
	}

	var pageData models.CatalogPage
	limited := io.LimitReader(resp.Body, maxPageBodySize)
	if err := json.NewDecoder(limited).Decode(&pageData); err != nil {
		return nil, fmt.Errorf("decoding page %d: %w", page, err)
	}

	return &pageData, nil
}

// HealthCheck probes the first catalog page.
func (f *Fetcher) HealthCheck(ctx context.Context) error {
	_, err := f.executePage(ctx, 1)
	return err
}
