package catalog

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/anishsharma/catalog-assist/internal/models"
	"github.com/anishsharma/catalog-assist/internal/observability"
)

// Snapshot is the full product list captured by one fetch pass. A zero
// FetchedAt marks it as never fetched (or explicitly invalidated).
type Snapshot struct {
	Products  []models.Product
	FetchedAt time.Time
}

// ProductFetcher assembles a complete product list from upstream.
type ProductFetcher interface {
	FetchAll(ctx context.Context) []models.Product
}

// Store holds the current catalog snapshot and refreshes it synchronously
// on the first read after the freshness window expires.
//
// The snapshot is swapped through a single atomic pointer, so a reader
// never observes a product list paired with a mismatched timestamp.
// There is deliberately no single-flight: concurrent stale readers may
// each trigger a fetch, which is idempotent and merely redundant.
type Store struct {
	fetcher ProductFetcher
	window  time.Duration
	logger  *zap.Logger
	now     func() time.Time

	snap atomic.Pointer[Snapshot]
}

func NewStore(fetcher ProductFetcher, window time.Duration, logger *zap.Logger) *Store {
	return &Store{
		fetcher: fetcher,
		window:  window,
		logger:  logger,
		now:     time.Now,
	}
}

// Products returns the current snapshot, refreshing it first when stale.
// An unreachable upstream degrades to the previous snapshot (or an empty
// list); it is never surfaced as an error.
func (s *Store) Products(ctx context.Context) []models.Product {
	cur := s.snap.Load()
	if cur != nil && !cur.FetchedAt.IsZero() {
		age := s.now().Sub(cur.FetchedAt)
		if age < s.window {
			observability.SnapshotAge.Set(age.Seconds())
			return cur.Products
		}
	}

	return s.refresh(ctx, cur)
}

func (s *Store) refresh(ctx context.Context, prev *Snapshot) []models.Product {
	fetched := s.fetcher.FetchAll(ctx)
	if len(fetched) == 0 {
		observability.SnapshotRefreshes.WithLabelValues("empty").Inc()
		s.logger.Warn("catalog refresh returned no products, keeping previous snapshot")
		if prev != nil {
			return prev.Products
		}
		return nil
	}

	next := &Snapshot{Products: fetched, FetchedAt: s.now()}
	s.snap.Store(next)

	observability.SnapshotRefreshes.WithLabelValues("success").Inc()
	observability.SnapshotProducts.Set(float64(len(fetched)))
	observability.SnapshotAge.Set(0)
	s.logger.Info("catalog snapshot refreshed", zap.Int("products", len(fetched)))

	return next.Products
}

// Invalidate forces a refetch on the next read while keeping the current
// product list available as fallback data.
func (s *Store) Invalidate() {
	cur := s.snap.Load()
	if cur == nil {
		return
	}
	s.snap.Store(&Snapshot{Products: cur.Products})
}

// LastFetched reports when the current snapshot was taken; the zero time
// means no successful fetch yet.
func (s *Store) LastFetched() time.Time {
	if cur := s.snap.Load(); cur != nil {
		return cur.FetchedAt
	}
	return time.Time{}
}
