package catalog

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/anishsharma/catalog-assist/internal/models"
)

type stubFetcher struct {
	calls   int
	batches [][]models.Product
}

func (s *stubFetcher) FetchAll(ctx context.Context) []models.Product {
	s.calls++
	if len(s.batches) == 0 {
		return nil
	}
	batch := s.batches[0]
	if len(s.batches) > 1 {
		s.batches = s.batches[1:]
	}
	return batch
}

func TestStore_FreshSnapshotServedWithoutRefetch(t *testing.T) {
	fetcher := &stubFetcher{batches: [][]models.Product{{{ID: "p1"}, {ID: "p2"}}}}
	store := NewStore(fetcher, 30*time.Minute, zap.NewNop())

	first := store.Products(context.Background())
	second := store.Products(context.Background())

	if fetcher.calls != 1 {
		t.Errorf("expected exactly 1 fetch, got %d", fetcher.calls)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 products from both reads, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("snapshots differ at %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestStore_ExpiredWindowTriggersSingleRefetch(t *testing.T) {
	fetcher := &stubFetcher{batches: [][]models.Product{
		{{ID: "old"}},
		{{ID: "new"}},
	}}
	store := NewStore(fetcher, 30*time.Minute, zap.NewNop())

	now := time.Now()
	store.now = func() time.Time { return now }
	store.Products(context.Background())

	// Jump past the freshness window
	store.now = func() time.Time { return now.Add(31 * time.Minute) }
	got := store.Products(context.Background())

	if fetcher.calls != 2 {
		t.Errorf("expected 2 fetches total, got %d", fetcher.calls)
	}
	if len(got) != 1 || got[0].ID != "new" {
		t.Errorf("expected refreshed snapshot, got %v", got)
	}
}

func TestStore_EmptyFetchFallsBackToPreviousSnapshot(t *testing.T) {
	fetcher := &stubFetcher{batches: [][]models.Product{
		{{ID: "p1"}},
		nil,
	}}
	store := NewStore(fetcher, 30*time.Minute, zap.NewNop())

	now := time.Now()
	store.now = func() time.Time { return now }
	store.Products(context.Background())

	store.now = func() time.Time { return now.Add(time.Hour) }
	got := store.Products(context.Background())

	if len(got) != 1 || got[0].ID != "p1" {
		t.Errorf("expected previous snapshot as fallback, got %v", got)
	}
}

func TestStore_EmptyFetchWithNoPriorSnapshot(t *testing.T) {
	fetcher := &stubFetcher{}
	store := NewStore(fetcher, 30*time.Minute, zap.NewNop())

	got := store.Products(context.Background())
	if len(got) != 0 {
		t.Errorf("expected empty product list, got %d", len(got))
	}
	if !store.LastFetched().IsZero() {
		t.Error("expected zero LastFetched when no fetch has succeeded")
	}
}

func TestStore_InvalidateForcesRefetchButKeepsFallback(t *testing.T) {
	fetcher := &stubFetcher{batches: [][]models.Product{
		{{ID: "p1"}},
		nil,
	}}
	store := NewStore(fetcher, 30*time.Minute, zap.NewNop())

	store.Products(context.Background())
	store.Invalidate()

	if !store.LastFetched().IsZero() {
		t.Error("expected zero timestamp after invalidation")
	}

	// Next read refetches; the upstream is down, so the retained
	// products serve as fallback.
	got := store.Products(context.Background())
	if fetcher.calls != 2 {
		t.Errorf("expected refetch after invalidation, got %d calls", fetcher.calls)
	}
	if len(got) != 1 || got[0].ID != "p1" {
		t.Errorf("expected retained products as fallback, got %v", got)
	}
}
