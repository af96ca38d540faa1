package recommend

import (
	"testing"

	"github.com/anishsharma/catalog-assist/internal/config"
	"github.com/anishsharma/catalog-assist/internal/models"
)

func similarityEngine() *Engine {
	return NewEngine(config.RecommendConfig{
		Strategy:       "similarity",
		MaxRelated:     5,
		MaxPersonal:    8,
		CategoryBonus:  0.3,
		ScoreThreshold: 0.1,
	})
}

func knitwearCatalog() []models.Product {
	return []models.Product{
		{ID: "p1", Name: "Wool Sweater", Description: "warm wool sweater for winter", Category: "Sweaters", Subcategory: "Pullover"},
		{ID: "p2", Name: "Cashmere Sweater", Description: "soft cashmere sweater warm winter", Category: "Sweaters", Subcategory: "Pullover"},
		{ID: "p3", Name: "Knit Cardigan", Description: "open front knit cardigan", Category: "Sweaters", Subcategory: "Cardigan"},
		{ID: "p4", Name: "Silk Scarf", Description: "light silk scarf", Category: "Accessories", Subcategory: "Scarves"},
		{ID: "p5", Name: "Wool Scarf", Description: "warm wool scarf for winter", Category: "Accessories", Subcategory: "Scarves"},
		{ID: "p6", Name: "Leather Wallet", Description: "compact leather wallet", Category: "Accessories", Subcategory: "Wallets"},
	}
}

func TestRelated_NeverIncludesTarget(t *testing.T) {
	e := similarityEngine()
	products := knitwearCatalog()

	for _, p := range products {
		ids := e.Related(products, p.ID)
		if len(ids) > 5 {
			t.Errorf("%s: expected at most 5 recommendations, got %d", p.ID, len(ids))
		}
		for _, id := range ids {
			if id == p.ID {
				t.Errorf("%s: recommendations include the target itself", p.ID)
			}
		}
	}
}

func TestRelated_UnknownIDReturnsEmpty(t *testing.T) {
	e := similarityEngine()
	ids := e.Related(knitwearCatalog(), "nope")
	if len(ids) != 0 {
		t.Errorf("expected empty list for unknown id, got %v", ids)
	}
}

func TestRelated_SameCategoryOutranksCrossCategory(t *testing.T) {
	e := similarityEngine()
	ids := e.Related(knitwearCatalog(), "p1")

	if len(ids) == 0 {
		t.Fatal("expected recommendations for p1")
	}
	// p2 shares category, subcategory and most tokens with p1
	if ids[0] != "p2" {
		t.Errorf("expected p2 as top recommendation, got %s", ids[0])
	}
}

func TestRelated_ThresholdFiltersWeakMatches(t *testing.T) {
	e := similarityEngine()
	products := []models.Product{
		{ID: "a", Name: "Alpha", Description: "one two three", Category: "X"},
		{ID: "b", Name: "Beta", Description: "four five six", Category: "Y"},
	}
	ids := e.Related(products, "a")
	if len(ids) != 0 {
		t.Errorf("expected no recommendations below threshold, got %v", ids)
	}
}

func TestRelated_EmptyCatalog(t *testing.T) {
	e := similarityEngine()
	if ids := e.Related(nil, "p1"); len(ids) != 0 {
		t.Errorf("expected empty list for empty catalog, got %v", ids)
	}
}

func TestRelatedTiered_TierOrder(t *testing.T) {
	e := NewEngine(config.RecommendConfig{
		Strategy:       "tiered",
		MaxRelated:     5,
		MaxPersonal:    8,
		CategoryBonus:  0.3,
		ScoreThreshold: 0.1,
	})
	products := knitwearCatalog()

	ids := e.Related(products, "p1")
	if len(ids) == 0 {
		t.Fatal("expected tiered recommendations for p1")
	}
	// Same subcategory (p2) must come before same category/different
	// subcategory (p3), which must come before other categories.
	pos := make(map[string]int)
	for i, id := range ids {
		pos[id] = i
	}
	if p2, ok := pos["p2"]; !ok {
		t.Error("expected p2 (same subcategory) in recommendations")
	} else if p3, ok := pos["p3"]; ok && p2 > p3 {
		t.Errorf("same-subcategory match ranked below same-category match: %v", ids)
	}
	if len(ids) > 5 {
		t.Errorf("expected at most 5, got %d", len(ids))
	}
	for _, id := range ids {
		if id == "p1" {
			t.Error("tiered recommendations include the target itself")
		}
	}
}
