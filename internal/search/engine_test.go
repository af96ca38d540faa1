package search

import (
	"errors"
	"fmt"
	"testing"

	"github.com/anishsharma/catalog-assist/internal/config"
	"github.com/anishsharma/catalog-assist/internal/models"
)

func testEngine() *Engine {
	return NewEngine(config.SearchConfig{
		MaxResults:       20,
		MaxSuggestions:   8,
		PhraseInName:     10,
		WordInName:       5,
		PhraseInCategory: 3,
		PhraseInDesc:     2,
		WordInNameToken:  1,
	})
}

func searchCatalog() []models.Product {
	return []models.Product{
		{ID: "p1", Name: "Wool Sweater", Description: "classic winter knit", Category: "Sweaters"},
		{ID: "p2", Name: "Silk Scarf", Description: "pairs well with any sweater", Category: "Accessories"},
		{ID: "p3", Name: "Beanie", Description: "warm hat", Category: "Hats"},
		{ID: "p4", Name: "Sweater Vest", Description: "sleeveless layer", Category: "Sweaters"},
	}
}

func TestSearch_EmptyQueryIsFailure(t *testing.T) {
	e := testEngine()

	for _, q := range []string{"", "   ", "\t\n"} {
		t.Run(fmt.Sprintf("%q", q), func(t *testing.T) {
			results, err := e.Search(searchCatalog(), q)
			if !errors.Is(err, ErrEmptyQuery) {
				t.Errorf("expected ErrEmptyQuery, got %v", err)
			}
			if len(results) != 0 {
				t.Errorf("expected no results, got %d", len(results))
			}
		})
	}
}

func TestSearch_NameMatchOutranksDescriptionMatch(t *testing.T) {
	e := testEngine()
	results, err := e.Search(searchCatalog(), "sweater")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) < 2 {
		t.Fatalf("expected at least 2 matches, got %d", len(results))
	}
	// p1 has "sweater" in the name; p2 only in the description
	var p1Score, p2Score float64
	for _, r := range results {
		switch r.Product.ID {
		case "p1":
			p1Score = r.Score
		case "p2":
			p2Score = r.Score
		}
	}
	if p1Score <= p2Score {
		t.Errorf("name match (%.0f) should outrank description match (%.0f)", p1Score, p2Score)
	}
}

func TestSearch_ScoresMonotonicallyNonIncreasing(t *testing.T) {
	e := testEngine()
	results, err := e.Search(searchCatalog(), "warm wool sweater")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("scores not monotonic at %d: %.0f > %.0f", i, results[i].Score, results[i-1].Score)
		}
	}
}

func TestSearch_NoMatchesIsSuccessWithEmptyList(t *testing.T) {
	e := testEngine()
	results, err := e.Search(searchCatalog(), "spaceship")
	if err != nil {
		t.Errorf("no-match query should not error, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no matches, got %d", len(results))
	}
}

func TestSearch_CapsResults(t *testing.T) {
	e := NewEngine(config.SearchConfig{
		MaxResults:       3,
		MaxSuggestions:   8,
		PhraseInName:     10,
		WordInName:       5,
		PhraseInCategory: 3,
		PhraseInDesc:     2,
		WordInNameToken:  1,
	})

	var products []models.Product
	for i := 0; i < 10; i++ {
		products = append(products, models.Product{
			ID:   fmt.Sprintf("p%d", i),
			Name: "Sweater",
		})
	}

	results, err := e.Search(products, "sweater")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected cap of 3, got %d", len(results))
	}
}

func TestSearch_StableTieBreakByCatalogOrder(t *testing.T) {
	e := testEngine()
	products := []models.Product{
		{ID: "first", Name: "Red Sweater"},
		{ID: "second", Name: "Blue Sweater"},
	}

	results, err := e.Search(products, "sweater")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 || results[0].Product.ID != "first" {
		t.Errorf("expected catalog order preserved on tie, got %v", results)
	}
}

func TestSearch_CaseInsensitive(t *testing.T) {
	e := testEngine()
	results, err := e.Search(searchCatalog(), "WOOL SWEATER")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) == 0 || results[0].Product.ID != "p1" {
		t.Errorf("expected case-insensitive match on p1, got %v", results)
	}
}
