// Package recommend ranks catalog products for the recommendation endpoints.
// All functions are pure over the snapshot product list.
package recommend

import (
	"sort"

	"github.com/anishsharma/catalog-assist/internal/config"
	"github.com/anishsharma/catalog-assist/internal/models"
	"github.com/anishsharma/catalog-assist/internal/textutil"
)

type Engine struct {
	cfg config.RecommendConfig
}

func NewEngine(cfg config.RecommendConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Related returns up to MaxRelated product ids similar to the target,
// never including the target itself. An unknown id yields an empty list.
func (e *Engine) Related(products []models.Product, productID string) []string {
	if e.cfg.Strategy == "tiered" {
		return e.relatedTiered(products, productID)
	}
	return e.relatedSimilarity(products, productID)
}

// relatedSimilarity scores every other product by token-set Jaccard over
// name+description+category, with a flat bonus for an exact category match.
func (e *Engine) relatedSimilarity(products []models.Product, productID string) []string {
	target, ok := findProduct(products, productID)
	if !ok {
		return nil
	}

	targetTokens := textutil.TokenSet(target.Name, target.Description, target.Category)

	type candidate struct {
		id    string
		score float64
	}
	var candidates []candidate

	for _, p := range products {
		if p.ID == productID {
			continue
		}
		score := textutil.Jaccard(targetTokens, textutil.TokenSet(p.Name, p.Description, p.Category))
		if p.Category == target.Category {
			score += e.cfg.CategoryBonus
		}
		if score > e.cfg.ScoreThreshold {
			candidates = append(candidates, candidate{id: p.ID, score: score})
		}
	}

	// Stable keeps catalog order for equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	ids := make([]string, 0, e.cfg.MaxRelated)
	for _, c := range candidates {
		if len(ids) == e.cfg.MaxRelated {
			break
		}
		ids = append(ids, c.id)
	}
	return ids
}

// relatedTiered is the earlier selection policy kept for catalogs where
// similarity scoring is not wanted: same subcategory first, then same
// category with a different subcategory, then arbitrary fill.
func (e *Engine) relatedTiered(products []models.Product, productID string) []string {
	target, ok := findProduct(products, productID)
	if !ok {
		return nil
	}

	limit := e.cfg.MaxRelated
	seen := map[string]bool{productID: true}
	var ids []string

	add := func(id string, cap int) {
		if len(ids) < cap && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if target.Subcategory != "" {
		subCap := limit - 2
		if subCap < 1 {
			subCap = 1
		}
		for _, p := range products {
			if p.Subcategory == target.Subcategory {
				add(p.ID, subCap)
			}
		}
	}
	for _, p := range products {
		if p.Category == target.Category && p.Subcategory != target.Subcategory {
			add(p.ID, limit)
		}
	}
	for _, p := range products {
		if p.Category != target.Category {
			add(p.ID, limit)
		}
	}

	return ids
}

func findProduct(products []models.Product, id string) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
