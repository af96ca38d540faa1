// Package search implements keyword-scored product search and autocomplete
// suggestions over the in-memory catalog snapshot.
package search

import (
	"errors"
	"sort"
	"strings"

	"github.com/anishsharma/catalog-assist/internal/config"
	"github.com/anishsharma/catalog-assist/internal/models"
	"github.com/anishsharma/catalog-assist/internal/textutil"
)

// ErrEmptyQuery marks a missing/blank query: a failure state, distinct
// from a valid query with no matches.
var ErrEmptyQuery = errors.New("search query is required")

type Engine struct {
	cfg config.SearchConfig
}

func NewEngine(cfg config.SearchConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Search ranks products by an additive keyword score. Results are capped
// at MaxResults, sorted by descending score with catalog order breaking ties.
func (e *Engine) Search(products []models.Product, query string) ([]models.ScoredProduct, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, ErrEmptyQuery
	}

	words := strings.Fields(q)

	var results []models.ScoredProduct
	for _, p := range products {
		score := e.scoreProduct(p, q, words)
		if score > 0 {
			results = append(results, models.ScoredProduct{Product: p, Score: float64(score)})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > e.cfg.MaxResults {
		results = results[:e.cfg.MaxResults]
	}
	return results, nil
}

func (e *Engine) scoreProduct(p models.Product, query string, words []string) int {
	name := strings.ToLower(p.Name)
	desc := strings.ToLower(p.Description)
	category := strings.ToLower(p.Category)
	subcategory := strings.ToLower(p.Subcategory)

	score := 0

	if strings.Contains(name, query) {
		score += e.cfg.PhraseInName
	}
	for _, w := range words {
		if strings.Contains(name, w) {
			score += e.cfg.WordInName
		}
	}
	if strings.Contains(category, query) || (subcategory != "" && strings.Contains(subcategory, query)) {
		score += e.cfg.PhraseInCategory
	}
	if strings.Contains(desc, query) {
		score += e.cfg.PhraseInDesc
	}

	nameTokens := textutil.Tokenize(p.Name)
	for _, w := range words {
		for _, tok := range nameTokens {
			if strings.Contains(tok, w) {
				score += e.cfg.WordInNameToken
				break
			}
		}
	}

	return score
}
