package search

import (
	"sort"
	"strings"

	"github.com/anishsharma/catalog-assist/internal/models"
	"github.com/anishsharma/catalog-assist/internal/textutil"
)

const minSuggestQueryLen = 2

// Suggest collects autocomplete candidates containing the query substring:
// individual name tokens (longer than two characters), full product names,
// and category/subcategory names. Deduplicated, sorted lexicographically
// for a stable response, capped at MaxSuggestions.
func (e *Engine) Suggest(products []models.Product, query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < minSuggestQueryLen {
		return nil
	}

	set := make(map[string]struct{})

	for _, p := range products {
		for _, tok := range textutil.Tokenize(p.Name) {
			if len(tok) > 2 && strings.Contains(tok, q) {
				set[tok] = struct{}{}
			}
		}

		nameLower := strings.ToLower(p.Name)
		if strings.Contains(nameLower, q) {
			set[p.Name] = struct{}{}
		}

		if c := strings.ToLower(p.Category); c != "" && strings.Contains(c, q) {
			set[p.Category] = struct{}{}
		}
		if sc := strings.ToLower(p.Subcategory); sc != "" && strings.Contains(sc, q) {
			set[p.Subcategory] = struct{}{}
		}
	}

	suggestions := make([]string, 0, len(set))
	for s := range set {
		suggestions = append(suggestions, s)
	}
	sort.Strings(suggestions)

	if len(suggestions) > e.cfg.MaxSuggestions {
		suggestions = suggestions[:e.cfg.MaxSuggestions]
	}
	return suggestions
}
