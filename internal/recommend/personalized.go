package recommend

import (
	"sort"

	"github.com/anishsharma/catalog-assist/internal/models"
)

// Personalized returns the top MaxPersonal product ids ranked by
// rating × review count. There is no per-user model yet: userID is
// accepted for interface stability but does not affect the ranking.
// TODO: fold in per-user order history once the orders API exposes it.
func (e *Engine) Personalized(products []models.Product, userID string) []string {
	_ = userID

	idx := make([]int, len(products))
	for i := range idx {
		idx[i] = i
	}

	weight := func(p models.Product) float64 {
		reviews := p.NumberOfReviews
		if reviews <= 0 {
			reviews = 1
		}
		return p.Ratings * float64(reviews)
	}

	sort.SliceStable(idx, func(i, j int) bool {
		return weight(products[idx[i]]) > weight(products[idx[j]])
	})

	limit := e.cfg.MaxPersonal
	if limit > len(idx) {
		limit = len(idx)
	}

	ids := make([]string, 0, limit)
	for _, i := range idx[:limit] {
		ids = append(ids, products[i].ID)
	}
	return ids
}
