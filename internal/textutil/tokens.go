// Package textutil holds the tokenization shared by the scoring heuristics.
package textutil

import "strings"

// Tokenize splits text into lowercase whitespace-delimited words.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// TokenSet returns the distinct lowercase tokens across the given texts.
func TokenSet(texts ...string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, text := range texts {
		for _, tok := range Tokenize(text) {
			set[tok] = struct{}{}
		}
	}
	return set
}

// Jaccard computes |A∩B| / |A∪B| over two token sets, 0 when either is empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
