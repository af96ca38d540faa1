package chat

import (
	"strings"

	"github.com/anishsharma/catalog-assist/internal/textutil"
)

const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
)

var positiveWords = map[string]struct{}{
	"good": {}, "great": {}, "excellent": {}, "amazing": {}, "awesome": {},
	"love": {}, "wonderful": {}, "perfect": {}, "happy": {}, "nice": {},
	"best": {}, "thanks": {}, "thank": {}, "fantastic": {}, "beautiful": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "terrible": {}, "awful": {}, "horrible": {}, "hate": {},
	"worst": {}, "poor": {}, "disappointed": {}, "disappointing": {},
	"angry": {}, "broken": {}, "damaged": {}, "useless": {}, "slow": {},
}

// AnalyzeSentiment classifies the message by counting positive and negative
// word hits; the majority wins. The score is 0.5 for NEUTRAL and
// 0.7 + 0.1×(count difference) otherwise. The score is deliberately not
// clamped to [0,1]: strongly lopsided messages score above 1.0, matching
// the behavior the storefront already depends on.
func AnalyzeSentiment(message string) (sentiment string, score float64) {
	pos, neg := 0, 0
	for _, tok := range textutil.Tokenize(message) {
		tok = strings.Trim(tok, ".,!?;:'\"()")
		if _, ok := positiveWords[tok]; ok {
			pos++
		}
		if _, ok := negativeWords[tok]; ok {
			neg++
		}
	}

	switch {
	case pos > neg:
		return SentimentPositive, 0.7 + 0.1*float64(pos-neg)
	case neg > pos:
		return SentimentNegative, 0.7 + 0.1*float64(neg-pos)
	default:
		return SentimentNeutral, 0.5
	}
}
