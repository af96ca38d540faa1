package chat

import "testing"

func TestAnalyzeSentiment(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		sentiment string
		score     float64
	}{
		{"single positive word", "this store is great", SentimentPositive, 0.8},
		{"single negative word", "terrible experience", SentimentNegative, 0.8},
		{"no sentiment words", "where is my parcel", SentimentNeutral, 0.5},
		{"balanced words cancel out", "good quality but terrible packaging", SentimentNeutral, 0.5},
		{"negative outweighs positive", "nice idea but awful awful execution", SentimentNegative, 0.8},
		{"punctuation stripped before lookup", "thanks!", SentimentPositive, 0.8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sentiment, score := AnalyzeSentiment(tc.message)
			if sentiment != tc.sentiment {
				t.Errorf("sentiment: expected %s, got %s", tc.sentiment, sentiment)
			}
			if score != tc.score {
				t.Errorf("score: expected %.2f, got %.2f", tc.score, score)
			}
		})
	}
}

func TestAnalyzeSentiment_ScoreIsNotClamped(t *testing.T) {
	// Four net-positive hits push the score past 1.0.
	sentiment, score := AnalyzeSentiment("amazing amazing wonderful perfect")
	if sentiment != SentimentPositive {
		t.Fatalf("expected POSITIVE, got %s", sentiment)
	}
	if score <= 1.0 {
		t.Errorf("expected score above 1.0 for a strongly positive message, got %.2f", score)
	}
	if got, want := score, 0.7+0.1*4; got != want {
		t.Errorf("expected %.2f, got %.2f", want, got)
	}
}

func TestAnalyzeSentiment_CaseInsensitive(t *testing.T) {
	sentiment, _ := AnalyzeSentiment("GREAT service")
	if sentiment != SentimentPositive {
		t.Errorf("expected POSITIVE for uppercase input, got %s", sentiment)
	}
}
