package textutil

import "testing"

func TestTokenize(t *testing.T) {
	got := Tokenize("  Wool  SWEATER\twinter ")
	want := []string{"wool", "sweater", "winter"}
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestTokenSet_DeduplicatesAcrossTexts(t *testing.T) {
	set := TokenSet("wool sweater", "Sweater warm")
	if len(set) != 3 {
		t.Errorf("expected 3 distinct tokens, got %v", set)
	}
	for _, tok := range []string{"wool", "sweater", "warm"} {
		if _, ok := set[tok]; !ok {
			t.Errorf("missing token %q", tok)
		}
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"a", "b"}, []string{"a", "b"}, 1},
		{"disjoint", []string{"a"}, []string{"b"}, 0},
		{"half overlap", []string{"a", "b", "c"}, []string{"b", "c", "d"}, 0.5},
		{"empty side", nil, []string{"a"}, 0},
		{"both empty", nil, nil, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := TokenSet(joinTokens(tc.a))
			b := TokenSet(joinTokens(tc.b))
			if got := Jaccard(a, b); got != tc.want {
				t.Errorf("expected %.2f, got %.2f", tc.want, got)
			}
		})
	}
}

func joinTokens(tokens []string) string {
	out := ""
	for _, tok := range tokens {
		out += tok + " "
	}
	return out
}
