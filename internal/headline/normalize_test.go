package headline

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  []string
	}{
		{
			name:  "lowercases and strips punctuation",
			title: "Bitcoin hits $100,000!",
			want:  []string{"bitcoin", "hits", "100000"},
		},
		{
			name:  "drops short tokens",
			title: "SEC to sue big DeFi firm",
			want:  []string{"defi", "firm"},
		},
		{
			name:  "drops stop words",
			title: "What they said about Ethereum staking",
			want:  []string{"ethereum", "staking"},
		},
		{
			name:  "joins tokens split only by punctuation",
			title: "ETH/BTC ratio slides",
			want:  []string{"ethbtc", "ratio", "slides"},
		},
		{
			name:  "removes non ascii letters",
			title: "Café über crypto",
			want:  []string{"crypto"},
		},
		{
			name:  "non-breaking space separates words",
			title: "Bitcoin\u00a0ETF\u00a0inflows surge",
			want:  []string{"bitcoin", "inflows", "surge"},
		},
		{
			name:  "other unicode spaces separate words",
			title: "Solana\u2009validators\u3000upgrade",
			want:  []string{"solana", "validators", "upgrade"},
		},
		{
			name:  "keeps duplicates",
			title: "Bitcoin bitcoin BITCOIN",
			want:  []string{"bitcoin", "bitcoin", "bitcoin"},
		},
		{
			name:  "only filler yields nothing",
			title: "This is what they said",
			want:  nil,
		},
		{
			name:  "empty title",
			title: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.title)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestNormalizeIsPure(t *testing.T) {
	title := "Exchange X hacked for $50 million"
	first := Normalize(title)
	second := Normalize(title)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Normalize not repeatable: %q vs %q", first, second)
	}
	if title != "Exchange X hacked for $50 million" {
		t.Errorf("input mutated: %q", title)
	}
}

func TestStopWordsAreLongerThanMinimum(t *testing.T) {
	for w := range stopWords {
		if len(w) <= minKeywordLen {
			t.Errorf("stop word %q can never pass the length filter", w)
		}
	}
}
