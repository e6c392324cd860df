package headline

import (
	"testing"
	"time"
)

var baseTime = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func article(id, title, source string, minutesAgo int) Article {
	return Article{
		ID:        id,
		Title:     title,
		Source:    source,
		URL:       "https://example.com/" + id,
		Timestamp: baseTime.Add(-time.Duration(minutesAgo) * time.Minute),
	}
}

func clusterIDs(c Cluster) []string {
	ids := make([]string, len(c.Articles))
	for i, a := range c.Articles {
		ids[i] = a.ID
	}
	return ids
}

func TestGroupMergesOnTwoSharedKeywords(t *testing.T) {
	clusters := Group([]Article{
		article("a1", "Exchange X hacked for $50 million", "A", 10),
		article("b1", "Exchange X hacked, attackers drain $50 million", "B", 5),
		article("c1", "Unrelated: Token Y rallies 20%", "C", 1),
	})

	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}
	if got := clusterIDs(clusters[0]); len(got) != 2 || got[0] != "a1" || got[1] != "b1" {
		t.Errorf("first cluster = %v, want [a1 b1]", got)
	}
	if got := clusterIDs(clusters[1]); len(got) != 1 || got[0] != "c1" {
		t.Errorf("second cluster = %v, want [c1]", got)
	}
}

func TestGroupSingleSharedKeywordDoesNotMerge(t *testing.T) {
	clusters := Group([]Article{
		article("a", "Bitcoin price climbs above resistance", "coindesk", 3),
		article("b", "Bitcoin miners face energy crunch", "decrypt", 2),
	})

	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2 singletons", len(clusters))
	}
	for i, c := range clusters {
		if len(c.Articles) != 1 {
			t.Errorf("cluster %d has %d articles, want 1", i, len(c.Articles))
		}
	}
}

func TestGroupDoesNotStem(t *testing.T) {
	// "hacked" and "hack" are different keywords and "$50M" is too short
	// after cleaning, so these two only share "exchange".
	clusters := Group([]Article{
		article("a", "Exchange X hacked for $50 million", "A", 3),
		article("b", "Major hack drains $50M from Exchange X", "B", 2),
	})

	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}
}

func TestGroupIsFirstFit(t *testing.T) {
	clusters := Group([]Article{
		article("outage", "Solana network outage halts block production", "A", 30),
		article("listing", "Coinbase lists new Solana memecoins today", "B", 20),
		// Shares 2 keywords with "outage" and 5 with "listing".
		article("both", "Solana outage: Coinbase memecoins lists today", "C", 10),
	})

	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}
	if got := clusterIDs(clusters[0]); len(got) != 2 || got[1] != "both" {
		t.Errorf("first cluster = %v, want the late article to join it", got)
	}
	if got := clusterIDs(clusters[1]); len(got) != 1 {
		t.Errorf("second cluster = %v, want it untouched", got)
	}
}

func TestGroupKeywordSetGrows(t *testing.T) {
	clusters := Group([]Article{
		article("1", "Alpha Bravo Charlie", "A", 3),
		article("2", "Bravo Charlie Delta", "B", 2),
		// Matches only through "delta", which arrived with article 2.
		article("3", "Delta Echo Foxtrot Alpha", "C", 1),
	})

	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	for _, w := range []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"} {
		if _, ok := clusters[0].Keywords[w]; !ok {
			t.Errorf("keyword %q missing from accumulated set", w)
		}
	}
}

func TestGroupSkipsTitlesWithoutKeywords(t *testing.T) {
	clusters := Group([]Article{
		article("filler", "This is what they said", "A", 3),
		article("short", "BTC up 5%", "B", 2),
		article("real", "Ethereum staking yields climb", "C", 1),
	})

	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	if clusters[0].Articles[0].ID != "real" {
		t.Errorf("unexpected article %q in cluster", clusters[0].Articles[0].ID)
	}
}

func TestGroupEmptyInput(t *testing.T) {
	if got := Group(nil); len(got) != 0 {
		t.Errorf("Group(nil) = %v, want empty", got)
	}
}

func TestGroupAcrossNonBreakingSpaces(t *testing.T) {
	clusters := Group([]Article{
		article("nbsp", "Bitcoin\u00a0ETF\u00a0inflows surge", "A", 2),
		article("plain", "Record Bitcoin ETF inflows", "B", 1),
	})

	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	if got := clusterIDs(clusters[0]); len(got) != 2 || got[0] != "nbsp" || got[1] != "plain" {
		t.Errorf("cluster = %v, want [nbsp plain]", got)
	}
}
