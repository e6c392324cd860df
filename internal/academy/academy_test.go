package academy

import (
	"math/rand"
	"strings"
	"testing"
)

func TestCandidatesFiltersByJob(t *testing.T) {
	allowed := map[Category]bool{CategoryTokenScreener: true, CategoryTrading: true, CategoryPlaybook: true}
	got := Candidates("day-b")
	if len(got) == 0 {
		t.Fatal("no candidates for day-b")
	}
	for _, a := range got {
		if !allowed[a.Category] {
			t.Errorf("%q has category %s, not relevant to day-b", a.Title, a.Category)
		}
	}

	if len(Candidates("unknown")) != len(Articles) {
		t.Errorf("unknown job should fall back to the full catalogue")
	}
}

func TestRandomArticlesDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, job := range []string{"news", "day-a", "day-b", "day-c"} {
		got := RandomArticles(job, 3, rng)
		if len(got) != 3 {
			t.Fatalf("%s: got %d articles, want 3", job, len(got))
		}
		seen := map[string]bool{}
		for _, a := range got {
			if seen[a.URL] {
				t.Errorf("%s: duplicate article %q", job, a.Title)
			}
			seen[a.URL] = true
		}
	}
}

func TestRandomArticlesBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if got := RandomArticles("day-a", 0, rng); got != nil {
		t.Errorf("n=0 returned %v", got)
	}
	pool := Candidates("day-a")
	if got := RandomArticles("day-a", len(pool)+5, rng); len(got) != len(pool) {
		t.Errorf("got %d articles, want whole pool of %d", len(got), len(pool))
	}
}

func TestRandomArticlesDeterministicWithSeed(t *testing.T) {
	a := RandomArticles("news", 2, rand.New(rand.NewSource(7)))
	b := RandomArticles("news", 2, rand.New(rand.NewSource(7)))
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("pick %d differs: %q vs %q", i, a[i].Title, b[i].Title)
		}
	}
}

func TestFooter(t *testing.T) {
	got := Footer([]Article{
		{Title: "Labels & Watchlists 101", URL: "https://example.com/labels"},
		{Title: "Onchain Explained", URL: "https://example.com/onchain"},
	})
	want := "\n\n---\nLearn more:\n• Labels &amp; Watchlists 101\nhttps://example.com/labels\n• Onchain Explained\nhttps://example.com/onchain"
	if got != want {
		t.Errorf("Footer() = %q, want %q", got, want)
	}
	if Footer(nil) != "" {
		t.Errorf("empty footer should be empty")
	}
}

func TestCatalogueWellFormed(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range Articles {
		if a.Title == "" || !strings.HasPrefix(a.URL, "https://") {
			t.Errorf("malformed article %+v", a)
		}
		if seen[a.URL] {
			t.Errorf("duplicate url %s", a.URL)
		}
		seen[a.URL] = true
	}
}
