package scraper

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deusflow/chaindigest/internal/headline"
)

const longParagraph = "Regulators in three jurisdictions opened inquiries into the exchange after withdrawals stalled."

func newTestScraper(t *testing.T) (*Scraper, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/og", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><head><meta property="og:description" content="  Open graph   summary "></head><body><p>ignored</p></body></html>`)
	})
	mux.HandleFunc("/body", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><body><article><p>short</p><p>`+longParagraph+`</p></article></body></html>`)
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><body></body></html>`)
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(srv.Client(), 2, 10, log), srv
}

func TestDescribe(t *testing.T) {
	s, srv := newTestScraper(t)
	ctx := context.Background()

	got, err := s.Describe(ctx, srv.URL+"/og")
	if err != nil || got != "Open graph summary" {
		t.Errorf("og: got %q, %v", got, err)
	}

	got, err = s.Describe(ctx, srv.URL+"/body")
	if err != nil || got != longParagraph {
		t.Errorf("body: got %q, %v", got, err)
	}

	if _, err := s.Describe(ctx, srv.URL+"/empty"); err == nil {
		t.Error("empty page: expected error")
	}
	if _, err := s.Describe(ctx, srv.URL+"/gone"); err == nil {
		t.Error("404: expected error")
	}
}

func TestEnrich(t *testing.T) {
	s, srv := newTestScraper(t)

	ranked := []headline.RankedHeadline{
		{Article: headline.Article{ID: "1", URL: srv.URL + "/og"}},
		{Article: headline.Article{ID: "2", URL: srv.URL + "/body", Description: "already set"}},
		{Article: headline.Article{ID: "3", URL: srv.URL + "/gone"}},
		{Article: headline.Article{ID: "4", URL: "#"}},
	}

	out := s.Enrich(context.Background(), ranked)

	if out[0].Description != "Open graph summary" {
		t.Errorf("out[0] = %q", out[0].Description)
	}
	if out[1].Description != "already set" {
		t.Errorf("existing description overwritten: %q", out[1].Description)
	}
	if out[2].Description != "" || out[3].Description != "" {
		t.Errorf("failed pages should stay empty: %q %q", out[2].Description, out[3].Description)
	}
	if ranked[0].Description != "" {
		t.Error("Enrich mutated its input")
	}
}

func TestEnrichRespectsMaxArticles(t *testing.T) {
	s, srv := newTestScraper(t)
	s.maxArticles = 1

	ranked := []headline.RankedHeadline{
		{Article: headline.Article{ID: "1", URL: srv.URL + "/og"}},
		{Article: headline.Article{ID: "2", URL: srv.URL + "/og"}},
	}
	out := s.Enrich(context.Background(), ranked)
	if out[0].Description == "" || out[1].Description != "" {
		t.Errorf("descriptions = %q, %q", out[0].Description, out[1].Description)
	}
}

func TestCleanContentTruncates(t *testing.T) {
	long := strings.Repeat("word ", 200)
	got := cleanContent(long)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis, got %q", got[len(got)-10:])
	}
	if n := len([]rune(got)); n > maxDescriptionLen+3 {
		t.Errorf("length %d exceeds cap", n)
	}
}
