package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/deusflow/chaindigest/internal/headline"
)

// maxDescriptionLen caps scraped descriptions, in runes.
const maxDescriptionLen = 400

// Scraper fetches article pages and pulls a short description out of them.
type Scraper struct {
	client      *http.Client
	log         *slog.Logger
	concurrency int
	maxArticles int
}

func New(client *http.Client, concurrency, maxArticles int, log *slog.Logger) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if log == nil {
		log = slog.Default()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Scraper{client: client, log: log, concurrency: concurrency, maxArticles: maxArticles}
}

// Describe downloads url and returns its best short description.
func (s *Scraper) Describe(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; chaindigest/1.0)")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error parsing HTML: %w", err)
	}

	desc := extractDescription(doc)
	if desc == "" {
		return "", fmt.Errorf("can't get content")
	}
	return desc, nil
}

// Enrich fills in missing descriptions for the first maxArticles headlines.
// Pages that fail to load are logged and left as they were.
func (s *Scraper) Enrich(ctx context.Context, ranked []headline.RankedHeadline) []headline.RankedHeadline {
	out := make([]headline.RankedHeadline, len(ranked))
	copy(out, ranked)

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	scheduled := 0
	for i := range out {
		if s.maxArticles > 0 && scheduled >= s.maxArticles {
			break
		}
		if out[i].Description != "" || !strings.HasPrefix(out[i].URL, "http") {
			continue
		}
		scheduled++
		g.Go(func() error {
			desc, err := s.Describe(ctx, out[i].URL)
			if err != nil {
				s.log.Debug("description scrape failed", "url", out[i].URL, "error", err)
				return nil
			}
			out[i].Description = desc
			return nil
		})
	}
	_ = g.Wait()

	if scheduled > 0 {
		s.log.Info("enriched headlines", "attempted", scheduled)
	}
	return out
}

// extractDescription tries meta tags first, then the article body.
func extractDescription(doc *goquery.Document) string {
	metas := []string{
		`meta[property="og:description"]`,
		`meta[name="description"]`,
		`meta[name="twitter:description"]`,
	}
	for _, selector := range metas {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if text := cleanContent(content); text != "" {
				return text
			}
		}
	}
	return extractGenericContent(doc)
}

// extractGenericContent returns the first substantial paragraph.
func extractGenericContent(doc *goquery.Document) string {
	selectors := []string{
		"article p",
		".article-content p",
		".post-content p",
		".entry-content p",
		"main p",
		"p",
	}

	for _, selector := range selectors {
		var found string
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			text := cleanContent(s.Text())
			if utf8.RuneCountInString(text) > 40 {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// cleanContent collapses whitespace and cuts to maxDescriptionLen runes.
func cleanContent(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(content) <= maxDescriptionLen {
		return content
	}
	runes := []rune(content)
	cut := string(runes[:maxDescriptionLen])
	if i := strings.LastIndex(cut, " "); i > maxDescriptionLen/2 {
		cut = cut[:i]
	}
	return cut + "..."
}
