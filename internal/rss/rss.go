package rss

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/deusflow/chaindigest/internal/headline"
)

// Feed is one named RSS source.
type Feed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// FeedsConfig is YAML config structure
// feeds:
//   - name: coindesk
//     url: https://...
type FeedsConfig struct {
	Feeds []Feed `yaml:"feeds"`
}

// DefaultFeeds is used when no feeds file exists.
var DefaultFeeds = []Feed{
	{Name: "coindesk", URL: "https://www.coindesk.com/arc/outboundfeeds/rss/"},
	{Name: "cointelegraph", URL: "https://cointelegraph.com/rss"},
	{Name: "decrypt", URL: "https://decrypt.co/feed"},
	{Name: "theblock", URL: "https://www.theblock.co/rss.xml"},
	{Name: "bitcoinmagazine", URL: "https://bitcoinmagazine.com/feed"},
	{Name: "newsbtc", URL: "https://www.newsbtc.com/feed/"},
	{Name: "beincrypto", URL: "https://beincrypto.com/feed/"},
	{Name: "cryptoslate", URL: "https://cryptoslate.com/feed/"},
}

// LoadFeeds reads the feed list from a YAML file, falling back to
// DefaultFeeds when the file does not exist.
func LoadFeeds(path string) ([]Feed, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultFeeds, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	for i, feed := range cfg.Feeds {
		if feed.Name == "" || feed.URL == "" {
			return nil, fmt.Errorf("feed #%d in %s needs both name and url", i+1, path)
		}
	}
	if len(cfg.Feeds) == 0 {
		return DefaultFeeds, nil
	}
	return cfg.Feeds, nil
}

// FetchResult is the merged output of one fetch across all feeds.
type FetchResult struct {
	Articles    []headline.Article
	FeedsOK     int
	FeedsFailed int
}

// Fetcher downloads and parses every configured feed in parallel.
type Fetcher struct {
	feeds  []Feed
	client *http.Client
	log    *slog.Logger
	now    func() time.Time
}

func NewFetcher(feeds []Feed, client *http.Client, log *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{feeds: feeds, client: client, log: log, now: time.Now}
}

// FetchLatest returns articles published within window, newest first,
// capped at limit. A failing feed is logged and contributes nothing.
func (f *Fetcher) FetchLatest(ctx context.Context, window time.Duration, limit int) (*FetchResult, error) {
	perFeed := make([][]headline.Article, len(f.feeds))
	failed := make([]bool, len(f.feeds))

	var g errgroup.Group
	for i, feed := range f.feeds {
		g.Go(func() error {
			articles, err := f.FetchFeed(ctx, feed)
			if err != nil {
				f.log.Warn("error parsing RSS", "feed", feed.Name, "url", feed.URL, "error", err)
				failed[i] = true
				return nil
			}
			perFeed[i] = articles
			f.log.Debug("loaded feed", "feed", feed.Name, "items", len(articles))
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &FetchResult{}
	cutoff := f.now().Add(-window)
	var all []headline.Article
	for i, articles := range perFeed {
		if failed[i] {
			res.FeedsFailed++
			continue
		}
		res.FeedsOK++
		for _, a := range articles {
			if a.Timestamp.Before(cutoff) {
				continue
			}
			all = append(all, a)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	res.Articles = all

	f.log.Info("processed RSS feeds", "ok", res.FeedsOK, "total", len(f.feeds), "articles", len(all))
	return res, nil
}

// FetchFeed downloads one feed and converts its items.
func (f *Fetcher) FetchFeed(ctx context.Context, feed Feed) ([]headline.Article, error) {
	parser := gofeed.NewParser()
	parser.Client = f.client

	parsed, err := parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		return nil, err
	}

	articles := make([]headline.Article, 0, len(parsed.Items))
	for i, item := range parsed.Items {
		articles = append(articles, f.toArticle(feed.Name, i, item))
	}
	return articles, nil
}

func (f *Fetcher) toArticle(source string, index int, item *gofeed.Item) headline.Article {
	id := item.GUID
	if id == "" {
		id = strconv.Itoa(index)
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = "Untitled"
	}

	link := item.Link
	if link == "" {
		link = "#"
	}

	ts := f.now()
	switch {
	case item.PublishedParsed != nil:
		ts = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		ts = *item.UpdatedParsed
	}

	desc := item.Description
	if desc == "" {
		desc = item.Content
	}

	return headline.Article{
		ID:          source + "-" + id,
		Title:       title,
		Source:      source,
		URL:         link,
		Timestamp:   ts,
		Description: Snippet(desc),
	}
}

// Snippet turns an HTML fragment into plain text with collapsed whitespace.
func Snippet(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	text := html
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		text = doc.Text()
	}
	return strings.Join(strings.Fields(text), " ")
}
