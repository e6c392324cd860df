package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/deusflow/chaindigest/internal/app"
	"github.com/deusflow/chaindigest/internal/cache"
	"github.com/deusflow/chaindigest/internal/config"
	"github.com/deusflow/chaindigest/internal/llm"
	"github.com/deusflow/chaindigest/internal/logger"
	"github.com/deusflow/chaindigest/internal/metrics"
	"github.com/deusflow/chaindigest/internal/monitor"
	"github.com/deusflow/chaindigest/internal/nansen"
	"github.com/deusflow/chaindigest/internal/ratelimit"
	"github.com/deusflow/chaindigest/internal/retry"
	"github.com/deusflow/chaindigest/internal/rss"
	"github.com/deusflow/chaindigest/internal/scraper"
	"github.com/deusflow/chaindigest/internal/telegram"
)

var flagDryRun bool

var rootCmd = &cobra.Command{
	Use:   "chaindigest",
	Short: "Onchain analytics and crypto news digests for Telegram",
	Long: `chaindigest fetches smart money analytics and crypto news, summarizes
them with a language model and posts the digest to a Telegram channel.

Usage:
  chaindigest run <news|day-a|day-b|day-c|auto> [--dry-run]
  chaindigest schedule
  chaindigest rank`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "Print the digest instead of posting it")
}

// env is everything a command needs, built once from the configuration.
type env struct {
	cfg     *config.Config
	log     *slog.Logger
	metrics *metrics.Metrics
	limiter *ratelimit.AIRateLimiter
	service *app.Service
	closers []io.Closer
}

func (e *env) Close() {
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			logger.Warn("Close failed", "error", err)
		}
	}
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if flagDryRun {
		cfg.DryRun = true
	}
	return cfg, logger.Init(cfg.LogLevel), nil
}

// newsSource builds the feed fetcher and optional description scraper.
func newsSource(cfg *config.Config, httpClient *http.Client, log *slog.Logger) (*rss.Fetcher, app.Enricher, error) {
	feeds, err := rss.LoadFeeds(cfg.FeedsConfigPath)
	if err != nil {
		return nil, nil, err
	}
	fetcher := rss.NewFetcher(feeds, httpClient, log)

	var enricher app.Enricher
	if cfg.EnrichDescriptions {
		enricher = scraper.New(httpClient, cfg.ScrapeConcurrency, cfg.ScrapeMaxArticles, log)
	}
	return fetcher, enricher, nil
}

// setup wires the full pipeline. needAnalytics selects the stricter
// validation used by the digest jobs.
func setup(ctx context.Context, needAnalytics bool) (*env, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	validate := cfg.ValidateNewsOnly
	if needAnalytics {
		validate = cfg.Validate
	}
	if err := validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Debug("Configuration loaded",
		"provider", cfg.LLMProvider, "model", cfg.LLMModel, "dry_run", cfg.DryRun,
		"analytics", cfg.NansenAPIKey != "", "enrich", cfg.EnrichDescriptions)

	e := &env{cfg: cfg, log: log, metrics: metrics.New()}
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	retryCfg := retry.RetryConfig{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
		MaxDelay:    cfg.RetryMaxDelay,
		Backoff:     true,
	}

	fetcher, enricher, err := newsSource(cfg, httpClient, log)
	if err != nil {
		return nil, err
	}

	gen, err := llm.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if c, ok := gen.(io.Closer); ok {
		e.closers = append(e.closers, c)
	}
	if cfg.MaxLLMRequests > 0 {
		e.limiter = ratelimit.NewAIRateLimiter(
			map[string]int{gen.Name(): cfg.MaxLLMRequests}, cfg.MaxLLMRequests, 24*time.Hour, log)
		gen = llm.NewLimited(gen, e.limiter)
	}

	deps := app.Deps{
		News:      fetcher,
		Enricher:  enricher,
		Generator: gen,
		Metrics:   e.metrics,
		Log:       log,
	}

	if cfg.NansenAPIKey != "" {
		client, err := nansen.New(nansen.Config{
			APIKey:   cfg.NansenAPIKey,
			BaseURL:  cfg.NansenBaseURL,
			CacheTTL: cfg.NansenCacheTTL,
			Retry:    retryCfg,
		}, httpClient, cache.New(), log)
		if err != nil {
			return nil, err
		}
		deps.Analytics = client
	}

	if !cfg.DryRun {
		deps.Poster = telegram.New(telegram.Config{
			Token:        cfg.TelegramToken,
			ChatID:       cfg.TelegramChatID,
			MessageLimit: cfg.TelegramMessageLimit,
			Retry:        retryCfg,
		}, httpClient, log)
	}

	e.service = app.New(deps, app.Options{
		NewsWindow:      cfg.NewsWindow,
		NewsFetchLimit:  cfg.NewsFetchLimit,
		NewsTopN:        cfg.NewsTopN,
		AcademyArticles: cfg.AcademyArticles,
		MaxTokens:       cfg.LLMMaxTokens,
		DryRun:          cfg.DryRun,
		Rand:            rand.New(rand.NewSource(time.Now().UnixNano())),
	})

	if cfg.MonitoringEnabled {
		var stats monitor.StatsSource
		if e.limiter != nil {
			stats = e.limiter
		}
		router := monitor.NewRouter(e.metrics, stats)
		go func() {
			if err := monitor.Serve(ctx, ":"+cfg.MonitoringPort, router, log); err != nil {
				logger.Error("Monitoring server error", "error", err)
			}
		}()
	}

	return e, nil
}
