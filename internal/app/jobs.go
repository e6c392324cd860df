package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/deusflow/chaindigest/internal/headline"
	"github.com/deusflow/chaindigest/internal/llm"
	"github.com/deusflow/chaindigest/internal/nansen"
	"github.com/deusflow/chaindigest/internal/prompts"
)

// Headlines fetches the recent articles and ranks them by coverage. A news
// source failure yields an empty list, not an error.
func (s *Service) Headlines(ctx context.Context) []headline.RankedHeadline {
	log := s.deps.Log

	var articles []headline.Article
	res, err := s.deps.News.FetchLatest(ctx, s.opts.NewsWindow, s.opts.NewsFetchLimit)
	if err != nil {
		log.Warn("Failed to fetch news", "error", err)
		s.deps.Metrics.IncrementSourceFailures()
	} else {
		articles = res.Articles
		s.deps.Metrics.AddArticlesFetched(len(res.Articles))
		for i := 0; i < res.FeedsFailed; i++ {
			s.deps.Metrics.IncrementFeedFailures()
		}
		log.Info("Fetched news", "articles", len(res.Articles), "feeds_ok", res.FeedsOK, "feeds_failed", res.FeedsFailed)
	}

	ranked := headline.RankHeadlines(articles)
	s.deps.Metrics.AddStoriesRanked(len(ranked))
	log.Info("Ranked headlines", "stories", len(ranked))

	if s.deps.Enricher != nil && len(ranked) > 0 {
		top := ranked
		if len(top) > s.opts.NewsTopN {
			top = top[:s.opts.NewsTopN]
		}
		ranked = append(s.deps.Enricher.Enrich(ctx, top), ranked[len(top):]...)
	}
	return ranked
}

func (s *Service) newsPrompt(ctx context.Context, log *slog.Logger) (llm.Prompt, error) {
	ranked := s.Headlines(ctx)
	return llm.Prompt{
		System: prompts.NewsSystem,
		User:   prompts.NewsUser(ranked, s.opts.NewsTopN),
	}, nil
}

// fanOut runs every fetch concurrently. A failed fetch is logged and leaves
// its result empty; only a failure of every fetch is an error.
func (s *Service) fanOut(ctx context.Context, log *slog.Logger, fetches map[string]func(context.Context) error) error {
	var (
		g      errgroup.Group
		failed atomic.Int32
	)
	for name, fetch := range fetches {
		g.Go(func() error {
			if err := fetch(ctx); err != nil {
				failed.Add(1)
				s.deps.Metrics.IncrementSourceFailures()
				log.Warn("Source failed, continuing without it", "source", name, "error", err)
			}
			return nil
		})
	}
	g.Wait()

	if n := int(failed.Load()); n == len(fetches) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("all %d analytics sources failed", n)
	}
	return nil
}

func (s *Service) dayAPrompt(ctx context.Context, log *slog.Logger) (llm.Prompt, error) {
	if s.deps.Analytics == nil {
		return llm.Prompt{}, ErrNoAnalytics
	}
	a, chains := s.deps.Analytics, s.opts.Chains

	var d prompts.DayAData
	err := s.fanOut(ctx, log, map[string]func(context.Context) error{
		"dex_trades": func(ctx context.Context) (err error) {
			d.DEXTrades, err = a.SmartMoneyDEXTrades(ctx, chains, nansen.Options{MinUSD: 1000, Limit: 50})
			return err
		},
		"transfers": func(ctx context.Context) (err error) {
			d.Transfers, err = a.HighConvictionTransfers(ctx, chains, nansen.Options{MinUSD: 100000, Limit: 30})
			return err
		},
		"flows": func(ctx context.Context) (err error) {
			d.Flows, err = a.MultiTokenFlowIntelligence(ctx, chains)
			return err
		},
		"screener": func(ctx context.Context) (err error) {
			d.Screener, err = a.TokenScreener(ctx, chains, nansen.ScreenerOptions{
				Timeframe: "24h", MinVolume: 100000, MinLiquidity: 50000, OnlySmartMoney: true, Limit: 25,
			})
			return err
		},
	})
	if err != nil {
		return llm.Prompt{}, err
	}

	log.Info("Fetched analytics",
		"dex_trades", len(d.DEXTrades), "transfers", len(d.Transfers),
		"flows", len(d.Flows), "screener", len(d.Screener))
	return llm.Prompt{System: prompts.DayASystem, User: prompts.DayAUser(d)}, nil
}

func (s *Service) dayBPrompt(ctx context.Context, log *slog.Logger) (llm.Prompt, error) {
	if s.deps.Analytics == nil {
		return llm.Prompt{}, ErrNoAnalytics
	}
	a, chains := s.deps.Analytics, s.opts.Chains

	var d prompts.DayBData
	err := s.fanOut(ctx, log, map[string]func(context.Context) error{
		"memecoin_trades": func(ctx context.Context) (err error) {
			d.MemecoinTrades, err = a.MemecoinDEXTrades(ctx, chains, nansen.Options{MinUSD: 500, Limit: 50})
			return err
		},
		"perp_trades": func(ctx context.Context) (err error) {
			d.PerpTrades, err = a.SmartMoneyPerpTrades(ctx, 25)
			return err
		},
		"screener": func(ctx context.Context) (err error) {
			d.Screener, err = a.TokenScreener(ctx, chains, nansen.ScreenerOptions{
				Timeframe: "24h", MinVolume: 50000, MinLiquidity: 10000, OnlySmartMoney: true, Limit: 25,
			})
			return err
		},
	})
	if err != nil {
		return llm.Prompt{}, err
	}

	log.Info("Fetched analytics",
		"memecoin_trades", len(d.MemecoinTrades), "perp_trades", len(d.PerpTrades), "screener", len(d.Screener))
	return llm.Prompt{System: prompts.DayBSystem, User: prompts.DayBUser(d)}, nil
}

func (s *Service) dayCPrompt(ctx context.Context, log *slog.Logger) (llm.Prompt, error) {
	if s.deps.Analytics == nil {
		return llm.Prompt{}, ErrNoAnalytics
	}
	a, chains := s.deps.Analytics, s.opts.Chains

	var d prompts.DayCData
	err := s.fanOut(ctx, log, map[string]func(context.Context) error{
		"weekly_trades": func(ctx context.Context) (err error) {
			d.WeeklyTrades, err = a.WeeklyDEXTrades(ctx, chains, nansen.Options{MinUSD: 5000, Limit: 100})
			return err
		},
		"weekly_flows": func(ctx context.Context) (err error) {
			d.WeeklyFlows, err = a.WeeklyFlowIntelligence(ctx, chains)
			return err
		},
	})
	if err != nil {
		return llm.Prompt{}, err
	}

	log.Info("Fetched analytics", "weekly_trades", len(d.WeeklyTrades), "weekly_flows", len(d.WeeklyFlows))
	return llm.Prompt{System: prompts.DayCSystem, User: prompts.DayCUser(d)}, nil
}
