package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/deusflow/chaindigest/internal/academy"
	"github.com/deusflow/chaindigest/internal/headline"
	"github.com/deusflow/chaindigest/internal/llm"
	"github.com/deusflow/chaindigest/internal/metrics"
	"github.com/deusflow/chaindigest/internal/nansen"
	"github.com/deusflow/chaindigest/internal/rss"
)

type Job string

const (
	JobNews Job = "news"
	JobDayA Job = "day-a"
	JobDayB Job = "day-b"
	JobDayC Job = "day-c"
)

var ErrNoAnalytics = errors.New("analytics client not configured")

// ParseJob accepts a job name as used on the command line.
func ParseJob(name string) (Job, error) {
	switch j := Job(name); j {
	case JobNews, JobDayA, JobDayB, JobDayC:
		return j, nil
	}
	return "", fmt.Errorf("unknown job %q", name)
}

// JobForWeekday picks the digest for the daily analytics slot.
func JobForWeekday(day time.Weekday) Job {
	switch day {
	case time.Tuesday, time.Thursday, time.Saturday:
		return JobDayB
	case time.Friday:
		return JobDayC
	default:
		return JobDayA
	}
}

type NewsSource interface {
	FetchLatest(ctx context.Context, window time.Duration, limit int) (*rss.FetchResult, error)
}

type Enricher interface {
	Enrich(ctx context.Context, ranked []headline.RankedHeadline) []headline.RankedHeadline
}

type Analytics interface {
	SmartMoneyDEXTrades(ctx context.Context, chains []nansen.Chain, opts nansen.Options) ([]nansen.DEXTrade, error)
	MemecoinDEXTrades(ctx context.Context, chains []nansen.Chain, opts nansen.Options) ([]nansen.DEXTrade, error)
	WeeklyDEXTrades(ctx context.Context, chains []nansen.Chain, opts nansen.Options) ([]nansen.DEXTrade, error)
	HighConvictionTransfers(ctx context.Context, chains []nansen.Chain, opts nansen.Options) ([]nansen.Transfer, error)
	MultiTokenFlowIntelligence(ctx context.Context, chains []nansen.Chain) ([]nansen.TokenFlows, error)
	WeeklyFlowIntelligence(ctx context.Context, chains []nansen.Chain) ([]nansen.TokenFlows, error)
	SmartMoneyPerpTrades(ctx context.Context, limit int) ([]nansen.PerpTrade, error)
	TokenScreener(ctx context.Context, chains []nansen.Chain, opts nansen.ScreenerOptions) ([]nansen.ScreenerToken, error)
}

type Poster interface {
	Send(ctx context.Context, text string) ([]int64, error)
}

// Options tunes a Service. Zero values fall back to the defaults below.
type Options struct {
	NewsWindow      time.Duration
	NewsFetchLimit  int
	NewsTopN        int
	AcademyArticles int
	MaxTokens       int
	DryRun          bool
	Chains          []nansen.Chain
	Rand            *rand.Rand
}

func (o Options) withDefaults() Options {
	if o.NewsWindow <= 0 {
		o.NewsWindow = 24 * time.Hour
	}
	if o.NewsFetchLimit <= 0 {
		o.NewsFetchLimit = 50
	}
	if o.NewsTopN <= 0 {
		o.NewsTopN = 15
	}
	if o.AcademyArticles < 0 {
		o.AcademyArticles = 0
	}
	if len(o.Chains) == 0 {
		o.Chains = nansen.DefaultChains
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

// Deps are the collaborators of a Service. Enricher and Analytics may be
// nil; Poster may be nil only in dry-run mode.
type Deps struct {
	News      NewsSource
	Enricher  Enricher
	Analytics Analytics
	Generator llm.Generator
	Poster    Poster
	Metrics   *metrics.Metrics
	Log       *slog.Logger
}

type Result struct {
	Job         Job
	Content     string
	MessageIDs  []int64
	Articles    []academy.Article
	GeneratedAt time.Time
	DryRun      bool
}

type Service struct {
	deps Deps
	opts Options

	rngMu sync.Mutex
	now   func() time.Time
}

func New(deps Deps, opts Options) *Service {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	return &Service{
		deps: deps,
		opts: opts.withDefaults(),
		now:  time.Now,
	}
}

// Run builds the prompt for job, generates the post, appends the academy
// footer and publishes it unless the service runs dry.
func (s *Service) Run(ctx context.Context, job Job) (res *Result, err error) {
	start := time.Now()
	log := s.deps.Log.With("job", string(job))
	defer func() {
		s.deps.Metrics.RecordProcessingTime(time.Since(start))
		s.deps.Metrics.RecordRun(string(job), err)
		if err != nil {
			log.Error("Job failed", "error", err)
		}
	}()

	log.Info("Starting job")

	var prompt llm.Prompt
	switch job {
	case JobNews:
		prompt, err = s.newsPrompt(ctx, log)
	case JobDayA:
		prompt, err = s.dayAPrompt(ctx, log)
	case JobDayB:
		prompt, err = s.dayBPrompt(ctx, log)
	case JobDayC:
		prompt, err = s.dayCPrompt(ctx, log)
	default:
		err = fmt.Errorf("unknown job %q", job)
	}
	if err != nil {
		return nil, err
	}
	prompt.MaxTokens = s.opts.MaxTokens

	content, err := s.deps.Generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", job, err)
	}
	s.deps.Metrics.IncrementModelGenerations()
	log.Info("Content generated", "provider", s.deps.Generator.Name(), "chars", len(content))

	articles := s.pickArticles(job)
	res = &Result{
		Job:         job,
		Content:     content + academy.Footer(articles),
		Articles:    articles,
		GeneratedAt: s.now().UTC(),
		DryRun:      s.opts.DryRun,
	}

	if s.opts.DryRun {
		log.Info("Dry run, not posting")
		return res, nil
	}
	if s.deps.Poster == nil {
		return nil, errors.New("no poster configured")
	}

	ids, err := s.deps.Poster.Send(ctx, res.Content)
	s.deps.Metrics.AddMessagesSent(len(ids))
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", job, err)
	}
	res.MessageIDs = ids
	log.Info("Job completed", "messages", len(ids), "duration", time.Since(start))
	return res, nil
}

func (s *Service) pickArticles(job Job) []academy.Article {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return academy.RandomArticles(string(job), s.opts.AcademyArticles, s.opts.Rand)
}
