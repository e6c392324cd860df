package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/deusflow/chaindigest/internal/app"
)

type Runner interface {
	Run(ctx context.Context, job app.Job) (*app.Result, error)
}

// Scheduler runs the news job and the weekday digest on cron specs
// evaluated in a fixed location.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	loc    *time.Location
	log    *slog.Logger
	now    func() time.Time

	newsID   cron.EntryID
	digestID cron.EntryID
}

func New(runner Runner, loc *time.Location, log *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		runner: runner,
		loc:    loc,
		log:    log,
		now:    time.Now,
	}
}

// Register adds both jobs. Each run uses ctx, so cancelling it aborts
// in-flight jobs.
func (s *Scheduler) Register(ctx context.Context, newsSpec, digestSpec string) error {
	var err error
	s.newsID, err = s.cron.AddFunc(newsSpec, func() { s.run(ctx, app.JobNews) })
	if err != nil {
		return fmt.Errorf("news schedule %q: %w", newsSpec, err)
	}
	s.digestID, err = s.cron.AddFunc(digestSpec, func() {
		s.run(ctx, app.JobForWeekday(s.now().In(s.loc).Weekday()))
	})
	if err != nil {
		return fmt.Errorf("digest schedule %q: %w", digestSpec, err)
	}

	s.log.Info("Jobs scheduled",
		"news", newsSpec, "digest", digestSpec, "timezone", s.loc.String())
	return nil
}

// Run starts the cron and blocks until ctx is done and running jobs finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.log.Info("Next run", "entry", int(e.ID), "at", e.Next)
	}

	<-ctx.Done()
	s.log.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run(ctx context.Context, job app.Job) {
	res, err := s.runner.Run(ctx, job)
	if err != nil {
		s.log.Error("Scheduled job failed", "job", string(job), "error", err)
		return
	}
	s.log.Info("Scheduled job finished", "job", string(job), "messages", len(res.MessageIDs))
}

// cronLogger routes cron's own logging to slog.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
