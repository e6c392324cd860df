package schedule

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/deusflow/chaindigest/internal/app"
)

type recordingRunner struct {
	mu   sync.Mutex
	jobs []app.Job
	err  error
}

func (r *recordingRunner) Run(ctx context.Context, job app.Job) (*app.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
	if r.err != nil {
		return nil, r.err
	}
	return &app.Result{Job: job, MessageIDs: []int64{1}}, nil
}

func newTestScheduler(runner Runner, loc *time.Location) *Scheduler {
	return New(runner, loc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegisterRejectsBadSpec(t *testing.T) {
	s := newTestScheduler(&recordingRunner{}, time.UTC)
	assert.NotEqual(t, nil, s.Register(context.Background(), "not a spec", "0 10 * * *"))

	s = newTestScheduler(&recordingRunner{}, time.UTC)
	assert.NotEqual(t, nil, s.Register(context.Background(), "0 2 * * *", "61 * * * *"))
}

func TestDigestPicksJobByWeekday(t *testing.T) {
	runner := &recordingRunner{}
	s := newTestScheduler(runner, time.UTC)
	assert.Equal(t, nil, s.Register(context.Background(), "0 2 * * *", "0 10 * * *"))

	days := []time.Time{
		time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC), // Friday
		time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC), // Saturday
		time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC), // Sunday
	}
	for _, d := range days {
		s.now = func() time.Time { return d }
		s.cron.Entry(s.digestID).Job.Run()
	}
	s.cron.Entry(s.newsID).Job.Run()

	assert.Equal(t, []app.Job{app.JobDayC, app.JobDayB, app.JobDayA, app.JobNews}, runner.jobs)
}

func TestDigestWeekdayUsesScheduleLocation(t *testing.T) {
	loc := time.FixedZone("SGT", 8*3600)
	runner := &recordingRunner{}
	s := newTestScheduler(runner, loc)
	assert.Equal(t, nil, s.Register(context.Background(), "0 2 * * *", "0 18 * * *"))

	// Thursday 20:00 UTC is already Friday in Singapore.
	s.now = func() time.Time { return time.Date(2025, 3, 6, 20, 0, 0, 0, time.UTC) }
	s.cron.Entry(s.digestID).Job.Run()

	assert.Equal(t, []app.Job{app.JobDayC}, runner.jobs)
}

func TestRunStopsOnCancel(t *testing.T) {
	runner := &recordingRunner{err: errors.New("boom")}
	s := newTestScheduler(runner, time.UTC)
	assert.Equal(t, nil, s.Register(context.Background(), "0 2 * * *", "0 10 * * *"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
