package metrics

import (
	"sync"
	"time"
)

// Metrics tracks job runs for the monitoring endpoints. One instance is
// created in main and handed to every component that reports into it.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	JobRuns          map[string]int64
	JobFailures      map[string]int64
	ArticlesFetched  int64
	StoriesRanked    int64
	FeedFailures     int64
	SourceFailures   int64
	MessagesSent     int64
	ModelGenerations int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastJob       string
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

func New() *Metrics {
	return &Metrics{
		JobRuns:     make(map[string]int64),
		JobFailures: make(map[string]int64),
		IsHealthy:   true,
	}
}

func (m *Metrics) AddArticlesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFetched += int64(n)
}

func (m *Metrics) AddStoriesRanked(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoriesRanked += int64(n)
}

func (m *Metrics) IncrementFeedFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedFailures++
}

func (m *Metrics) IncrementSourceFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceFailures++
}

func (m *Metrics) AddMessagesSent(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MessagesSent += int64(n)
}

func (m *Metrics) IncrementModelGenerations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ModelGenerations++
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++
	m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
}

// RecordRun marks a finished job; a nil err flips the service back to healthy.
func (m *Metrics) RecordRun(job string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.JobRuns[job]++
	m.LastJob = job
	m.LastRunTime = time.Now()

	if err != nil {
		m.JobFailures[job]++
		m.LastError = err.Error()
		m.LastErrorTime = m.LastRunTime
		m.IsHealthy = false
		return
	}
	m.IsHealthy = true
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runs := make(map[string]int64, len(m.JobRuns))
	for k, v := range m.JobRuns {
		runs[k] = v
	}
	failures := make(map[string]int64, len(m.JobFailures))
	for k, v := range m.JobFailures {
		failures[k] = v
	}

	return map[string]interface{}{
		"job_runs":                   runs,
		"job_failures":               failures,
		"articles_fetched":           m.ArticlesFetched,
		"stories_ranked":             m.StoriesRanked,
		"feed_failures":              m.FeedFailures,
		"source_failures":            m.SourceFailures,
		"messages_sent":              m.MessagesSent,
		"model_generations":          m.ModelGenerations,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_job":                   m.LastJob,
		"last_run_time":              formatTime(m.LastRunTime),
		"last_error_time":            formatTime(m.LastErrorTime),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
