package monitor

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deusflow/chaindigest/internal/metrics"
)

type StatsSource interface {
	GetStats() map[string]interface{}
}

type Handler struct {
	metrics *metrics.Metrics
	limiter StatsSource
}

// NewRouter serves /health and /metrics. limiter may be nil.
func NewRouter(m *metrics.Metrics, limiter StatsSource) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	h := &Handler{metrics: m, limiter: limiter}
	r.GET("/health", h.Health)
	r.GET("/metrics", h.Metrics)
	return r
}

func (h *Handler) Health(c *gin.Context) {
	stats := h.metrics.GetStats()

	status, code := "ok", http.StatusOK
	if !h.metrics.Healthy() {
		status, code = "error", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"last_job":   stats["last_job"],
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

func (h *Handler) Metrics(c *gin.Context) {
	stats := h.metrics.GetStats()
	if h.limiter != nil {
		stats["llm_requests"] = h.limiter.GetStats()
	}
	c.JSON(http.StatusOK, stats)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting monitoring server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
