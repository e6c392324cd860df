package llm

import (
	"context"
	"fmt"

	"github.com/deusflow/chaindigest/internal/ratelimit"
)

// Limited refuses calls once the limiter's budget for the wrapped
// provider is spent.
type Limited struct {
	next    Generator
	limiter *ratelimit.AIRateLimiter
}

func NewLimited(next Generator, limiter *ratelimit.AIRateLimiter) *Limited {
	return &Limited{next: next, limiter: limiter}
}

func (l *Limited) Name() string { return l.next.Name() }

func (l *Limited) Generate(ctx context.Context, p Prompt) (string, error) {
	if err := l.limiter.Use(l.next.Name()); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBudgetExceeded, err)
	}
	return l.next.Generate(ctx, p)
}
