// Package llm wraps the hosted language models behind one Generator
// interface. The provider is picked from config; every call is a single
// system + user prompt pair that returns plain text.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deusflow/chaindigest/internal/config"
)

var (
	ErrEmptyResponse   = errors.New("model returned no text content")
	ErrBudgetExceeded  = errors.New("model request budget exceeded")
	errUnknownProvider = errors.New("unknown LLM provider")
)

const defaultMaxTokens = 4096

type Prompt struct {
	System    string
	User      string
	MaxTokens int // 0 = defaultMaxTokens
}

func (p Prompt) maxTokens() int {
	if p.MaxTokens > 0 {
		return p.MaxTokens
	}
	return defaultMaxTokens
}

type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
	Name() string
}

// New builds the generator for cfg.LLMProvider.
func New(ctx context.Context, cfg *config.Config) (Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderAnthropic, config.ProviderOpenAI, config.ProviderGemini:
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownProvider, cfg.LLMProvider)
	}

	key := cfg.LLMAPIKey()
	if key == "" || strings.Contains(key, "your_") {
		return nil, fmt.Errorf("API key for %s not configured", cfg.LLMProvider)
	}

	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return NewOpenAI(key, cfg.LLMModel), nil
	case config.ProviderGemini:
		return NewGemini(ctx, key, cfg.LLMModel)
	default:
		return NewAnthropic(key, cfg.LLMModel), nil
	}
}

// cleanResponse drops a code fence some models wrap their whole answer in.
func cleanResponse(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if nl := strings.IndexByte(content, '\n'); nl >= 0 && !strings.ContainsAny(content[:nl], " <") {
		content = content[nl+1:] // language tag such as ```html
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
