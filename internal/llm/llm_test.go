package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/go-playground/assert/v2"
	openaioption "github.com/openai/openai-go/option"

	"github.com/deusflow/chaindigest/internal/config"
	"github.com/deusflow/chaindigest/internal/ratelimit"
)

type stubGenerator struct {
	calls int
	reply string
}

func (s *stubGenerator) Name() string { return "anthropic" }

func (s *stubGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	s.calls++
	return s.reply, nil
}

func TestLimitedStopsAtBudget(t *testing.T) {
	stub := &stubGenerator{reply: "ok"}
	limiter := ratelimit.NewAIRateLimiter(map[string]int{"anthropic": 2}, 0, time.Hour,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	gen := NewLimited(stub, limiter)

	for i := 0; i < 2; i++ {
		out, err := gen.Generate(context.Background(), Prompt{User: "hi"})
		assert.Equal(t, nil, err)
		assert.Equal(t, "ok", out)
	}

	_, err := gen.Generate(context.Background(), Prompt{User: "hi"})
	assert.Equal(t, true, errors.Is(err, ErrBudgetExceeded))
	assert.Equal(t, 2, stub.calls)
}

func TestNewRejectsMissingKey(t *testing.T) {
	cfg := config.Default()
	cfg.LLMProvider = config.ProviderOpenAI
	cfg.OpenAIAPIKey = ""

	_, err := New(context.Background(), cfg)
	assert.NotEqual(t, nil, err)

	cfg.OpenAIAPIKey = "your_openai_key"
	_, err = New(context.Background(), cfg)
	assert.NotEqual(t, nil, err)
}

func TestNewReportsUnknownProviderBeforeKey(t *testing.T) {
	cfg := config.Default()
	cfg.LLMProvider = "llama"
	_, err := New(context.Background(), cfg)
	assert.Equal(t, true, errors.Is(err, errUnknownProvider))

	cfg.LLMProvider = config.ProviderAnthropic
	cfg.AnthropicAPIKey = ""
	_, err = New(context.Background(), cfg)
	assert.NotEqual(t, nil, err)
	assert.Equal(t, false, errors.Is(err, errUnknownProvider))
}

func TestNewPicksProvider(t *testing.T) {
	cfg := config.Default()
	cfg.AnthropicAPIKey = "a-key"
	gen, err := New(context.Background(), cfg)
	assert.Equal(t, nil, err)
	assert.Equal(t, "anthropic", gen.Name())

	cfg.LLMProvider = config.ProviderOpenAI
	cfg.OpenAIAPIKey = "o-key"
	gen, err = New(context.Background(), cfg)
	assert.Equal(t, nil, err)
	assert.Equal(t, "openai", gen.Name())

	cfg.LLMProvider = "llama"
	_, err = New(context.Background(), cfg)
	assert.Equal(t, true, errors.Is(err, errUnknownProvider))
}

func TestAnthropicGenerate(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-20250514",
			"content": [{"type": "text", "text": "<b>Smart money</b> rotated into ETH"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 8}
		}`)
	}))
	defer srv.Close()

	client := NewAnthropic("test-key", "", anthropicoption.WithBaseURL(srv.URL), anthropicoption.WithMaxRetries(0))
	out, err := client.Generate(context.Background(), Prompt{System: "sys", User: "user", MaxTokens: 512})

	assert.Equal(t, nil, err)
	assert.Equal(t, "<b>Smart money</b> rotated into ETH", out)
	assert.Equal(t, 512.0, body["max_tokens"])
	assert.Equal(t, "claude-sonnet-4-20250514", body["model"])
}

func TestAnthropicEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"msg_02","type":"message","role":"assistant","model":"m","content":[],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":0}}`)
	}))
	defer srv.Close()

	client := NewAnthropic("test-key", "m", anthropicoption.WithBaseURL(srv.URL), anthropicoption.WithMaxRetries(0))
	_, err := client.Generate(context.Background(), Prompt{System: "sys", User: "user"})
	assert.Equal(t, true, errors.Is(err, ErrEmptyResponse))
}

func TestOpenAIGenerate(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "`+"```html\\n<b>Digest</b>\\n```"+`"}}]
		}`)
	}))
	defer srv.Close()

	client := NewOpenAI("test-key", "", openaioption.WithBaseURL(srv.URL), openaioption.WithMaxRetries(0))
	out, err := client.Generate(context.Background(), Prompt{System: "sys", User: "user"})

	assert.Equal(t, nil, err)
	assert.Equal(t, "<b>Digest</b>", out)
	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.Equal(t, 2, len(body["messages"].([]interface{})))
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text unchanged", input: "hello", want: "hello"},
		{name: "trims whitespace", input: "  hello \n", want: "hello"},
		{name: "strips html fence", input: "```html\n<b>hi</b>\n```", want: "<b>hi</b>"},
		{name: "strips bare fence", input: "```\nhi\n```", want: "hi"},
		{name: "fence without newline keeps content", input: "```<b>hi</b>```", want: "<b>hi</b>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanResponse(tt.input))
		})
	}
}
