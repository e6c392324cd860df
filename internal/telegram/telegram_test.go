package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/deusflow/chaindigest/internal/retry"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendSplitsAndReturnsIDs(t *testing.T) {
	var received []sendMessageRequest
	var nextID int64 = 100

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		var req sendMessageRequest
		json.NewDecoder(r.Body).Decode(&req)
		received = append(received, req)
		nextID++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":     true,
			"result": map[string]interface{}{"message_id": nextID},
		})
	}))
	defer srv.Close()

	client := New(Config{Token: "TOKEN", ChatID: "@chan", BaseURL: srv.URL, MessageLimit: 20}, srv.Client(), quietLogger())

	text := "first paragraph.\n\nsecond paragraph."
	ids, err := client.Send(context.Background(), text)

	assert.Equal(t, nil, err)
	assert.Equal(t, []int64{101, 102}, ids)
	assert.Equal(t, 2, len(received))
	assert.Equal(t, "first paragraph.", received[0].Text)
	assert.Equal(t, "second paragraph.", received[1].Text)
	assert.Equal(t, "@chan", received[0].ChatID)
	assert.Equal(t, "HTML", received[0].ParseMode)
	assert.Equal(t, true, received[0].DisableWebPagePreview)
}

func TestSendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"ok":false,"description":"Bad Request: chat not found"}`)
	}))
	defer srv.Close()

	client := New(Config{Token: "T", ChatID: "x", BaseURL: srv.URL}, srv.Client(), quietLogger())
	ids, err := client.Send(context.Background(), "hello")

	assert.Equal(t, 0, len(ids))
	var apiErr *APIError
	assert.Equal(t, true, errors.As(err, &apiErr))
	assert.Equal(t, "Bad Request: chat not found", apiErr.Description)
}

func TestSendRetriesRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			io.WriteString(w, `{"ok":false,"description":"Too Many Requests: retry after 1"}`)
			return
		}
		io.WriteString(w, `{"ok":true,"result":{"message_id":7}}`)
	}))
	defer srv.Close()

	client := New(Config{
		Token:   "T",
		ChatID:  "x",
		BaseURL: srv.URL,
		Retry:   retry.RetryConfig{MaxAttempts: 3, Delay: time.Millisecond},
	}, srv.Client(), quietLogger())

	ids, err := client.Send(context.Background(), "hello")
	assert.Equal(t, nil, err)
	assert.Equal(t, []int64{7}, ids)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSendEmpty(t *testing.T) {
	client := New(Config{Token: "T", ChatID: "x"}, nil, quietLogger())
	_, err := client.Send(context.Background(), "")
	assert.NotEqual(t, nil, err)
}

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{name: "fits", text: "short", limit: 10, want: []string{"short"}},
		{name: "empty", text: "", limit: 10, want: nil},
		{name: "paragraph boundary", text: "aaaa aaaa\n\nbbbb", limit: 12, want: []string{"aaaa aaaa", "bbbb"}},
		{name: "line boundary", text: "aaaa aaaa\nbbbb cccc", limit: 12, want: []string{"aaaa aaaa", "bbbb cccc"}},
		{name: "hard cut", text: "abcdefghijkl", limit: 5, want: []string{"abcde", "fghij", "kl"}},
		{name: "early paragraph rejected", text: "a\n\n" + strings.Repeat("b", 17), limit: 10, want: []string{"a\n\nbbbbbbb", strings.Repeat("b", 10)}},
		{name: "remainder trimmed", text: "abcde   fgh", limit: 5, want: []string{"abcde", "fgh"}},
		{name: "surrogate pair not split", text: "ab😀cd", limit: 3, want: []string{"ab", "😀c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitMessage(tt.text, tt.limit))
		})
	}
}

func TestSplitMessageProperties(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 300; i++ {
		b.WriteString("Smart money rotated into ETH on Base 🚀")
		if i%7 == 0 {
			b.WriteString("\n\n")
		} else {
			b.WriteString("\n")
		}
	}
	text := b.String()
	limit := 500

	chunks := SplitMessage(text, limit)
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}

	stripped := func(s string) string { return strings.Join(strings.Fields(s), "") }
	var joined strings.Builder
	for i, c := range chunks {
		if n := utf16Len(c); n > limit {
			t.Errorf("chunk %d has %d units, limit %d", i, n, limit)
		}
		joined.WriteString(c)
	}
	if stripped(joined.String()) != stripped(text) {
		t.Error("chunks do not reassemble to the input")
	}
}
