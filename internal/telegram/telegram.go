package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/deusflow/chaindigest/internal/retry"
)

const DefaultBaseURL = "https://api.telegram.org"

// APIError is a sendMessage call Telegram rejected.
type APIError struct {
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram API error: status %d: %s", e.StatusCode, e.Description)
}

type Config struct {
	Token        string
	ChatID       string
	BaseURL      string // empty = DefaultBaseURL
	MessageLimit int
	Retry        retry.RetryConfig
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func New(cfg Config, httpClient *http.Client, log *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MessageLimit <= 0 {
		cfg.MessageLimit = 4096
	}
	if cfg.Retry.Retryable == nil {
		cfg.Retry.Retryable = isRateLimited
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{cfg: cfg, http: httpClient, log: log}
}

// Send posts text, split into as many messages as the limit requires, and
// returns the message IDs in chunk order. It stops at the first chunk that
// cannot be delivered.
func (c *Client) Send(ctx context.Context, text string) ([]int64, error) {
	chunks := SplitMessage(text, c.cfg.MessageLimit)
	if len(chunks) == 0 {
		return nil, errors.New("telegram: empty message")
	}

	ids := make([]int64, 0, len(chunks))
	for i, chunk := range chunks {
		var id int64
		err := retry.WithRetry(ctx, c.cfg.Retry, func(ctx context.Context) error {
			var err error
			id, err = c.sendOnce(ctx, chunk)
			return err
		})
		if err != nil {
			return ids, fmt.Errorf("send chunk %d/%d: %w", i+1, len(chunks), err)
		}
		ids = append(ids, id)
		c.log.Debug("message sent to Telegram", "chunk", i+1, "of", len(chunks), "message_id", id)
	}

	c.log.Info("posted to Telegram", "messages", len(ids))
	return ids, nil
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// sendOnce does one try to send message
func (c *Client) sendOnce(ctx context.Context, text string) (int64, error) {
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.cfg.BaseURL, c.cfg.Token)

	body, err := json.Marshal(sendMessageRequest{
		ChatID:                c.cfg.ChatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return 0, fmt.Errorf("error make JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error HTTP request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.log.Warn("failed to close response body", "error", err)
		}
	}(resp.Body)

	var result sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, &APIError{StatusCode: resp.StatusCode, Description: "unreadable response: " + err.Error()}
	}
	if !result.OK {
		desc := result.Description
		if desc == "" {
			desc = "Unknown error"
		}
		return 0, &APIError{StatusCode: resp.StatusCode, Description: desc}
	}
	return result.Result.MessageID, nil
}

// isRateLimited limits retries to 429s, the one failure where Telegram is
// known not to have posted the message.
func isRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}
