package nansen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deusflow/chaindigest/internal/cache"
	"github.com/deusflow/chaindigest/internal/retry"
)

const DefaultBaseURL = "https://api.nansen.ai/api/v1"

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("nansen API error %d: %s", e.Status, e.Body)
}

type Config struct {
	APIKey   string
	BaseURL  string
	CacheTTL time.Duration // 0 disables the response cache
	Retry    retry.RetryConfig
}

// Client talks to the Nansen v1 API. Identical requests made within
// CacheTTL are answered from memory.
type Client struct {
	cfg   Config
	http  *http.Client
	cache *cache.Cache
	log   *slog.Logger
	now   func() time.Time
}

func New(cfg Config, httpClient *http.Client, c *cache.Cache, log *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" || strings.Contains(cfg.APIKey, "your_") {
		return nil, errors.New("invalid Nansen API key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.RetryConfig{MaxAttempts: 3, Delay: time.Second, MaxDelay: 30 * time.Second, Backoff: true}
	}
	if cfg.Retry.Retryable == nil {
		cfg.Retry.Retryable = isRetryable
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c == nil {
		c = cache.New()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{cfg: cfg, http: httpClient, cache: c, log: log, now: time.Now}, nil
}

// Options narrows trade and transfer queries. Zero values use the
// per-method defaults.
type Options struct {
	MinUSD float64
	Limit  int
}

func (o Options) withDefaults(minUSD float64, limit int) Options {
	if o.MinUSD <= 0 {
		o.MinUSD = minUSD
	}
	if o.Limit <= 0 {
		o.Limit = limit
	}
	return o
}

type ScreenerOptions struct {
	Timeframe      string
	MinVolume      float64
	MinLiquidity   float64
	OnlySmartMoney bool
	Limit          int
}

type valueFilter struct {
	Min float64 `json:"min"`
}

type pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

type orderBy struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

type dexTradesRequest struct {
	Chains  []Chain `json:"chains"`
	Filters struct {
		TradeValueUSD valueFilter `json:"trade_value_usd"`
	} `json:"filters"`
	Pagination pagination `json:"pagination"`
}

type transfersRequest struct {
	Chain        Chain  `json:"chain"`
	TokenAddress string `json:"token_address"`
	Filters      struct {
		TransferValueUSD valueFilter `json:"transfer_value_usd"`
	} `json:"filters"`
	Date struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"date"`
	Pagination pagination `json:"pagination"`
}

type flowRequest struct {
	Chain        Chain  `json:"chain"`
	TokenAddress string `json:"token_address"`
	Timeframe    string `json:"timeframe"`
}

type perpTradesRequest struct {
	Pagination pagination `json:"pagination"`
	OrderBy    []orderBy  `json:"order_by"`
}

type screenerRequest struct {
	Chains    []Chain `json:"chains"`
	Timeframe string  `json:"timeframe"`
	Filters   struct {
		Volume         valueFilter `json:"volume"`
		Liquidity      valueFilter `json:"liquidity"`
		OnlySmartMoney bool        `json:"only_smart_money,omitempty"`
	} `json:"filters"`
	Pagination pagination `json:"pagination"`
	OrderBy    []orderBy  `json:"order_by"`
}

type envelope[T any] struct {
	Data []T `json:"data"`
}

func chainsOrDefault(chains []Chain) []Chain {
	if len(chains) == 0 {
		return DefaultChains
	}
	return chains
}

func (c *Client) dexTrades(ctx context.Context, chains []Chain, opts Options) ([]DEXTrade, error) {
	req := dexTradesRequest{
		Chains:     chainsOrDefault(chains),
		Pagination: pagination{Page: 1, PerPage: opts.Limit},
	}
	req.Filters.TradeValueUSD.Min = opts.MinUSD

	var resp envelope[DEXTrade]
	if err := c.post(ctx, "/smart-money/dex-trades", req, &resp); err != nil {
		return nil, err
	}
	trades := make([]DEXTrade, 0, len(resp.Data))
	for _, t := range resp.Data {
		trades = append(trades, normalizeDEXTrade(t))
	}
	return trades, nil
}

// SmartMoneyDEXTrades returns recent smart-money swaps (default min $1,000,
// 50 rows). The endpoint takes no date range.
func (c *Client) SmartMoneyDEXTrades(ctx context.Context, chains []Chain, opts Options) ([]DEXTrade, error) {
	return c.dexTrades(ctx, chains, opts.withDefaults(1000, 50))
}

// MemecoinDEXTrades returns smart-money swaps into long-tail tokens
// (default min $500, 50 rows before filtering).
func (c *Client) MemecoinDEXTrades(ctx context.Context, chains []Chain, opts Options) ([]DEXTrade, error) {
	trades, err := c.dexTrades(ctx, chains, opts.withDefaults(500, 50))
	if err != nil {
		return nil, err
	}
	memes := trades[:0]
	for _, t := range trades {
		if IsMemecoinTrade(t) {
			memes = append(memes, t)
		}
	}
	return memes, nil
}

// WeeklyDEXTrades pulls the largest page of recent trades for the weekly
// roundup (default min $5,000, 100 rows).
func (c *Client) WeeklyDEXTrades(ctx context.Context, chains []Chain, opts Options) ([]DEXTrade, error) {
	return c.dexTrades(ctx, chains, opts.withDefaults(5000, 100))
}

// HighConvictionTransfers fans out over the first three key tokens of every
// chain and returns the largest transfers of the last 24h (default min
// $100,000, 30 rows). Failed token queries are skipped; the call fails only
// when all of them do.
func (c *Client) HighConvictionTransfers(ctx context.Context, chains []Chain, opts Options) ([]Transfer, error) {
	opts = opts.withDefaults(100000, 30)

	type query struct {
		chain Chain
		token Token
	}
	var queries []query
	for _, chain := range chainsOrDefault(chains) {
		for _, token := range keyTokens(chain, 3) {
			queries = append(queries, query{chain, token})
		}
	}

	var (
		mu       sync.Mutex
		all      []Transfer
		failures int
		lastErr  error
	)
	var g errgroup.Group
	for _, q := range queries {
		g.Go(func() error {
			transfers, err := c.tokenTransfers(ctx, q.chain, q.token.Address, opts)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.log.Warn("token transfers failed", "chain", q.chain, "token", q.token.Symbol, "error", err)
				failures++
				lastErr = err
				return nil
			}
			all = append(all, transfers...)
			return nil
		})
	}
	_ = g.Wait()

	if len(queries) > 0 && failures == len(queries) {
		return nil, fmt.Errorf("all transfer queries failed: %w", lastErr)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].TransferValueUSD > all[j].TransferValueUSD
	})
	if len(all) > opts.Limit {
		all = all[:opts.Limit]
	}
	return all, nil
}

func (c *Client) tokenTransfers(ctx context.Context, chain Chain, tokenAddress string, opts Options) ([]Transfer, error) {
	now := c.now().UTC().Truncate(time.Minute)
	req := transfersRequest{
		Chain:        chain,
		TokenAddress: tokenAddress,
		Pagination:   pagination{Page: 1, PerPage: opts.Limit},
	}
	req.Filters.TransferValueUSD.Min = opts.MinUSD
	req.Date.From = now.Add(-24 * time.Hour).Format(time.RFC3339)
	req.Date.To = now.Format(time.RFC3339)

	var resp envelope[Transfer]
	if err := c.post(ctx, "/tgm/transfers", req, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// FlowIntelligence returns segment flows for one token, or nil when the API
// has no data for it.
func (c *Client) FlowIntelligence(ctx context.Context, chain Chain, tokenAddress, timeframe string) (*FlowIntelligence, error) {
	if timeframe == "" {
		timeframe = "1d"
	}
	var resp envelope[FlowIntelligence]
	err := c.post(ctx, "/tgm/flow-intelligence", flowRequest{
		Chain:        chain,
		TokenAddress: tokenAddress,
		Timeframe:    timeframe,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	return &resp.Data[0], nil
}

// MultiTokenFlowIntelligence returns daily flows for the first two key
// tokens of every chain.
func (c *Client) MultiTokenFlowIntelligence(ctx context.Context, chains []Chain) ([]TokenFlows, error) {
	return c.tokenFlows(ctx, chains, 2, "1d")
}

// WeeklyFlowIntelligence returns 7-day flows for the first three key tokens
// of every chain.
func (c *Client) WeeklyFlowIntelligence(ctx context.Context, chains []Chain) ([]TokenFlows, error) {
	return c.tokenFlows(ctx, chains, 3, "7d")
}

// tokenFlows keeps chain/token order in its result regardless of which
// request finishes first. Tokens without data or with failed requests are
// left out.
func (c *Client) tokenFlows(ctx context.Context, chains []Chain, perChain int, timeframe string) ([]TokenFlows, error) {
	type slot struct {
		chain Chain
		token Token
		flows *FlowIntelligence
		err   error
	}
	var slots []*slot
	for _, chain := range chainsOrDefault(chains) {
		for _, token := range keyTokens(chain, perChain) {
			slots = append(slots, &slot{chain: chain, token: token})
		}
	}

	var g errgroup.Group
	for _, s := range slots {
		g.Go(func() error {
			s.flows, s.err = c.FlowIntelligence(ctx, s.chain, s.token.Address, timeframe)
			return nil
		})
	}
	_ = g.Wait()

	var out []TokenFlows
	failures := 0
	var lastErr error
	for _, s := range slots {
		if s.err != nil {
			c.log.Warn("flow intelligence failed", "chain", s.chain, "token", s.token.Symbol, "error", s.err)
			failures++
			lastErr = s.err
			continue
		}
		if s.flows == nil {
			continue
		}
		out = append(out, TokenFlows{Chain: s.chain, Symbol: s.token.Symbol, Flows: *s.flows})
	}
	if len(slots) > 0 && failures == len(slots) {
		return nil, fmt.Errorf("all flow intelligence queries failed: %w", lastErr)
	}
	return out, nil
}

// SmartMoneyPerpTrades returns the largest recent Hyperliquid perp trades by
// smart money (default 25 rows).
func (c *Client) SmartMoneyPerpTrades(ctx context.Context, limit int) ([]PerpTrade, error) {
	if limit <= 0 {
		limit = 25
	}
	req := perpTradesRequest{
		Pagination: pagination{Page: 1, PerPage: limit},
		OrderBy:    []orderBy{{Field: "value_usd", Direction: "DESC"}},
	}
	var resp envelope[PerpTrade]
	if err := c.post(ctx, "/smart-money/perp-trades", req, &resp); err != nil {
		return nil, err
	}
	trades := make([]PerpTrade, 0, len(resp.Data))
	for _, t := range resp.Data {
		trades = append(trades, normalizePerpTrade(t))
	}
	return trades, nil
}

// TokenScreener returns tokens ordered by net flow, largest first.
func (c *Client) TokenScreener(ctx context.Context, chains []Chain, opts ScreenerOptions) ([]ScreenerToken, error) {
	if opts.Timeframe == "" {
		opts.Timeframe = "24h"
	}
	if opts.MinVolume <= 0 {
		opts.MinVolume = 100000
	}
	if opts.MinLiquidity <= 0 {
		opts.MinLiquidity = 50000
	}
	if opts.Limit <= 0 {
		opts.Limit = 25
	}

	req := screenerRequest{
		Chains:     chainsOrDefault(chains),
		Timeframe:  opts.Timeframe,
		Pagination: pagination{Page: 1, PerPage: opts.Limit},
		OrderBy:    []orderBy{{Field: "netflow", Direction: "DESC"}},
	}
	req.Filters.Volume.Min = opts.MinVolume
	req.Filters.Liquidity.Min = opts.MinLiquidity
	req.Filters.OnlySmartMoney = opts.OnlySmartMoney

	var resp envelope[screenerItem]
	if err := c.post(ctx, "/token-screener", req, &resp); err != nil {
		return nil, err
	}
	tokens := make([]ScreenerToken, 0, len(resp.Data))
	for _, item := range resp.Data {
		tokens = append(tokens, normalizeScreenerItem(item))
	}
	return tokens, nil
}

// post sends body to endpoint and decodes the answer into out, going
// through the cache and the retry policy.
func (c *Client) post(ctx context.Context, endpoint string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", endpoint, err)
	}

	key := cache.GenerateKey(endpoint, string(payload))
	if cached, ok := c.cache.Get(key); ok {
		c.log.Debug("nansen cache hit", "endpoint", endpoint)
		return json.Unmarshal(cached, out)
	}

	var raw []byte
	err = retry.WithRetry(ctx, c.cfg.Retry, func(ctx context.Context) error {
		var err error
		raw, err = c.do(ctx, endpoint, payload)
		if err != nil {
			c.log.Warn("nansen request failed", "endpoint", endpoint, "error", err)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	c.cache.Set(key, raw, c.cfg.CacheTTL)
	return nil
}

func (c *Client) do(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	c.log.Debug("nansen request", "endpoint", endpoint, "body", truncate(string(payload), 500))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &retry.Permanent{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: truncate(string(raw), 500)}
	}
	return raw, nil
}

// isRetryable rejects cancelled contexts and 4xx answers other than 429.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= 500
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
