package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
)

type Config struct {
	// Telegram settings
	TelegramToken        string
	TelegramChatID       string
	TelegramMessageLimit int // Telegram counts UTF-16 code units, max 4096

	// Language model settings
	LLMProvider     string // anthropic | gemini | openai
	AnthropicAPIKey string
	GeminiAPIKey    string
	OpenAIAPIKey    string
	LLMModel        string // empty = provider default
	LLMMaxTokens    int
	MaxLLMRequests  int // per day, 0 = unlimited

	// Analytics settings
	NansenAPIKey   string
	NansenBaseURL  string
	NansenCacheTTL time.Duration

	// RSS settings
	FeedsConfigPath string
	NewsWindow      time.Duration
	NewsFetchLimit  int
	NewsTopN        int

	// Scraper settings
	EnrichDescriptions bool
	ScrapeConcurrency  int // parallel fetches for description enrichment
	ScrapeMaxArticles  int // cap of headlines to enrich per run

	// Schedule settings
	ScheduleTimezone string
	NewsSchedule     string
	DigestSchedule   string

	// App settings
	LogLevel        string
	DryRun          bool
	AcademyArticles int
	RequestTimeout  time.Duration
	RetryAttempts   int
	RetryDelay      time.Duration
	RetryMaxDelay   time.Duration

	// Monitoring
	MonitoringEnabled bool
	MonitoringPort    string
}

func Default() *Config {
	return &Config{
		TelegramMessageLimit: 4096,
		LLMProvider:          ProviderAnthropic,
		LLMMaxTokens:         4096,
		MaxLLMRequests:       10,
		NansenBaseURL:        "https://api.nansen.ai/api/v1",
		NansenCacheTTL:       10 * time.Minute,
		FeedsConfigPath:      "configs/feeds.yaml",
		NewsWindow:           24 * time.Hour,
		NewsFetchLimit:       50,
		NewsTopN:             15,
		ScrapeConcurrency:    4,
		ScrapeMaxArticles:    10,
		ScheduleTimezone:     "UTC",
		NewsSchedule:         "0 2 * * *",
		DigestSchedule:       "0 10 * * *",
		LogLevel:             "info",
		AcademyArticles:      3,
		RequestTimeout:       30 * time.Second,
		RetryAttempts:        3,
		RetryDelay:           time.Second,
		RetryMaxDelay:        30 * time.Second,
		MonitoringPort:       "8080",
	}
}

// Load reads .env (if present) and the environment on top of the defaults.
// The result is not validated; callers pick Validate or ValidateNewsOnly.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	cfg.TelegramToken = getEnvOrDefault("TELEGRAM_BOT_TOKEN", os.Getenv("TELEGRAM_TOKEN"))
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")
	cfg.TelegramMessageLimit = getEnvIntOrDefault("TELEGRAM_MESSAGE_LIMIT", cfg.TelegramMessageLimit)

	cfg.LLMProvider = strings.ToLower(getEnvOrDefault("LLM_PROVIDER", cfg.LLMProvider))
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.LLMModel = os.Getenv("LLM_MODEL")
	cfg.LLMMaxTokens = getEnvIntOrDefault("LLM_MAX_TOKENS", cfg.LLMMaxTokens)
	cfg.MaxLLMRequests = getEnvIntOrDefault("MAX_LLM_REQUESTS", cfg.MaxLLMRequests)

	cfg.NansenAPIKey = os.Getenv("NANSEN_API_KEY")
	cfg.NansenBaseURL = getEnvOrDefault("NANSEN_BASE_URL", cfg.NansenBaseURL)
	cfg.NansenCacheTTL = getEnvDurationOrDefault("NANSEN_CACHE_TTL", cfg.NansenCacheTTL)

	cfg.FeedsConfigPath = getEnvOrDefault("FEEDS_CONFIG_PATH", cfg.FeedsConfigPath)
	cfg.NewsWindow = getEnvDurationOrDefault("NEWS_WINDOW", cfg.NewsWindow)
	cfg.NewsFetchLimit = getEnvIntOrDefault("NEWS_FETCH_LIMIT", cfg.NewsFetchLimit)
	cfg.NewsTopN = getEnvIntOrDefault("NEWS_TOP_N", cfg.NewsTopN)

	cfg.EnrichDescriptions = getEnvBoolOrDefault("ENRICH_DESCRIPTIONS", cfg.EnrichDescriptions)
	cfg.ScrapeConcurrency = getEnvIntOrDefault("SCRAPE_CONCURRENCY", cfg.ScrapeConcurrency)
	cfg.ScrapeMaxArticles = getEnvIntOrDefault("SCRAPE_MAX_ARTICLES", cfg.ScrapeMaxArticles)

	cfg.ScheduleTimezone = getEnvOrDefault("SCHEDULE_TIMEZONE", cfg.ScheduleTimezone)
	cfg.NewsSchedule = getEnvOrDefault("NEWS_SCHEDULE", cfg.NewsSchedule)
	cfg.DigestSchedule = getEnvOrDefault("DIGEST_SCHEDULE", cfg.DigestSchedule)

	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	if os.Getenv("DEBUG") == "true" {
		cfg.LogLevel = "debug"
	}
	cfg.DryRun = getEnvBoolOrDefault("DRY_RUN", cfg.DryRun)
	cfg.AcademyArticles = getEnvIntOrDefault("ACADEMY_ARTICLES", cfg.AcademyArticles)
	cfg.RequestTimeout = getEnvDurationOrDefault("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)
	cfg.RetryDelay = getEnvDurationOrDefault("RETRY_DELAY", cfg.RetryDelay)
	cfg.RetryMaxDelay = getEnvDurationOrDefault("RETRY_MAX_DELAY", cfg.RetryMaxDelay)

	cfg.MonitoringEnabled = getEnvBoolOrDefault("ENABLE_HTTP_MONITORING", cfg.MonitoringEnabled)
	cfg.MonitoringPort = getEnvOrDefault("MONITORING_PORT", cfg.MonitoringPort)

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// LLMAPIKey returns the key of the selected provider.
func (c *Config) LLMAPIKey() string {
	switch c.LLMProvider {
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	case ProviderGemini:
		return c.GeminiAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	}
	return ""
}

// Validate checks everything the analytics and news jobs need.
func (c *Config) Validate() error {
	if err := c.ValidateNewsOnly(); err != nil {
		return err
	}
	if c.NansenAPIKey == "" {
		return fmt.Errorf("NANSEN_API_KEY is required")
	}
	return nil
}

// ValidateNewsOnly checks the subset needed by the news job.
func (c *Config) ValidateNewsOnly() error {
	switch c.LLMProvider {
	case ProviderAnthropic, ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("LLM_PROVIDER must be one of anthropic, gemini, openai (got %q)", c.LLMProvider)
	}
	if c.LLMAPIKey() == "" {
		return fmt.Errorf("API key for LLM provider %q is required", c.LLMProvider)
	}
	if !c.DryRun {
		if c.TelegramToken == "" {
			return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
		}
		if c.TelegramChatID == "" {
			return fmt.Errorf("TELEGRAM_CHAT_ID is required")
		}
	}
	if c.TelegramMessageLimit <= 0 {
		return fmt.Errorf("TELEGRAM_MESSAGE_LIMIT must be positive")
	}
	if c.NewsFetchLimit <= 0 || c.NewsTopN <= 0 {
		return fmt.Errorf("NEWS_FETCH_LIMIT and NEWS_TOP_N must be positive")
	}
	if _, err := time.LoadLocation(c.ScheduleTimezone); err != nil {
		return fmt.Errorf("SCHEDULE_TIMEZONE: %w", err)
	}
	return nil
}
