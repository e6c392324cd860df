package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("NEWS_WINDOW", "")
	t.Setenv("DEBUG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LLMProvider != ProviderAnthropic {
		t.Errorf("LLMProvider = %q, want anthropic", cfg.LLMProvider)
	}
	if cfg.NewsWindow != 24*time.Hour {
		t.Errorf("NewsWindow = %v, want 24h", cfg.NewsWindow)
	}
	if cfg.TelegramMessageLimit != 4096 {
		t.Errorf("TelegramMessageLimit = %d, want 4096", cfg.TelegramMessageLimit)
	}
	if cfg.NewsSchedule != "0 2 * * *" || cfg.DigestSchedule != "0 10 * * *" {
		t.Errorf("schedules = %q / %q", cfg.NewsSchedule, cfg.DigestSchedule)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_TOKEN", "legacy-token")
	t.Setenv("TELEGRAM_CHAT_ID", "@channel")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("NEWS_TOP_N", "5")
	t.Setenv("NEWS_WINDOW", "12h")
	t.Setenv("ENRICH_DESCRIPTIONS", "true")
	t.Setenv("RETRY_ATTEMPTS", "not-a-number")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.TelegramToken != "legacy-token" {
		t.Errorf("TelegramToken = %q, want fallback to TELEGRAM_TOKEN", cfg.TelegramToken)
	}
	if cfg.LLMProvider != ProviderGemini || cfg.LLMAPIKey() != "g-key" {
		t.Errorf("provider = %q key = %q", cfg.LLMProvider, cfg.LLMAPIKey())
	}
	if cfg.NewsTopN != 5 || cfg.NewsWindow != 12*time.Hour {
		t.Errorf("NewsTopN = %d NewsWindow = %v", cfg.NewsTopN, cfg.NewsWindow)
	}
	if !cfg.EnrichDescriptions {
		t.Error("EnrichDescriptions not set")
	}
	if cfg.RetryAttempts != 3 {
		t.Errorf("RetryAttempts = %d, want default on bad input", cfg.RetryAttempts)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.AnthropicAPIKey = "a-key"
		c.TelegramToken = "token"
		c.TelegramChatID = "chat"
		c.NansenAPIKey = "n-key"
		return c
	}

	tests := []struct {
		name     string
		mutate   func(c *Config)
		newsOnly bool
		wantErr  bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown provider", mutate: func(c *Config) { c.LLMProvider = "llama" }, wantErr: true},
		{name: "missing provider key", mutate: func(c *Config) { c.AnthropicAPIKey = "" }, wantErr: true},
		{name: "missing telegram token", mutate: func(c *Config) { c.TelegramToken = "" }, wantErr: true},
		{name: "dry run skips telegram", mutate: func(c *Config) { c.TelegramToken = ""; c.TelegramChatID = ""; c.DryRun = true }},
		{name: "missing nansen key", mutate: func(c *Config) { c.NansenAPIKey = "" }, wantErr: true},
		{name: "news job ignores nansen key", mutate: func(c *Config) { c.NansenAPIKey = "" }, newsOnly: true},
		{name: "bad timezone", mutate: func(c *Config) { c.ScheduleTimezone = "Mars/Olympus" }, wantErr: true},
		{name: "zero top n", mutate: func(c *Config) { c.NewsTopN = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)

			var err error
			if tt.newsOnly {
				err = c.ValidateNewsOnly()
			} else {
				err = c.Validate()
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
