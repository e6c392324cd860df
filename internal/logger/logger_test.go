package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" DEBUG ", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitDebugOverride(t *testing.T) {
	t.Setenv("DEBUG", "true")
	l := Init("error")
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("DEBUG=true should enable debug logging")
	}
	if slog.Default() != l || Logger != l {
		t.Error("Init should install the logger as default")
	}
}

func TestInitLevel(t *testing.T) {
	t.Setenv("DEBUG", "")
	l := Init("warn")
	if l.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !l.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be enabled at warn level")
	}
}
