package prompts

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatUSD renders an amount the way the posts show money: $999, $15.7K,
// $1.5M, $1.2B. Negative amounts keep their sign in front of the dollar.
func FormatUSD(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%s$%.1fB", sign, v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%s$%.1fM", sign, v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%s$%.1fK", sign, v/1e3)
	}
	return fmt.Sprintf("%s$%.0f", sign, math.Round(v))
}

// TruncateAddress shortens a wallet address to 0x1234...abcd.
func TruncateAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// FormatTimestamp renders an API timestamp as "2006-01-02 15:04 UTC".
// Unparseable input is returned unchanged.
func FormatTimestamp(ts string) string {
	ts = strings.TrimSpace(ts)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return FormatTime(t)
		}
	}
	return ts
}

func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04") + " UTC"
}

// HoursAgo returns the instant h hours before now.
func HoursAgo(now time.Time, h int) time.Time {
	return now.Add(-time.Duration(h) * time.Hour)
}

// chainTag is the short uppercase chain name used in digests.
func chainTag(chain string) string {
	switch strings.ToLower(chain) {
	case "ethereum":
		return "ETH"
	case "solana":
		return "SOL"
	case "base":
		return "BASE"
	case "bnb", "bsc":
		return "BSC"
	}
	return strings.ToUpper(chain)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
