// Package academy holds the learning articles appended to every post.
package academy

import (
	"html"
	"math/rand"
	"strings"
)

type Category string

const (
	CategorySmartMoney    Category = "smart-money"
	CategoryAlerts        Category = "alerts"
	CategoryTokenScreener Category = "token-screener"
	CategoryTrading       Category = "trading"
	CategoryPlaybook      Category = "playbook"
	CategoryProfiler      Category = "profiler"
	Category101           Category = "101"
	CategoryGeneral       Category = "general"
)

type Article struct {
	Title    string
	URL      string
	Category Category
}

var Articles = []Article{
	{Title: "Smart Money 101", URL: "https://academy.nansen.ai/en/articles/2132837-smart-money-101", Category: CategorySmartMoney},
	{Title: "Finding Consistent Winners with Smart Money Leaderboard", URL: "https://academy.nansen.ai/en/articles/9672038-finding-consistent-winners-with-smart-money-leaderboard", Category: CategorySmartMoney},
	{Title: "High-Conviction Entry Signal via Smart Money Live Trades", URL: "https://academy.nansen.ai/en/articles/9297913-high-conviction-entry-signal-via-smart-money-live-trades", Category: CategorySmartMoney},
	{Title: "Tracking Smart Money Soaking Up Supply", URL: "https://academy.nansen.ai/en/articles/0752627-tracking-smart-money-soaking-up-supply", Category: CategorySmartMoney},
	{Title: "Track Smart Money Accumulation Early Using Token God Mode", URL: "https://academy.nansen.ai/en/articles/6611574-track-smart-money-accumulation-early-using-token-god-mode-profiler", Category: CategorySmartMoney},

	{Title: "Monitor Onchain Moves with Smart Alerts", URL: "https://academy.nansen.ai/en/articles/2912237-monitor-onchain-moves-with-smart-alerts", Category: CategoryAlerts},
	{Title: "Setting Up Smart Money Alerts", URL: "https://academy.nansen.ai/en/articles/9591962-setting-up-smart-money-alerts", Category: CategoryAlerts},
	{Title: "Portfolio Defense: Exit Triggers Using Smart Alerts", URL: "https://academy.nansen.ai/en/articles/6329340-portfolio-defense-exit-triggers-using-smart-alerts-on-top-holders", Category: CategoryAlerts},
	{Title: "Automating Token Discovery with Smart Alerts", URL: "https://academy.nansen.ai/en/articles/1310547-automating-token-discovery-with-smart-alerts", Category: CategoryAlerts},
	{Title: "AI Smart Alerts 101", URL: "https://academy.nansen.ai/en/articles/6239622-ai-smart-alerts-101", Category: CategoryAlerts},

	{Title: "Token Screener 101", URL: "https://academy.nansen.ai/en/articles/6974360-token-screener-101", Category: CategoryTokenScreener},
	{Title: "Finding High-Potential Tokens with Token Screener", URL: "https://academy.nansen.ai/en/articles/2643723-finding-high-potential-tokens-with-token-screener", Category: CategoryTokenScreener},
	{Title: "Discovering Fresh Memecoins with Token Screener", URL: "https://academy.nansen.ai/en/articles/5534599-discovering-fresh-memecoins-with-token-screener", Category: CategoryTokenScreener},
	{Title: "Identifying High-Signal Tokens with Token Screener", URL: "https://academy.nansen.ai/en/articles/2429283-identifying-high-signal-tokens-with-token-screener", Category: CategoryTokenScreener},
	{Title: "Daily Token Discovery Using Nansen Homepage", URL: "https://academy.nansen.ai/en/articles/5116740-daily-token-discovery-using-nansen-homepage", Category: CategoryTokenScreener},

	{Title: "Nansen Trading 101", URL: "https://academy.nansen.ai/en/articles/3306593-nansen-trading-101", Category: CategoryTrading},
	{Title: "About Nansen Trading", URL: "https://academy.nansen.ai/en/articles/0162796-about-nansen-trading", Category: CategoryTrading},
	{Title: "Get Started with Nansen Trading", URL: "https://academy.nansen.ai/en/articles/9215495-get-started-with-nansen-trading", Category: CategoryTrading},
	{Title: "Crypto Trading for Beginners", URL: "https://academy.nansen.ai/en/articles/6851806-crypto-trading-for-beginners", Category: CategoryTrading},
	{Title: "Buying/Selling Crypto for Beginners", URL: "https://academy.nansen.ai/en/articles/6857553-buyingselling-crypto-for-beginners", Category: CategoryTrading},

	{Title: "Token God Mode 101", URL: "https://academy.nansen.ai/en/articles/3874203-token-god-mode-101", Category: CategoryPlaybook},
	{Title: "Layered Due Diligence with Token God Mode", URL: "https://academy.nansen.ai/en/articles/3081640-layered-due-diligence-with-token-god-mode", Category: CategoryPlaybook},
	{Title: "How to Use Token God Mode to Compare Holder Distribution", URL: "https://academy.nansen.ai/en/articles/0479852-how-to-use-token-god-mode-to-compare-holder-distribution", Category: CategoryPlaybook},
	{Title: "Detecting Accumulation Patterns in Token God Mode", URL: "https://academy.nansen.ai/en/articles/1129448-detecting-accumulation-patterns-in-token-god-mode", Category: CategoryPlaybook},
	{Title: "Using Balance Divergences in Token God Mode", URL: "https://academy.nansen.ai/en/articles/7583890-using-balance-divergences-in-token-god-mode", Category: CategoryPlaybook},
	{Title: "Using Token God Mode's Top Holders Tab to Spot Exit", URL: "https://academy.nansen.ai/en/articles/9054931-using-token-god-modes-top-holders-tab-to-spot-exit", Category: CategoryPlaybook},
	{Title: "Using AI Signals to Filter High-Signal Tokens", URL: "https://academy.nansen.ai/en/articles/0412066-using-ai-signals-to-filter-high-signal-tokens", Category: CategoryPlaybook},
	{Title: "Smart Segments: Build Your Own Alpha Wallet Tracker", URL: "https://academy.nansen.ai/en/articles/3746755-smart-segments-build-your-own-alpha-wallet-tracker", Category: CategoryPlaybook},
	{Title: "Building Watchlists with Smart Segments", URL: "https://academy.nansen.ai/en/articles/7953263-building-watchlists-with-smart-segments", Category: CategoryPlaybook},
	{Title: "Use Smart Segments to Filter for New Narratives", URL: "https://academy.nansen.ai/en/articles/9658122-use-smart-segments-to-filter-for-new-narratives", Category: CategoryPlaybook},
	{Title: "Using Hot Contracts for Token Discovery", URL: "https://academy.nansen.ai/en/articles/5206357-using-hot-contracts-for-token-discovery", Category: CategoryPlaybook},
	{Title: "Monitoring Your Portfolio and Exporting Data", URL: "https://academy.nansen.ai/en/articles/1437225-monitoring-your-portfolio-and-exporting-data", Category: CategoryPlaybook},

	{Title: "Nansen Profiler 101", URL: "https://academy.nansen.ai/en/articles/0002013-nansen-profiler-101", Category: CategoryProfiler},
	{Title: "Track Individual Wallets Over Time with Profiler", URL: "https://academy.nansen.ai/en/articles/7644156-track-individual-wallets-over-time-with-profiler", Category: CategoryProfiler},
	{Title: "Evaluating Wallet Conviction Using Profiler PnL Analysis", URL: "https://academy.nansen.ai/en/articles/5835705-evaluating-wallet-conviction-using-profiler-pnl-analysis", Category: CategoryProfiler},
	{Title: "Confirm Conviction by Identifying Holding Patterns", URL: "https://academy.nansen.ai/en/articles/0252026-how-to-confirm-conviction-by-identifying-holding-patterns-with-profiler", Category: CategoryProfiler},
	{Title: "Use Transaction History and Reverse-Engineer Entry Points", URL: "https://academy.nansen.ai/en/articles/8002716-use-transaction-history-and-reverse-engineer-entry-points", Category: CategoryProfiler},

	{Title: "About Nansen", URL: "https://academy.nansen.ai/en/articles/9113359-about-nansen", Category: Category101},
	{Title: "Who is Nansen For?", URL: "https://academy.nansen.ai/en/articles/0560433-who-is-nansen-for", Category: Category101},
	{Title: "Nansen AI 101", URL: "https://academy.nansen.ai/en/articles/4676097-nansen-ai-101", Category: Category101},
	{Title: "Nansen Points 101", URL: "https://academy.nansen.ai/en/articles/3715302-nansen-points-101", Category: Category101},
	{Title: "Nansen Staking 101", URL: "https://academy.nansen.ai/en/articles/4748110-nansen-staking-101", Category: Category101},
	{Title: "Nansen Portfolio 101", URL: "https://academy.nansen.ai/en/articles/8816201-nansen-portfolio-101", Category: Category101},
	{Title: "AI Signals 101", URL: "https://academy.nansen.ai/en/articles/0601583-ai-signals-101", Category: Category101},
	{Title: "Deep Research 101", URL: "https://academy.nansen.ai/en/articles/1725366-deep-research-101", Category: Category101},
	{Title: "Nansen API/MCP 101", URL: "https://academy.nansen.ai/en/articles/8404875-nansen-apimcp-101", Category: Category101},
	{Title: "Labels & Watchlists 101", URL: "https://academy.nansen.ai/en/articles/2149924-labels-and-watchlists-101", Category: Category101},
	{Title: "Chains Growth 101", URL: "https://academy.nansen.ai/en/articles/1025513-chains-growth-101", Category: Category101},
	{Title: "Playbook Levels", URL: "https://academy.nansen.ai/en/articles/3704489-playbook-levels", Category: Category101},

	{Title: "Onchain Glossary for Beginners", URL: "https://academy.nansen.ai/en/articles/4406510-onchain-glossary-for-beginners", Category: CategoryGeneral},
	{Title: "Onchain Explained", URL: "https://academy.nansen.ai/en/articles/1243861-onchain-explained", Category: CategoryGeneral},
	{Title: "Crypto Investing for Beginners", URL: "https://academy.nansen.ai/en/articles/6068483-crypto-investing-for-beginners", Category: CategoryGeneral},
	{Title: "Staking Crypto for Beginners", URL: "https://academy.nansen.ai/en/articles/2174127-staking-crypto-for-beginners", Category: CategoryGeneral},
}

// jobCategories lists the categories relevant to each job.
var jobCategories = map[string][]Category{
	"news":  {Category101, CategoryGeneral, CategoryPlaybook, CategorySmartMoney},
	"day-a": {CategorySmartMoney, CategoryAlerts, CategoryProfiler},
	"day-b": {CategoryTokenScreener, CategoryTrading, CategoryPlaybook},
	"day-c": {CategoryPlaybook, Category101, CategoryProfiler, CategorySmartMoney},
}

// Candidates returns the articles relevant to job, or the whole catalogue
// when the job is unknown.
func Candidates(job string) []Article {
	cats, ok := jobCategories[job]
	if !ok {
		return Articles
	}
	var out []Article
	for _, a := range Articles {
		for _, c := range cats {
			if a.Category == c {
				out = append(out, a)
				break
			}
		}
	}
	if len(out) == 0 {
		return Articles
	}
	return out
}

// RandomArticles picks up to n distinct articles for job.
func RandomArticles(job string, n int, rng *rand.Rand) []Article {
	pool := Candidates(job)
	if n <= 0 {
		return nil
	}
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]Article, 0, n)
	for _, i := range rng.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}

// Footer renders the "Learn more" block appended to a post. Titles are
// escaped for Telegram HTML.
func Footer(articles []Article) string {
	if len(articles) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\n---\nLearn more:")
	for _, a := range articles {
		sb.WriteString("\n• ")
		sb.WriteString(html.EscapeString(a.Title))
		sb.WriteString("\n")
		sb.WriteString(a.URL)
	}
	return sb.String()
}
