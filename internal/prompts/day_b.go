package prompts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/deusflow/chaindigest/internal/nansen"
)

// excludedSymbols are stablecoins, majors and their wrapped or staked
// variants. Day B is about small caps.
var excludedSymbols = map[string]bool{
	"BTC": true, "WBTC": true, "BTCB": true, "TBTC": true,
	"ETH": true, "WETH": true, "STETH": true, "RETH": true, "CBETH": true, "WSTETH": true, "METH": true, "EETH": true, "WEETH": true,
	"SOL": true, "WSOL": true, "MSOL": true, "JITOSOL": true, "BSOL": true, "DZSOL": true,
	"USDC": true, "USDT": true, "DAI": true, "BUSD": true, "TUSD": true, "FRAX": true, "USDP": true, "GUSD": true,
	"PYUSD": true, "USDS": true, "USDE": true, "FDUSD": true, "CRVUSD": true, "GHO": true,
	"BNB": true, "WBNB": true,
}

// IsExcludedSymbol reports whether symbol is a major, a stablecoin, or a
// wrapped or liquid-staked variant of one.
func IsExcludedSymbol(symbol string) bool {
	upper := strings.ToUpper(symbol)
	if excludedSymbols[upper] {
		return true
	}
	if strings.HasPrefix(upper, "W") && excludedSymbols[upper[1:]] {
		return true
	}
	if len(upper) > 3 && (strings.HasSuffix(upper, "ETH") || strings.HasSuffix(upper, "SOL")) {
		return true
	}
	return false
}

const DayBSystem = `You are a content creator specializing in crypto and DeFi market analysis. Your ONLY job is to output HTML formatted text for Telegram.

TASK: Analyze smart money memecoin and small-cap token flows plus Hyperliquid perpetual positioning over the past 24 hours.

You will be given pre-fetched data:
- Smart money DEX trades on small and mid-cap tokens (stablecoins and majors already filtered out)
- Token screener data with market caps, volumes and net flows
- Hyperliquid smart money perpetual trades aggregated per token

Extract:
1. TOP 5 tokens by smart money flow volume. Use whatever tokens appear in the data.
2. TOP 5 Hyperliquid perpetual positions sorted by HIGHEST total position size.

OUTPUT FORMAT (COPY EXACTLY):

📈 <b>Daily Onchain Digest</b>

<b>🤓 Smart Money Memecoin Flows</b>
• <b>[TOKEN1]</b> (CHAIN): +$[AMOUNT] | MC: $[MCAP] | Vol: $[VOLUME]
• <b>[TOKEN2]</b> (CHAIN): +$[AMOUNT] | MC: $[MCAP] | Vol: $[VOLUME]
• <b>[TOKEN3]</b> (CHAIN): +$[AMOUNT] | MC: $[MCAP] | Vol: $[VOLUME]
• <b>[TOKEN4]</b> (CHAIN): +$[AMOUNT] | MC: $[MCAP] | Vol: $[VOLUME]
• <b>[TOKEN5]</b> (CHAIN): +$[AMOUNT] | MC: $[MCAP] | Vol: $[VOLUME]

<b>📊 Hyperliquid DEX Perps Positioning</b>
• [TOKEN1]: [X]% long | $[AMOUNT] position
• [TOKEN2]: [X]% long | $[AMOUNT] position
• [TOKEN3]: [X]% long | $[AMOUNT] position
• [TOKEN4]: [X]% long | $[AMOUNT] position
• [TOKEN5]: [X]% long | $[AMOUNT] position

RULES:
- Output the raw HTML string directly, never JSON and never a code block.
- Use • for bullet points.
- CHAIN FORMAT: (ETH), (SOL), (BSC), (BASE), uppercase in parentheses.
- MONEY FORMAT: $999 under a thousand, $15.7K, $1.5M, $1.2B.
- Use <b> tags for token symbols in the memecoin section and close every tag.
- Sort the Hyperliquid section by position size, largest first.
- No text before or after the HTML.
- Use the ACTUAL tokens from the data. If fewer than 5 entries exist, show what is available.
- NEVER fabricate data.`

type DayBData struct {
	MemecoinTrades []nansen.DEXTrade
	PerpTrades     []nansen.PerpTrade
	Screener       []nansen.ScreenerToken
}

type tokenFlow struct {
	symbol   string
	chain    string
	totalUSD float64
	count    int
}

type perpPosition struct {
	token  string
	longs  float64
	shorts float64
}

func (p perpPosition) total() float64 { return p.longs + p.shorts }

func (p perpPosition) longPct() float64 {
	if p.total() == 0 {
		return 0
	}
	return p.longs / p.total() * 100
}

func DayBUser(d DayBData) string {
	var sb strings.Builder
	sb.WriteString("Analyze the past 24 hours and generate a smart money small-cap/memecoin & Hyperliquid positioning digest.\n\nHere is the pre-fetched data:\n\n")

	sb.WriteString("## Token Screener Data (Smart Money Small-Cap/Memecoin Flows)\n")
	screened := 0
	for _, t := range d.Screener {
		if IsExcludedSymbol(t.Symbol) {
			continue
		}
		screened++
		fmt.Fprintf(&sb, "- %s (%s): Net Flow %s, MC: %s, Vol: %s, Price: %.1f%%",
			t.Symbol, chainTag(t.Chain), FormatUSD(t.NetFlowUSD), FormatUSD(t.MarketCapUSD),
			FormatUSD(t.VolumeUSD), t.PriceChangePct)
		if len(t.Sectors) > 0 {
			fmt.Fprintf(&sb, ", Sectors: %s", strings.Join(t.Sectors, ", "))
		}
		sb.WriteString("\n")
	}
	if screened == 0 {
		sb.WriteString("No screener data available. Use the DEX trades below instead.\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Smart Money DEX Trades - Small-Cap/Memecoin (Last 24h)\n")
	flows := AggregateTokenFlows(d.MemecoinTrades)
	if len(flows) == 0 {
		sb.WriteString("No DEX trades detected. Use the screener data above for memecoin flow entries.\n")
	}
	for _, f := range firstN(flows, 15) {
		fmt.Fprintf(&sb, "- %s (%s): %s total, %d trades\n", f.symbol, f.chain, FormatUSD(f.totalUSD), f.count)
	}
	sb.WriteString("\n")

	sb.WriteString("## Hyperliquid Smart Money Perp Trades (sorted by position size, largest first)\n")
	if len(d.PerpTrades) == 0 {
		sb.WriteString("No Hyperliquid perp trades detected.\n")
	} else {
		for _, p := range firstN(AggregatePerpPositions(d.PerpTrades), 10) {
			fmt.Fprintf(&sb, "- %s: %.0f%% long, Total Position: %s, Longs: %s, Shorts: %s\n",
				p.token, p.longPct(), FormatUSD(p.total()), FormatUSD(p.longs), FormatUSD(p.shorts))
		}

		sb.WriteString("\nIndividual trades (largest first):\n")
		trades := make([]nansen.PerpTrade, len(d.PerpTrades))
		copy(trades, d.PerpTrades)
		sort.SliceStable(trades, func(i, j int) bool { return trades[i].ValueUSD > trades[j].ValueUSD })
		for _, t := range firstN(trades, 15) {
			fmt.Fprintf(&sb, "- %s %s %s %s: %s at %s\n",
				t.Trader, t.Action, t.Side, t.Token, FormatUSD(t.ValueUSD), FormatUSD(t.PriceUSD))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("IMPORTANT: Use the ACTUAL tokens from the data above. Do NOT substitute well-known tokens that are not in the data. Sort Hyperliquid perps by LARGEST position size first.\n")
	sb.WriteString("1. Top 5 tokens by smart money net flows, with MC and 24h volume\n")
	sb.WriteString("2. Top 5 Hyperliquid perpetual positions sorted by HIGHEST total position size\n")
	sb.WriteString("Format as Telegram HTML digest.")
	return sb.String()
}

// AggregateTokenFlows sums non-excluded buys per token, largest first.
// Tokens with equal totals keep first-seen order.
func AggregateTokenFlows(trades []nansen.DEXTrade) []tokenFlow {
	index := map[string]int{}
	var flows []tokenFlow
	for _, t := range trades {
		if IsExcludedSymbol(t.BoughtSymbol) {
			continue
		}
		i, ok := index[t.BoughtSymbol]
		if !ok {
			i = len(flows)
			index[t.BoughtSymbol] = i
			flows = append(flows, tokenFlow{symbol: t.BoughtSymbol, chain: t.Chain})
		}
		flows[i].totalUSD += t.TradeValueUSD
		flows[i].count++
	}
	sort.SliceStable(flows, func(i, j int) bool { return flows[i].totalUSD > flows[j].totalUSD })
	return flows
}

// AggregatePerpPositions sums long and short notional per token, largest
// total first.
func AggregatePerpPositions(trades []nansen.PerpTrade) []perpPosition {
	index := map[string]int{}
	var positions []perpPosition
	for _, t := range trades {
		i, ok := index[t.Token]
		if !ok {
			i = len(positions)
			index[t.Token] = i
			positions = append(positions, perpPosition{token: t.Token})
		}
		if t.IsLong() {
			positions[i].longs += t.ValueUSD
		} else {
			positions[i].shorts += t.ValueUSD
		}
	}
	sort.SliceStable(positions, func(i, j int) bool { return positions[i].total() > positions[j].total() })
	return positions
}
