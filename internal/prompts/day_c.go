package prompts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/deusflow/chaindigest/internal/nansen"
)

const DayCSystem = `You are a professional crypto analyst writing the weekly roundup Telegram post for an onchain analytics community channel.

Create a comprehensive weekly summary of Smart Money activity that highlights the biggest moves, emerging trends and key narratives.

Guidelines:
- Format for Telegram HTML: only <b>, <i> and <a href="..."> tags. Escape &, < and > in plain text.
- Keep the post between 2000 and 3500 characters.
- Structure it as a clear weekly roundup with sections.
- Highlight the week's biggest smart money moves.
- Identify accumulation and distribution patterns across the week.
- Note any emerging narratives or sector rotations.
- End with a forward-looking summary.
- Be factual and data-driven. Avoid speculation.`

type DayCData struct {
	WeeklyTrades []nansen.DEXTrade
	WeeklyFlows  []nansen.TokenFlows
}

type tokenBuys struct {
	symbol   string
	count    int
	totalUSD float64
	traders  map[string]struct{}
}

func DayCUser(d DayCData) string {
	var sb strings.Builder
	sb.WriteString("Here is this week's onchain data for the weekly roundup. Please create a comprehensive Telegram post.\n\n")

	sb.WriteString("## Smart Money DEX Trades This Week\n")
	if len(d.WeeklyTrades) == 0 {
		sb.WriteString("No significant trades this week.\n\n")
	} else {
		sb.WriteString("### Top Tokens by Smart Money Buy Volume\n")
		for _, b := range firstN(AggregateBuys(d.WeeklyTrades), 20) {
			fmt.Fprintf(&sb, "- %s: %s total buys, %d trades by %d unique traders\n",
				b.symbol, FormatUSD(b.totalUSD), b.count, len(b.traders))
		}
		sb.WriteString("\n")

		sb.WriteString("### Biggest Individual Trades\n")
		trades := make([]nansen.DEXTrade, len(d.WeeklyTrades))
		copy(trades, d.WeeklyTrades)
		sort.SliceStable(trades, func(i, j int) bool { return trades[i].TradeValueUSD > trades[j].TradeValueUSD })
		for _, t := range firstN(trades, 10) {
			fmt.Fprintf(&sb, "- %s bought %s (%s) on %s\n",
				traderName(t), t.BoughtSymbol, FormatUSD(t.TradeValueUSD), t.Chain)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Weekly Flow Intelligence\n")
	if len(d.WeeklyFlows) == 0 {
		sb.WriteString("No flow intelligence data available for this week.\n\n")
	} else {
		for _, fi := range d.WeeklyFlows {
			fmt.Fprintf(&sb, "### %s - %s (7d)\n", fi.Chain, fi.Symbol)
			fmt.Fprintf(&sb, "- Whale net flow: %s (%d wallets)\n", FormatUSD(fi.Flows.WhaleNetFlowUSD), fi.Flows.WhaleWalletCount)
			fmt.Fprintf(&sb, "- Smart Trader net flow: %s (%d wallets)\n", FormatUSD(fi.Flows.SmartTraderNetFlowUSD), fi.Flows.SmartTraderWalletCount)
			fmt.Fprintf(&sb, "- Exchange net flow: %s\n\n", FormatUSD(fi.Flows.ExchangeNetFlowUSD))
		}
	}

	sb.WriteString("\nPlease create a formatted weekly roundup Telegram post summarizing the key Smart Money activity this week.")
	return sb.String()
}

// AggregateBuys groups trades by bought token, largest buy volume first.
func AggregateBuys(trades []nansen.DEXTrade) []tokenBuys {
	index := map[string]int{}
	var buys []tokenBuys
	for _, t := range trades {
		i, ok := index[t.BoughtSymbol]
		if !ok {
			i = len(buys)
			index[t.BoughtSymbol] = i
			buys = append(buys, tokenBuys{symbol: t.BoughtSymbol, traders: map[string]struct{}{}})
		}
		buys[i].count++
		buys[i].totalUSD += t.TradeValueUSD
		buys[i].traders[traderName(t)] = struct{}{}
	}
	sort.SliceStable(buys, func(i, j int) bool { return buys[i].totalUSD > buys[j].totalUSD })
	return buys
}
