package prompts

import (
	"fmt"
	"strings"

	"github.com/deusflow/chaindigest/internal/nansen"
)

const DayASystem = `You are a professional crypto analyst writing concise, data-driven Telegram posts for an onchain analytics community channel.

Analyze the day's Smart Money flows and high conviction onchain movements, then produce one well-formatted Telegram post.

Guidelines:
- Format for Telegram HTML: only <b>, <i> and <a href="..."> tags. Escape &, < and > in plain text.
- Keep the post between 1500 and 3000 characters.
- Focus on the most significant and interesting movements.
- Highlight notable wallet labels, large trades and unusual patterns.
- Group findings by theme, for example accumulation signals, rotations or notable exits.
- End with a brief takeaway.
- Be factual and data-driven. Never invent numbers that are not in the data.`

type DayAData struct {
	DEXTrades []nansen.DEXTrade
	Transfers []nansen.Transfer
	Flows     []nansen.TokenFlows
	Screener  []nansen.ScreenerToken
}

func DayAUser(d DayAData) string {
	var sb strings.Builder
	sb.WriteString("Here is today's onchain data. Please analyze it and create a Telegram post.\n\n")

	sb.WriteString("## Smart Money DEX Trades (Last 24h)\n")
	if len(d.DEXTrades) == 0 {
		sb.WriteString("No significant smart money DEX trades detected.\n\n")
	} else {
		for _, t := range firstN(d.DEXTrades, 30) {
			smLabel := ""
			if t.SmartMoneyLabel != "" {
				smLabel = " [" + t.SmartMoneyLabel + "]"
			}
			dex := t.DEXName
			if dex == "" {
				dex = "DEX"
			}
			fmt.Fprintf(&sb, "- %s%s bought %s with %s (%s) on %s via %s at %s\n",
				traderName(t), smLabel, t.BoughtSymbol, t.SoldSymbol, FormatUSD(t.TradeValueUSD),
				t.Chain, dex, FormatTimestamp(t.BlockTimestamp))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## High Conviction Transfers\n")
	if len(d.Transfers) == 0 {
		sb.WriteString("No high-value transfers detected.\n\n")
	} else {
		for _, t := range firstN(d.Transfers, 20) {
			fmt.Fprintf(&sb, "- %s -> %s: %s %s on %s at %s\n",
				labelOr(t.FromAddressLabel, t.FromAddress), labelOr(t.ToAddressLabel, t.ToAddress),
				FormatUSD(t.TransferValueUSD), t.TokenSymbol, t.Chain, FormatTimestamp(t.BlockTimestamp))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Flow Intelligence Summary\n")
	if len(d.Flows) == 0 {
		sb.WriteString("No flow intelligence data available.\n\n")
	} else {
		for _, fi := range d.Flows {
			fmt.Fprintf(&sb, "### %s - %s\n", fi.Chain, fi.Symbol)
			fmt.Fprintf(&sb, "- Whale net flow: %s (%d wallets)\n", FormatUSD(fi.Flows.WhaleNetFlowUSD), fi.Flows.WhaleWalletCount)
			fmt.Fprintf(&sb, "- Smart Trader net flow: %s (%d wallets)\n", FormatUSD(fi.Flows.SmartTraderNetFlowUSD), fi.Flows.SmartTraderWalletCount)
			fmt.Fprintf(&sb, "- Exchange net flow: %s (%d wallets)\n", FormatUSD(fi.Flows.ExchangeNetFlowUSD), fi.Flows.ExchangeWalletCount)
			fmt.Fprintf(&sb, "- Fresh Wallets net flow: %s (%d wallets)\n\n", FormatUSD(fi.Flows.FreshWalletsNetFlowUSD), fi.Flows.FreshWalletsWalletCount)
		}
	}

	sb.WriteString("## Smart Money Token Screener (24h, by net flow)\n")
	if len(d.Screener) == 0 {
		sb.WriteString("No screener data available.\n\n")
	} else {
		for _, t := range firstN(d.Screener, 15) {
			fmt.Fprintf(&sb, "- %s (%s): Net Flow %s, Vol: %s, Liquidity: %s, Price: %.1f%%\n",
				t.Symbol, chainTag(t.Chain), FormatUSD(t.NetFlowUSD), FormatUSD(t.VolumeUSD),
				FormatUSD(t.LiquidityUSD), t.PriceChangePct)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nPlease create a formatted Telegram post summarizing the key Smart Money flows and high conviction movements for today.")
	return sb.String()
}

func traderName(t nansen.DEXTrade) string {
	return labelOr(t.TraderLabel, t.TraderAddress)
}

func labelOr(label, address string) string {
	if label != "" {
		return label
	}
	return TruncateAddress(address)
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
