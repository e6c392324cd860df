package nansen

import (
	"bytes"
	"encoding/json"
	"strings"
)

type Chain string

const (
	Ethereum Chain = "ethereum"
	Solana   Chain = "solana"
	Base     Chain = "base"
)

// DefaultChains is queried when a caller passes no chains.
var DefaultChains = []Chain{Ethereum, Solana, Base}

type Token struct {
	Address string
	Symbol  string
}

// KeyTokens are the tokens flow intelligence and transfer queries look at,
// most important first.
var KeyTokens = map[Chain][]Token{
	Ethereum: {
		{Address: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", Symbol: "WETH"},
		{Address: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", Symbol: "USDC"},
		{Address: "0xdac17f958d2ee523a2206206994597c13d831ec7", Symbol: "USDT"},
		{Address: "0x2260fac5e5542a773aa44fbcfedf7c193bc2c599", Symbol: "WBTC"},
		{Address: "0x514910771af9ca656af840dff83e8264ecf986ca", Symbol: "LINK"},
	},
	Solana: {
		{Address: "So11111111111111111111111111111111111111112", Symbol: "SOL"},
		{Address: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Symbol: "USDC"},
		{Address: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", Symbol: "BONK"},
		{Address: "EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm", Symbol: "WIF"},
	},
	Base: {
		{Address: "0x4200000000000000000000000000000000000006", Symbol: "WETH"},
		{Address: "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913", Symbol: "USDC"},
		{Address: "0x940181a94A35A4569E4529A3CDfB74e38FD98631", Symbol: "AERO"},
	},
}

func keyTokens(chain Chain, n int) []Token {
	tokens := KeyTokens[chain]
	if len(tokens) > n {
		tokens = tokens[:n]
	}
	return tokens
}

type DEXTrade struct {
	Chain              string  `json:"chain"`
	TransactionHash    string  `json:"transaction_hash"`
	BlockTimestamp     string  `json:"block_timestamp"`
	TraderAddress      string  `json:"trader_address"`
	TraderAddressLabel string  `json:"trader_address_label,omitempty"`
	TraderLabel        string  `json:"trader_label,omitempty"`
	SmartMoneyLabel    string  `json:"smart_money_label,omitempty"`
	BoughtAddress      string  `json:"token_bought_address"`
	BoughtSymbol       string  `json:"token_bought_symbol"`
	BoughtName         string  `json:"token_bought_name,omitempty"`
	BoughtAmount       float64 `json:"token_bought_amount"`
	BoughtAgeDays      float64 `json:"token_bought_age_days,omitempty"`
	BoughtMarketCap    float64 `json:"token_bought_market_cap,omitempty"`
	SoldAddress        string  `json:"token_sold_address"`
	SoldSymbol         string  `json:"token_sold_symbol"`
	SoldName           string  `json:"token_sold_name,omitempty"`
	SoldAmount         float64 `json:"token_sold_amount"`
	SoldAgeDays        float64 `json:"token_sold_age_days,omitempty"`
	SoldMarketCap      float64 `json:"token_sold_market_cap,omitempty"`
	TradeValueUSD      float64 `json:"trade_value_usd"`
	DEXName            string  `json:"dex_name,omitempty"`
}

func normalizeDEXTrade(t DEXTrade) DEXTrade {
	if t.TraderAddressLabel != "" {
		t.TraderLabel = t.TraderAddressLabel
	}
	return t
}

// Amount accepts both JSON strings and numbers.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

type Transfer struct {
	Chain            string  `json:"chain"`
	TransactionHash  string  `json:"transaction_hash"`
	BlockTimestamp   string  `json:"block_timestamp"`
	FromAddress      string  `json:"from_address"`
	FromAddressLabel string  `json:"from_address_label,omitempty"`
	ToAddress        string  `json:"to_address"`
	ToAddressLabel   string  `json:"to_address_label,omitempty"`
	TokenAddress     string  `json:"token_address"`
	TokenSymbol      string  `json:"token_symbol"`
	TokenName        string  `json:"token_name,omitempty"`
	TransferAmount   Amount  `json:"transfer_amount"`
	TransferValueUSD float64 `json:"transfer_value_usd"`
	ExchangeType     string  `json:"exchange_type,omitempty"` // DEX | CEX | Direct
	TransactionType  string  `json:"transaction_type,omitempty"`
}

type FlowIntelligence struct {
	WhaleNetFlowUSD         float64 `json:"whale_net_flow_usd"`
	WhaleAvgFlowUSD         float64 `json:"whale_avg_flow_usd"`
	WhaleWalletCount        int     `json:"whale_wallet_count"`
	SmartTraderNetFlowUSD   float64 `json:"smart_trader_net_flow_usd"`
	SmartTraderAvgFlowUSD   float64 `json:"smart_trader_avg_flow_usd"`
	SmartTraderWalletCount  int     `json:"smart_trader_wallet_count"`
	PublicFigureNetFlowUSD  float64 `json:"public_figure_net_flow_usd"`
	PublicFigureAvgFlowUSD  float64 `json:"public_figure_avg_flow_usd"`
	PublicFigureWalletCount int     `json:"public_figure_wallet_count"`
	TopPnLNetFlowUSD        float64 `json:"top_pnl_net_flow_usd"`
	TopPnLAvgFlowUSD        float64 `json:"top_pnl_avg_flow_usd"`
	TopPnLWalletCount       int     `json:"top_pnl_wallet_count"`
	ExchangeNetFlowUSD      float64 `json:"exchange_net_flow_usd"`
	ExchangeAvgFlowUSD      float64 `json:"exchange_avg_flow_usd"`
	ExchangeWalletCount     int     `json:"exchange_wallet_count"`
	FreshWalletsNetFlowUSD  float64 `json:"fresh_wallets_net_flow_usd"`
	FreshWalletsAvgFlowUSD  float64 `json:"fresh_wallets_avg_flow_usd"`
	FreshWalletsWalletCount int     `json:"fresh_wallets_wallet_count"`
}

// TokenFlows is flow intelligence for one key token.
type TokenFlows struct {
	Chain  Chain
	Symbol string
	Flows  FlowIntelligence
}

type PerpTrade struct {
	BlockTimestamp     string  `json:"block_timestamp"`
	TraderAddress      string  `json:"trader_address"`
	TraderAddressLabel string  `json:"trader_address_label,omitempty"`
	TokenSymbol        string  `json:"token_symbol"`
	Side               string  `json:"side"`
	Action             string  `json:"action"`
	TokenAmount        float64 `json:"token_amount"`
	PriceUSD           float64 `json:"price_usd"`
	ValueUSD           float64 `json:"value_usd"`
	Type               string  `json:"type,omitempty"`
	TransactionHash    string  `json:"transaction_hash"`

	// Filled by normalizePerpTrade.
	Token  string  `json:"-"`
	Size   float64 `json:"-"`
	Trader string  `json:"-"`
}

func normalizePerpTrade(t PerpTrade) PerpTrade {
	t.Token = t.TokenSymbol
	t.Size = t.TokenAmount
	switch {
	case t.TraderAddressLabel != "":
		t.Trader = t.TraderAddressLabel
	case t.TraderAddress != "":
		t.Trader = t.TraderAddress
	default:
		t.Trader = "Unknown"
	}
	return t
}

// IsLong reports whether the trade is on the long side.
func (t PerpTrade) IsLong() bool {
	return strings.EqualFold(t.Side, "long")
}

type ScreenerToken struct {
	TokenAddress    string
	Symbol          string
	Chain           string
	PriceUSD        float64
	PriceChangePct  float64
	MarketCapUSD    float64
	VolumeUSD       float64
	BuyVolumeUSD    float64
	SellVolumeUSD   float64
	NetFlowUSD      float64
	LiquidityUSD    float64
	FDV             float64
	FDVMCRatio      float64
	InflowFDVRatio  float64
	OutflowFDVRatio float64
	TokenAgeDays    float64
	Sectors         []string
	TraderCount     int
}

// screenerItem is the screener row as the API sends it. Older responses use
// the *_usd names, newer ones the short names.
type screenerItem struct {
	TokenAddress          string   `json:"token_address"`
	TokenSymbol           string   `json:"token_symbol"`
	Symbol                string   `json:"symbol"`
	Chain                 string   `json:"chain"`
	PriceUSD              float64  `json:"price_usd"`
	PriceChange           *float64 `json:"price_change"`
	PriceChangePercentage *float64 `json:"price_change_percentage"`
	MarketCapUSD          float64  `json:"market_cap_usd"`
	Volume                *float64 `json:"volume"`
	VolumeUSD             *float64 `json:"volume_usd"`
	BuyVolume             *float64 `json:"buy_volume"`
	BuyVolumeUSD          *float64 `json:"buy_volume_usd"`
	SellVolume            *float64 `json:"sell_volume"`
	SellVolumeUSD         *float64 `json:"sell_volume_usd"`
	Netflow               *float64 `json:"netflow"`
	NetFlowUSD            *float64 `json:"net_flow_usd"`
	Liquidity             *float64 `json:"liquidity"`
	LiquidityUSD          *float64 `json:"liquidity_usd"`
	FDV                   float64  `json:"fdv"`
	FDVMCRatio            float64  `json:"fdv_mc_ratio"`
	InflowFDVRatio        float64  `json:"inflow_fdv_ratio"`
	OutflowFDVRatio       float64  `json:"outflow_fdv_ratio"`
	TokenAgeDays          float64  `json:"token_age_days"`
	Sectors               []string `json:"sectors"`
	NofTraders            int      `json:"nof_traders"`
}

func firstOf(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

func normalizeScreenerItem(item screenerItem) ScreenerToken {
	symbol := item.TokenSymbol
	if symbol == "" {
		symbol = item.Symbol
	}
	sectors := item.Sectors
	if sectors == nil {
		sectors = []string{}
	}
	return ScreenerToken{
		TokenAddress:    item.TokenAddress,
		Symbol:          symbol,
		Chain:           item.Chain,
		PriceUSD:        item.PriceUSD,
		PriceChangePct:  firstOf(item.PriceChange, item.PriceChangePercentage),
		MarketCapUSD:    item.MarketCapUSD,
		VolumeUSD:       firstOf(item.Volume, item.VolumeUSD),
		BuyVolumeUSD:    firstOf(item.BuyVolume, item.BuyVolumeUSD),
		SellVolumeUSD:   firstOf(item.SellVolume, item.SellVolumeUSD),
		NetFlowUSD:      firstOf(item.Netflow, item.NetFlowUSD),
		LiquidityUSD:    firstOf(item.Liquidity, item.LiquidityUSD),
		FDV:             item.FDV,
		FDVMCRatio:      item.FDVMCRatio,
		InflowFDVRatio:  item.InflowFDVRatio,
		OutflowFDVRatio: item.OutflowFDVRatio,
		TokenAgeDays:    item.TokenAgeDays,
		Sectors:         sectors,
		TraderCount:     item.NofTraders,
	}
}

var (
	stablecoins = map[string]bool{
		"USDC": true, "USDT": true, "DAI": true, "BUSD": true, "TUSD": true,
		"FRAX": true, "USDP": true, "GUSD": true, "PYUSD": true,
	}
	majorTokens = map[string]bool{
		"WETH": true, "ETH": true, "WBTC": true, "BTC": true, "SOL": true, "WSOL": true,
		"LINK": true, "UNI": true, "AAVE": true, "MKR": true, "CRV": true,
	}
)

// IsMemecoinTrade keeps trades that buy something other than a stablecoin
// or major, paid with something other than a stablecoin.
func IsMemecoinTrade(t DEXTrade) bool {
	bought := strings.ToUpper(t.BoughtSymbol)
	sold := strings.ToUpper(t.SoldSymbol)
	return !stablecoins[bought] && !majorTokens[bought] && !stablecoins[sold]
}
