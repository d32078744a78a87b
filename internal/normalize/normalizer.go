package normalize

import (
	"math"
	"strings"
	"time"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/contracts"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/foreignflow"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/payload"
)

// Alias lists, scanned in order; the first present and numeric alias wins.
// ⭐ SSOT: every source schema is mapped to canonical fields here only
var (
	priceAliases      = []string{"price", "last", "lastPrice", "close", "index", "regularMarketPrice"}
	pctAliases        = []string{"pct", "pct_change", "percentChange", "changePercent"}
	volumeAliases     = []string{"vol", "volume", "nmVol", "regularMarketVolume"}
	avg5PriceAliases  = []string{"avg5_price", "avg5", "avg_price"}
	avg5VolumeAliases = []string{"avg5_vol", "avg5_volume", "avg_volume", "avgvol"}
	avgVol20Aliases   = []string{"avgvol20", "avg_volume20"}
	volRatioAliases   = []string{"vol_ratio", "volRatio"}
	sma20Aliases      = []string{"sma20", "ma20"}
	sma50Aliases      = []string{"sma50", "ma50"}
	sma200Aliases     = []string{"sma200", "ma200"}
	rsiAliases        = []string{"rsi14", "rsi"}
	macdAliases       = []string{"macd"}
	macdSignalAliases = []string{"macd_signal", "macdSignal"}
	atrAliases        = []string{"atr14", "atr"}
	buyAliases        = []string{"fbuy", "buy", "buy_value", "buy_total"}
	sellAliases       = []string{"fsell", "sell", "sell_value", "sell_total"}
	gtgdAliases       = []string{"gtgd", "turnover", "value", "totalValue", "tradingValue"}
	symbolAliases     = []string{"symbol", "ticker", "code"}
)

// Normalizer maps raw adapter payloads onto canonical records
type Normalizer struct {
	now func() time.Time
}

// New creates a normalizer stamping records with the wall clock
func New() *Normalizer {
	return &Normalizer{now: time.Now}
}

// NewWithClock creates a normalizer with an injected clock
func NewWithClock(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// Result holds the record produced by Normalize; exactly one side is set
type Result struct {
	Symbol *contracts.SymbolRecord
	Market *contracts.MarketRecord
}

// Normalize dispatches on kind
func (n *Normalizer) Normalize(raw payload.Payload, source string, kind contracts.Kind) Result {
	if kind == contracts.KindMarket {
		rec := n.Market(raw, source)
		return Result{Market: &rec}
	}
	rec := n.Symbol(raw, source)
	return Result{Symbol: &rec}
}

// Symbol normalizes a per-ticker payload. A nil payload yields a record with
// only Source and Timestamp set.
func (n *Normalizer) Symbol(raw payload.Payload, source string) contracts.SymbolRecord {
	rec := contracts.SymbolRecord{Source: source, Timestamp: n.now()}
	if raw == nil {
		return rec
	}

	rec.Symbol = text(raw, symbolAliases)
	rec.Price = first(raw, priceAliases)
	rec.PctChange = first(raw, pctAliases)
	rec.Volume = first(raw, volumeAliases)
	rec.Avg5Price = first(raw, avg5PriceAliases)
	rec.Avg5Volume = first(raw, avg5VolumeAliases)
	rec.AvgVolume20 = first(raw, avgVol20Aliases)
	rec.VolRatio = first(raw, volRatioAliases)
	rec.SMA20 = first(raw, sma20Aliases)
	rec.SMA50 = first(raw, sma50Aliases)
	rec.SMA200 = first(raw, sma200Aliases)
	rec.RSI14 = first(raw, rsiAliases)
	rec.MACD = first(raw, macdAliases)
	rec.MACDSignal = first(raw, macdSignalAliases)
	rec.ATR14 = first(raw, atrAliases)
	rec.ForeignBuy, rec.ForeignSell = foreign(raw)

	if rec.VolRatio != nil && *rec.VolRatio <= 0 {
		rec.VolRatio = nil
	}
	return rec
}

// Market normalizes a market-wide payload
func (n *Normalizer) Market(raw payload.Payload, source string) contracts.MarketRecord {
	rec := contracts.MarketRecord{Source: source, Timestamp: n.now()}
	if raw == nil {
		return rec
	}

	rec.Price = first(raw, priceAliases)
	rec.PctChange = first(raw, pctAliases)
	rec.GTGD = first(raw, gtgdAliases)
	rec.ForeignBuy, rec.ForeignSell = foreign(raw)
	return rec
}

// foreign reads the direct aliases and falls back to the extractor for each missing side
func foreign(raw payload.Payload) (buy, sell *float64) {
	buy = first(raw, buyAliases)
	sell = first(raw, sellAliases)
	if buy != nil && sell != nil {
		return buy, sell
	}

	xBuy, xSell := foreignflow.Extract(raw)
	if buy == nil {
		buy = xBuy
	}
	if sell == nil {
		sell = xSell
	}
	return buy, sell
}

// first returns the first alias that is present, non-null and numeric
func first(raw payload.Payload, aliases []string) *float64 {
	for _, key := range aliases {
		v, ok := raw.Lookup(key)
		if !ok || v == nil {
			continue
		}
		f, ok := payload.Number(v)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		return &f
	}
	return nil
}

func text(raw payload.Payload, aliases []string) string {
	for _, key := range aliases {
		if v, ok := raw.Lookup(key); ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.ToUpper(strings.TrimSpace(s))
			}
		}
	}
	return ""
}
