package contracts

import "time"

// SourceNone tags a record produced when every source failed
const SourceNone = "none"

// Kind distinguishes the two entity types the pipeline fetches
type Kind string

const (
	KindSymbol Kind = "symbol"
	KindMarket Kind = "market"
)

// SymbolRecord is the canonical per-ticker snapshot
// ⭐ SSOT: all sources are normalized into this shape
//
// Every numeric field is optional: nil means unavailable, never 0 or -1.
// Fields are pointers, so a plain copy shares them; use Clone before handing a record out.
type SymbolRecord struct {
	Symbol string `json:"symbol"`

	Price       *float64 `json:"price,omitempty"`
	PctChange   *float64 `json:"pct_change,omitempty"`
	Volume      *float64 `json:"volume,omitempty"`
	Avg5Price   *float64 `json:"avg5_price,omitempty"`
	Avg5Volume  *float64 `json:"avg5_volume,omitempty"`
	AvgVolume20 *float64 `json:"avg_volume20,omitempty"`
	VolRatio    *float64 `json:"vol_ratio,omitempty"`

	SMA20      *float64 `json:"sma20,omitempty"`
	SMA50      *float64 `json:"sma50,omitempty"`
	SMA200     *float64 `json:"sma200,omitempty"`
	RSI14      *float64 `json:"rsi14,omitempty"`
	MACD       *float64 `json:"macd,omitempty"`
	MACDSignal *float64 `json:"macd_signal,omitempty"`
	ATR14      *float64 `json:"atr14,omitempty"`

	ForeignBuy  *float64 `json:"foreign_buy,omitempty"`
	ForeignSell *float64 `json:"foreign_sell,omitempty"`

	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"` // fetch time, not market time
}

// HasPrice reports whether the defining field is present
func (r SymbolRecord) HasPrice() bool {
	return r.Price != nil
}

// HasForeignFlow reports whether either foreign side is present
func (r SymbolRecord) HasForeignFlow() bool {
	return r.ForeignBuy != nil || r.ForeignSell != nil
}

// NetFlow returns foreign buy - sell (see NetFlow)
func (r SymbolRecord) NetFlow() *float64 {
	return NetFlow(r.ForeignBuy, r.ForeignSell)
}

// IsEmpty reports whether the record carries neither a price nor foreign flow
func (r SymbolRecord) IsEmpty() bool {
	return !r.HasPrice() && !r.HasForeignFlow()
}

// Clone returns a deep copy that shares no numeric fields with r
func (r SymbolRecord) Clone() SymbolRecord {
	c := r
	for _, f := range []**float64{
		&c.Price, &c.PctChange, &c.Volume, &c.Avg5Price, &c.Avg5Volume, &c.AvgVolume20, &c.VolRatio,
		&c.SMA20, &c.SMA50, &c.SMA200, &c.RSI14, &c.MACD, &c.MACDSignal, &c.ATR14,
		&c.ForeignBuy, &c.ForeignSell,
	} {
		*f = clonePtr(*f)
	}
	return c
}

// MarketRecord is the canonical market-wide snapshot (index level, turnover, foreign totals)
type MarketRecord struct {
	Index string `json:"index"`

	Price       *float64 `json:"price,omitempty"` // index level
	PctChange   *float64 `json:"pct_change,omitempty"`
	ForeignBuy  *float64 `json:"foreign_buy,omitempty"`
	ForeignSell *float64 `json:"foreign_sell,omitempty"`
	GTGD        *float64 `json:"gtgd,omitempty"` // giá trị giao dịch (turnover)

	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// HasPrice reports whether the index level is present
func (r MarketRecord) HasPrice() bool {
	return r.Price != nil
}

// HasForeignFlow reports whether either foreign side is present
func (r MarketRecord) HasForeignFlow() bool {
	return r.ForeignBuy != nil || r.ForeignSell != nil
}

// NetFlow returns foreign buy - sell (see NetFlow)
func (r MarketRecord) NetFlow() *float64 {
	return NetFlow(r.ForeignBuy, r.ForeignSell)
}

// IsEmpty reports whether the record carries neither an index level nor foreign flow
func (r MarketRecord) IsEmpty() bool {
	return !r.HasPrice() && !r.HasForeignFlow()
}

// Clone returns a deep copy that shares no numeric fields with r
func (r MarketRecord) Clone() MarketRecord {
	c := r
	for _, f := range []**float64{&c.Price, &c.PctChange, &c.ForeignBuy, &c.ForeignSell, &c.GTGD} {
		*f = clonePtr(*f)
	}
	return c
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// NoSymbolData is the canonical "every source failed" record
func NoSymbolData(symbol string, at time.Time) SymbolRecord {
	return SymbolRecord{Symbol: symbol, Source: SourceNone, Timestamp: at}
}

// NoMarketData is the canonical "every source failed" market record
func NoMarketData(index string, at time.Time) MarketRecord {
	return MarketRecord{Index: index, Source: SourceNone, Timestamp: at}
}

// NetFlow derives net foreign flow on read. A missing side counts as 0;
// the result is nil only when both sides are missing. It is never stored so
// components cannot drift on the sign convention.
func NetFlow(buy, sell *float64) *float64 {
	if buy == nil && sell == nil {
		return nil
	}
	var net float64
	if buy != nil {
		net += *buy
	}
	if sell != nil {
		net -= *sell
	}
	return &net
}

// Float returns a pointer to v; helper for building optional fields
func Float(v float64) *float64 {
	return &v
}
