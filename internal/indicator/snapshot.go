package indicator

import (
	"github.com/Alvic-maker/Telegram-bot-update1/internal/contracts"
)

// Snapshot holds the series-derived fields of a SymbolRecord
// ⭐ SSOT: indicators are computed here only
type Snapshot struct {
	Price       *float64
	PctChange   *float64
	Volume      *float64
	Avg5Price   *float64
	Avg5Volume  *float64
	AvgVolume20 *float64
	VolRatio    *float64
	SMA20       *float64
	SMA50       *float64
	SMA200      *float64
	RSI14       *float64
	MACD        *float64
	MACDSignal  *float64
	ATR14       *float64
}

// Compute derives every indicator it can from the series.
// Fields the series is too short for stay nil; an empty series yields an empty Snapshot.
func Compute(series contracts.PriceSeries) Snapshot {
	var s Snapshot
	last, ok := series.Last()
	if !ok {
		return s
	}

	closes := series.Closes()
	volumes := series.Volumes()

	prev := last.Close
	if len(closes) >= 2 {
		prev = closes[len(closes)-2]
	}
	s.Price = contracts.Float(last.Close)
	s.PctChange = contracts.Float(PctChange(last.Close, prev))
	if finite([]float64{last.Volume}) {
		s.Volume = contracts.Float(last.Volume)
	}

	s.Avg5Price = optional(SMA(closes, WeekWindow))
	s.Avg5Volume = optional(SMA(volumes, WeekWindow))
	s.SMA20 = optional(SMA(closes, 20))
	s.SMA50 = optional(SMA(closes, 50))
	s.SMA200 = optional(SMA(closes, 200))

	if avg, ok := SMA(volumes, VolumeWindow); ok {
		s.AvgVolume20 = contracts.Float(avg)
		if avg > 0 && s.Volume != nil {
			s.VolRatio = contracts.Float(*s.Volume / avg)
		}
	}

	s.RSI14 = optional(RSI(closes, RSIPeriod))

	if line, sig, ok := MACD(closes, MACDFast, MACDSlow, MACDSignal); ok {
		s.MACD = contracts.Float(line)
		s.MACDSignal = contracts.Float(sig)
	}

	s.ATR14 = optional(ATR(series.Highs(), series.Lows(), closes, ATRPeriod))

	return s
}

// Apply fills the absent fields of rec. Values already reported by the source win.
func (s Snapshot) Apply(rec contracts.SymbolRecord) contracts.SymbolRecord {
	fill(&rec.Price, s.Price)
	fill(&rec.PctChange, s.PctChange)
	fill(&rec.Volume, s.Volume)
	fill(&rec.Avg5Price, s.Avg5Price)
	fill(&rec.Avg5Volume, s.Avg5Volume)
	fill(&rec.AvgVolume20, s.AvgVolume20)
	fill(&rec.SMA20, s.SMA20)
	fill(&rec.SMA50, s.SMA50)
	fill(&rec.SMA200, s.SMA200)
	fill(&rec.RSI14, s.RSI14)
	fill(&rec.MACD, s.MACD)
	fill(&rec.MACDSignal, s.MACDSignal)
	fill(&rec.ATR14, s.ATR14)

	// the ratio must agree with the volume actually reported
	if rec.VolRatio == nil && rec.Volume != nil && rec.AvgVolume20 != nil && *rec.AvgVolume20 > 0 {
		rec.VolRatio = contracts.Float(*rec.Volume / *rec.AvgVolume20)
	}
	return rec
}

func fill(dst **float64, v *float64) {
	if *dst == nil && v != nil {
		c := *v
		*dst = &c
	}
}

func optional(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}
