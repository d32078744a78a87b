package contracts

import (
	"math"
	"sort"
	"time"
)

// Bar is one OHLCV observation. Missing prices are NaN.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is ordered oldest first with strictly increasing Time
type PriceSeries []Bar

// NewPriceSeries sorts bars, drops bars without a finite close and keeps the
// last bar for any duplicated timestamp, so the result satisfies the ordering invariant.
func NewPriceSeries(bars []Bar) PriceSeries {
	clean := make([]Bar, 0, len(bars))
	for _, b := range bars {
		if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) {
			continue
		}
		clean = append(clean, b)
	}

	sort.SliceStable(clean, func(i, j int) bool { return clean[i].Time.Before(clean[j].Time) })

	out := make(PriceSeries, 0, len(clean))
	for _, b := range clean {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

// Len returns the number of bars
func (s PriceSeries) Len() int { return len(s) }

// Last returns the newest bar
func (s PriceSeries) Last() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}
	return s[len(s)-1], true
}

// Closes returns the close column
func (s PriceSeries) Closes() []float64 {
	return s.column(func(b Bar) float64 { return b.Close })
}

// Highs returns the high column
func (s PriceSeries) Highs() []float64 {
	return s.column(func(b Bar) float64 { return b.High })
}

// Lows returns the low column
func (s PriceSeries) Lows() []float64 {
	return s.column(func(b Bar) float64 { return b.Low })
}

// Volumes returns the volume column
func (s PriceSeries) Volumes() []float64 {
	return s.column(func(b Bar) float64 { return b.Volume })
}

func (s PriceSeries) column(pick func(Bar) float64) []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = pick(b)
	}
	return out
}
