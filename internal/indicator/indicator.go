package indicator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Standard periods used by Compute
const (
	RSIPeriod    = 14
	ATRPeriod    = 14
	MACDFast     = 12
	MACDSlow     = 26
	MACDSignal   = 9
	VolumeWindow = 20
	WeekWindow   = 5
)

// SMA returns the arithmetic mean of the last n values.
// ok is false when fewer than n values exist or the window holds a non-finite value.
func SMA(values []float64, n int) (float64, bool) {
	if n <= 0 || len(values) < n {
		return 0, false
	}
	window := values[len(values)-n:]
	if !finite(window) {
		return 0, false
	}
	return stat.Mean(window, nil), true
}

// PctChange returns (last/prev - 1) * 100, or 0 when prev is 0
func PctChange(last, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (last/prev - 1) * 100
}

// EMA returns the exponential moving average series with alpha = 2/(span+1),
// seeded with the first value.
func EMA(values []float64, span int) []float64 {
	if span <= 0 {
		return nil
	}
	return ewm(values, 2/(float64(span)+1))
}

// ewm is the recursive form y0 = x0, yt = (1-alpha)*y(t-1) + alpha*xt
func ewm(values []float64, alpha float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = (1-alpha)*out[i-1] + alpha*values[i]
	}
	return out
}

// RSI returns the Wilder-smoothed relative strength index of closes.
// Requires period+1 closes; an average loss of exactly 0 yields 100.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 || !finite(closes) {
		return 0, false
	}

	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i-1] = d
		} else {
			losses[i-1] = -d
		}
	}

	alpha := 1 / float64(period)
	g := ewm(gains, alpha)
	l := ewm(losses, alpha)
	avgGain, avgLoss := g[len(g)-1], l[len(l)-1]

	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// MACD returns the latest MACD line (EMA fast - EMA slow) and its signal EMA.
// Absent below slow closes.
func MACD(closes []float64, fast, slow, signal int) (line, sig float64, ok bool) {
	if fast <= 0 || slow <= 0 || signal <= 0 || len(closes) < slow || !finite(closes) {
		return 0, 0, false
	}

	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)
	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	signalLine := EMA(macd, signal)

	return macd[len(macd)-1], signalLine[len(signalLine)-1], true
}

// ATR returns the mean of the last period true ranges.
// Requires period+1 rows with finite high, low and close across the window.
func ATR(highs, lows, closes []float64, period int) (float64, bool) {
	n := len(closes)
	if period <= 0 || n < period+1 || len(highs) != n || len(lows) != n {
		return 0, false
	}

	tr := make([]float64, 0, period)
	for i := n - period; i < n; i++ {
		h, l, pc := highs[i], lows[i], closes[i-1]
		if !finite([]float64{h, l, pc}) {
			return 0, false
		}
		tr = append(tr, math.Max(h-l, math.Max(math.Abs(h-pc), math.Abs(l-pc))))
	}
	return stat.Mean(tr, nil), true
}

func finite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
