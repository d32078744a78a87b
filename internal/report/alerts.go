package report

import (
	"fmt"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/contracts"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/config"
)

// AlertKind names the rule that fired
type AlertKind string

const (
	AlertPriceUp     AlertKind = "price_up"
	AlertPriceDown   AlertKind = "price_down"
	AlertVolumeSurge AlertKind = "volume_surge"
)

// Alert is one threshold crossing for a symbol
type Alert struct {
	Symbol string    `json:"symbol"`
	Kind   AlertKind `json:"kind"`
	Value  float64   `json:"value"`
}

// String renders the alert line
func (a Alert) String() string {
	switch a.Kind {
	case AlertPriceUp:
		return fmt.Sprintf("🚀 %s tăng %s", a.Symbol, Pct(&a.Value))
	case AlertPriceDown:
		return fmt.Sprintf("🔻 %s giảm %s", a.Symbol, Pct(&a.Value))
	case AlertVolumeSurge:
		return fmt.Sprintf("📢 %s khối lượng đột biến (VolRatio=%s)", a.Symbol, Ratio(a.Value))
	default:
		return a.Symbol
	}
}

// Alerts evaluates the thresholds over recs in order. Absent fields never fire.
func Alerts(recs []contracts.SymbolRecord, th config.AlertConfig) []Alert {
	var out []Alert
	for _, r := range recs {
		if r.PctChange != nil {
			switch {
			case *r.PctChange >= th.PctUp:
				out = append(out, Alert{Symbol: r.Symbol, Kind: AlertPriceUp, Value: *r.PctChange})
			case *r.PctChange <= th.PctDown:
				out = append(out, Alert{Symbol: r.Symbol, Kind: AlertPriceDown, Value: *r.PctChange})
			}
		}
		if r.VolRatio != nil && *r.VolRatio >= th.VolumeSurge {
			out = append(out, Alert{Symbol: r.Symbol, Kind: AlertVolumeSurge, Value: *r.VolRatio})
		}
	}
	return out
}
