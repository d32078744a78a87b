package report

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Dash marks an absent value
const Dash = "—"

var printer = message.NewPrinter(language.English)

// Money formats a VND amount in millions ("12,500 Mn")
func Money(v *float64) string {
	if v == nil {
		return Dash
	}
	return printer.Sprintf("%.0f Mn", *v/1_000_000)
}

// Shares formats a share count in millions with two decimals ("1.50 Mn")
func Shares(v *float64) string {
	if v == nil {
		return Dash
	}
	return printer.Sprintf("%.2f Mn", *v/1_000_000)
}

// Pct formats a signed percentage ("+1.25%")
func Pct(v *float64) string {
	if v == nil {
		return Dash
	}
	return printer.Sprintf("%+.2f%%", *v)
}

// Price formats a quote with thousands separators, dropping decimals for whole numbers
func Price(v *float64) string {
	if v == nil {
		return Dash
	}
	if *v == math.Trunc(*v) {
		return printer.Sprintf("%.0f", *v)
	}
	return printer.Sprintf("%.2f", *v)
}

// Ratio formats a volume ratio ("2.35×")
func Ratio(v float64) string {
	return printer.Sprintf("%.2f×", v)
}
