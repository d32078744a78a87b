package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/contracts"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/fetch"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/config"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	noData     = "(lỗi dữ liệu)"
	signature  = "vn-reporter"
)

// Builder renders snapshots as the Telegram report text
// ⭐ SSOT: report layout is defined here only
type Builder struct {
	alerts config.AlertConfig
	loc    *time.Location
}

// NewBuilder creates a builder stamping times in timezone (e.g. Asia/Ho_Chi_Minh)
func NewBuilder(alerts config.AlertConfig, timezone string) (*Builder, error) {
	loc := time.UTC
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
		}
		loc = l
	}
	return &Builder{alerts: alerts, loc: loc}, nil
}

// Build renders the full report
func (b *Builder) Build(snap fetch.Snapshot) string {
	now := snap.At.In(b.loc).Format(timeLayout)

	lines := []string{fmt.Sprintf("📊 Báo cáo thị trường — %s", now)}
	lines = append(lines, b.marketLines(snap.Market)...)

	lines = append(lines, "", "📌 Chi tiết mã:")
	for _, rec := range snap.Symbols {
		lines = append(lines, SymbolLine(rec))
	}

	lines = append(lines, "", "⚠️ Alerts:")
	alerts := Alerts(snap.Symbols, b.alerts)
	if len(alerts) == 0 {
		lines = append(lines, "(không có)")
	}
	for _, a := range alerts {
		lines = append(lines, a.String())
	}

	lines = append(lines, "", fmt.Sprintf("(Thời gian báo cáo: %s) - %s", now, signature))
	return strings.Join(lines, "\n")
}

func (b *Builder) marketLines(m contracts.MarketRecord) []string {
	var lines []string

	name := "VN-Index"
	if m.Index != "" && m.Index != "VNINDEX" {
		name = m.Index
	}

	if m.HasPrice() {
		lines = append(lines, fmt.Sprintf("📈 %s: %.2f %s | GTGD: %s", name, *m.Price, Pct(m.PctChange), Money(m.GTGD)))
	} else {
		lines = append(lines, fmt.Sprintf("📈 %s: %s %s", name, Dash, noData))
	}

	if m.HasForeignFlow() {
		lines = append(lines, fmt.Sprintf("🔁 Khối ngoại (toàn TT): Mua %s / Bán %s → Ròng %s",
			Money(m.ForeignBuy), Money(m.ForeignSell), Money(m.NetFlow())))
	} else {
		lines = append(lines, "🔁 Khối ngoại (toàn TT): "+Dash)
	}

	return lines
}

// SymbolLine renders one watchlist entry
func SymbolLine(rec contracts.SymbolRecord) string {
	if !rec.HasPrice() && !rec.HasForeignFlow() {
		return fmt.Sprintf("%s: %s %s", rec.Symbol, Dash, noData)
	}

	ratio := ""
	if rec.VolRatio != nil {
		ratio = fmt.Sprintf(" (VolRatio=%s)", Ratio(*rec.VolRatio))
	}

	return fmt.Sprintf("%s: %s %s | KL=%s%s | TB tuần: %s / %s | NN: Mua %s / Bán %s",
		rec.Symbol, Price(rec.Price), Pct(rec.PctChange),
		Shares(rec.Volume), ratio,
		Price(rec.Avg5Price), Shares(rec.Avg5Volume),
		Money(rec.ForeignBuy), Money(rec.ForeignSell))
}
