package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/contracts"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/fetch"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/config"
)

var thresholds = config.AlertConfig{PctUp: 3, PctDown: -3, VolumeSurge: 2}

func f(v float64) *float64 { return &v }

func TestFormatters(t *testing.T) {
	assert.Equal(t, Dash, Money(nil))
	assert.Equal(t, "12,500 Mn", Money(f(12_500_000_000)))
	assert.Equal(t, "1.50 Mn", Shares(f(1_500_000)))
	assert.Equal(t, "+1.25%", Pct(f(1.25)))
	assert.Equal(t, "-3.50%", Pct(f(-3.5)))
	assert.Equal(t, "23,450", Price(f(23450)))
	assert.Equal(t, "23.45", Price(f(23.45)))
	assert.Equal(t, "2.35×", Ratio(2.346))
}

func TestAlerts(t *testing.T) {
	recs := []contracts.SymbolRecord{
		{Symbol: "MBB", PctChange: f(3.0), VolRatio: f(2.5)},
		{Symbol: "HPG", PctChange: f(-4.1)},
		{Symbol: "SSI", PctChange: f(1.0), VolRatio: f(1.9)},
		{Symbol: "PVP"},
	}

	got := Alerts(recs, thresholds)
	require.Len(t, got, 3)
	assert.Equal(t, Alert{Symbol: "MBB", Kind: AlertPriceUp, Value: 3.0}, got[0])
	assert.Equal(t, AlertVolumeSurge, got[1].Kind)
	assert.Equal(t, "HPG", got[2].Symbol)
	assert.Equal(t, "🔻 HPG giảm -4.10%", got[2].String())
}

func TestBuild(t *testing.T) {
	b, err := NewBuilder(thresholds, "Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	snap := fetch.Snapshot{
		At: time.Date(2024, 5, 6, 2, 30, 0, 0, time.UTC),
		Market: contracts.MarketRecord{
			Index:       "VNINDEX",
			Price:       f(1250.356),
			PctChange:   f(0.5),
			GTGD:        f(15_000_000_000_000),
			ForeignBuy:  f(900_000_000_000),
			ForeignSell: f(1_000_000_000_000),
			Source:      "yahoo",
		},
		Symbols: []contracts.SymbolRecord{
			{
				Symbol: "MBB", Price: f(23450), PctChange: f(3.2), Volume: f(5_000_000),
				VolRatio: f(2.1), Avg5Price: f(23000), Avg5Volume: f(2_400_000),
				ForeignBuy: f(12_500_000_000), Source: "yahoo",
			},
			contracts.NoSymbolData("QTP", time.Now()),
		},
	}

	got := b.Build(snap)
	lines := strings.Split(got, "\n")

	assert.Equal(t, "📊 Báo cáo thị trường — 2024-05-06 09:30:00", lines[0])
	assert.Equal(t, "📈 VN-Index: 1250.36 +0.50% | GTGD: 15,000,000 Mn", lines[1])
	assert.Equal(t, "🔁 Khối ngoại (toàn TT): Mua 900,000 Mn / Bán 1,000,000 Mn → Ròng -100,000 Mn", lines[2])
	assert.Contains(t, got, "📌 Chi tiết mã:")
	assert.Contains(t, got, "MBB: 23,450 +3.20% | KL=5.00 Mn (VolRatio=2.10×) | TB tuần: 23,000 / 2.40 Mn | NN: Mua 12,500 Mn / Bán —")
	assert.Contains(t, got, "QTP: — (lỗi dữ liệu)")
	assert.Contains(t, got, "🚀 MBB tăng +3.20%")
	assert.Contains(t, got, "📢 MBB khối lượng đột biến (VolRatio=2.10×)")
	assert.True(t, strings.HasSuffix(got, "(Thời gian báo cáo: 2024-05-06 09:30:00) - vn-reporter"))
}

func TestBuildWithoutMarketData(t *testing.T) {
	b, err := NewBuilder(thresholds, "")
	require.NoError(t, err)

	got := b.Build(fetch.Snapshot{Market: contracts.NoMarketData("VNINDEX", time.Now())})
	assert.Contains(t, got, "📈 VN-Index: — (lỗi dữ liệu)")
	assert.Contains(t, got, "🔁 Khối ngoại (toàn TT): —")
	assert.Contains(t, got, "(không có)")
}

func TestNewBuilderBadTimezone(t *testing.T) {
	_, err := NewBuilder(thresholds, "Mars/Olympus")
	assert.Error(t, err)
}
