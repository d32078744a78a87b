package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/contracts"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/payload"
)

var fixed = time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC)

func newTestNormalizer() *Normalizer {
	return NewWithClock(func() time.Time { return fixed })
}

func TestSymbolAliasPrecedence(t *testing.T) {
	n := newTestNormalizer()

	rec := n.Symbol(payload.Mapping{"close": 100, "price": 200}, "yahoo")
	require.NotNil(t, rec.Price)
	assert.Equal(t, 200.0, *rec.Price)
	assert.Equal(t, "yahoo", rec.Source)
	assert.Equal(t, fixed, rec.Timestamp)
}

func TestSymbolSkipsUnusableAlias(t *testing.T) {
	n := newTestNormalizer()

	rec := n.Symbol(payload.Mapping{
		"price":  nil,
		"last":   "n/a",
		"close":  "23,450",
		"volume": "1.200.000", // not a number once cleaned
		"nmVol":  1200000,
		"pct":    "-1.5%",
	}, "scrape")

	require.NotNil(t, rec.Price)
	assert.Equal(t, 23450.0, *rec.Price)
	require.NotNil(t, rec.Volume)
	assert.Equal(t, 1200000.0, *rec.Volume)
	require.NotNil(t, rec.PctChange)
	assert.Equal(t, -1.5, *rec.PctChange)
}

func TestSymbolNilPayload(t *testing.T) {
	rec := newTestNormalizer().Symbol(nil, "vndirect")

	assert.Equal(t, contracts.SymbolRecord{Source: "vndirect", Timestamp: fixed}, rec)
}

func TestSymbolForeignFallback(t *testing.T) {
	n := newTestNormalizer()

	direct := n.Symbol(payload.Mapping{"fbuy": 10, "sell": 4}, "x")
	assert.Equal(t, 10.0, *direct.ForeignBuy)
	assert.Equal(t, 4.0, *direct.ForeignSell)

	extracted := n.Symbol(payload.Mapping{"buyVal": "1,000", "sellVal": "250"}, "vndirect")
	require.NotNil(t, extracted.ForeignBuy)
	assert.Equal(t, 1000.0, *extracted.ForeignBuy)
	require.NotNil(t, extracted.ForeignSell)
	assert.Equal(t, 250.0, *extracted.ForeignSell)
	assert.Nil(t, extracted.Price)
}

func TestSymbolStructured(t *testing.T) {
	rec := newTestNormalizer().Symbol(payload.NewStructured(
		payload.Field{Name: "symbol", Value: "mbb.vn"},
		payload.Field{Name: "regularMarketPrice", Value: 23.1},
		payload.Field{Name: "regularMarketVolume", Value: int64(5000)},
	), "yahoo")

	assert.Equal(t, "MBB.VN", rec.Symbol)
	assert.Equal(t, 23.1, *rec.Price)
	assert.Equal(t, 5000.0, *rec.Volume)
	assert.Nil(t, rec.ForeignBuy)
}

func TestMarket(t *testing.T) {
	rec := newTestNormalizer().Market(payload.Mapping{
		"index": "1,250.5",
		"fbuy":  "1.234",
		"fsell": "987",
		"value": 15000,
	}, "vietstock")

	assert.Equal(t, 1250.5, *rec.Price)
	assert.Equal(t, 1.234, *rec.ForeignBuy)
	assert.Equal(t, 987.0, *rec.ForeignSell)
	assert.Equal(t, 15000.0, *rec.GTGD)
	assert.Nil(t, rec.PctChange)
}

func TestNormalizeDispatch(t *testing.T) {
	n := newTestNormalizer()

	res := n.Normalize(payload.Mapping{"price": 1}, "a", contracts.KindMarket)
	assert.Nil(t, res.Symbol)
	require.NotNil(t, res.Market)

	res = n.Normalize(payload.Mapping{"price": 1}, "a", contracts.KindSymbol)
	assert.Nil(t, res.Market)
	require.NotNil(t, res.Symbol)
}
