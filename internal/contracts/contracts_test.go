package contracts

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetFlow(t *testing.T) {
	assert.Nil(t, NetFlow(nil, nil))
	assert.Equal(t, 100.0, *NetFlow(Float(100), nil))
	assert.Equal(t, -40.0, *NetFlow(nil, Float(40)))
	assert.Equal(t, 60.0, *NetFlow(Float(100), Float(40)))
}

func TestCloneSharesNoFields(t *testing.T) {
	rec := SymbolRecord{Symbol: "MBB", Price: Float(21.5), RSI14: Float(55), Source: "yahoo"}
	c := rec.Clone()
	*c.Price = 0
	*c.RSI14 = 0

	assert.Equal(t, 21.5, *rec.Price)
	assert.Equal(t, 55.0, *rec.RSI14)
	assert.Nil(t, c.Volume)
	assert.Equal(t, "yahoo", c.Source)

	m := MarketRecord{Index: "VNINDEX", GTGD: Float(12e9)}
	mc := m.Clone()
	*mc.GTGD = 1
	assert.Equal(t, 12e9, *m.GTGD)
	assert.Nil(t, mc.Price)
}

func TestRecordPredicates(t *testing.T) {
	now := time.Now()

	empty := NoSymbolData("MBB", now)
	assert.Equal(t, SourceNone, empty.Source)
	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.HasPrice())

	flowOnly := SymbolRecord{Symbol: "MBB", ForeignSell: Float(5)}
	assert.True(t, flowOnly.HasForeignFlow())
	assert.False(t, flowOnly.IsEmpty())

	market := NoMarketData("VNINDEX", now)
	assert.Equal(t, "VNINDEX", market.Index)
	assert.True(t, market.IsEmpty())
	market.Price = Float(1250)
	assert.True(t, market.HasPrice())
}

func TestNewPriceSeries(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

	s := NewPriceSeries([]Bar{
		{Time: day(3), Close: 30},
		{Time: day(1), Close: 10},
		{Time: day(2), Close: math.NaN()},
		{Time: day(3), Close: 31},
		{Time: day(4), Close: math.Inf(1)},
	})

	require.Equal(t, 2, s.Len())
	assert.Equal(t, []float64{10, 31}, s.Closes())

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, day(3), last.Time)

	_, ok = PriceSeries(nil).Last()
	assert.False(t, ok)
}
