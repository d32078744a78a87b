package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/source"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/config"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/httputil"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/logger"
)

const chartBody = `{"chart":{"result":[{
	"meta":{"symbol":"MBB.VN","currency":"VND","regularMarketPrice":23450,"chartPreviousClose":22000,"regularMarketVolume":1500000},
	"timestamp":[1704171600,1704258000,1704344400],
	"indicators":{"quote":[{
		"open":[23000,23100,null],
		"high":[23200,23300,null],
		"low":[22900,23000,null],
		"close":[23100,23300,null],
		"volume":[1000000,1200000,null]
	}]}
}],"error":null}}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient := httputil.New(&config.Config{}, logger.Nop()).DisableRetry()
	return NewClient(httpClient, logger.Nop(), srv.URL)
}

func TestTicker(t *testing.T) {
	assert.Equal(t, "MBB.VN", Ticker("mbb"))
	assert.Equal(t, "^VNINDEX", Ticker("VNINDEX"))
	assert.Equal(t, "^GSPC", Ticker("^GSPC"))
	assert.Equal(t, "HPG.VN", Ticker("HPG.VN"))
}

func TestParseChart(t *testing.T) {
	chart, err := parseChart([]byte(chartBody))
	require.NoError(t, err)

	assert.Equal(t, "MBB.VN", chart.Meta.Symbol)
	require.Equal(t, 2, chart.Series.Len(), "null close dropped")
	assert.Equal(t, []float64{23100, 23300}, chart.Series.Closes())
	assert.Equal(t, []float64{1000000, 1200000}, chart.Series.Volumes())
}

func TestParseChartErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind source.Kind
	}{
		{"not json", `<html>`, source.KindDecode},
		{"api error", `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, source.KindEmpty},
		{"no result", `{"chart":{"result":[]}}`, source.KindEmpty},
		{"no bars no price", `{"chart":{"result":[{"meta":{"symbol":"X.VN"}}]}}`, source.KindEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseChart([]byte(tt.body))
			require.Error(t, err)
			assert.Equal(t, tt.kind, source.KindOf(err))
		})
	}
}

func TestFetchSymbolFallsBackToShorterWindow(t *testing.T) {
	var mu sync.Mutex
	var ranges []string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/MBB.VN", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))

		mu.Lock()
		ranges = append(ranges, r.URL.Query().Get("range"))
		mu.Unlock()

		if r.URL.Query().Get("range") == "365d" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, chartBody)
	})

	raw, err := c.FetchSymbol(context.Background(), "MBB")
	require.NoError(t, err)

	assert.Equal(t, []string{"365d", "240d"}, ranges)
	assert.Equal(t, 2, raw.Series.Len())

	price, ok := raw.Payload.Lookup("regularMarketPrice")
	require.True(t, ok)
	assert.Equal(t, 23450.0, price)
}

func TestFetchSymbolAllWindowsFail(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"chart":{"result":[]}}`)
	}).WithWindows(10, 5)

	_, err := c.FetchSymbol(context.Background(), "NEW")
	require.Error(t, err)
	assert.Equal(t, source.KindEmpty, source.KindOf(err))
	assert.Equal(t, 2, calls)
}

func TestFetchMarketUsesIndexTicker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/^VNINDEX", r.URL.Path)
		fmt.Fprint(w, chartBody)
	})

	raw, err := c.FetchMarket(context.Background(), "VNINDEX")
	require.NoError(t, err)
	assert.NotNil(t, raw.Payload)
}

func TestFetchStopsOnCancelledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchSymbol(ctx, "MBB")
	require.Error(t, err)
	assert.Equal(t, source.KindNetwork, source.KindOf(err))
}
