package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/contracts"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/source"
)

// chartResponse is the response structure of /v8/finance/chart
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta       Meta    `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// Meta is the quote summary returned alongside the bars
type Meta struct {
	Symbol              string   `json:"symbol"`
	Currency            string   `json:"currency"`
	ExchangeName        string   `json:"exchangeName"`
	RegularMarketPrice  *float64 `json:"regularMarketPrice"`
	RegularMarketVolume *float64 `json:"regularMarketVolume"`
	ChartPreviousClose  *float64 `json:"chartPreviousClose"`
	PreviousClose       *float64 `json:"previousClose"`
	RegularMarketTime   int64    `json:"regularMarketTime"`
}

// Chart is one decoded chart response
type Chart struct {
	Meta   Meta
	Series contracts.PriceSeries
}

// Empty reports whether the chart carries neither bars nor a quote
func (c *Chart) Empty() bool {
	return c.Series.Len() == 0 && c.Meta.RegularMarketPrice == nil
}

// FetchChart fetches daily bars for ticker over the last days
func (c *Client) FetchChart(ctx context.Context, ticker string, days int) (*Chart, error) {
	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%dd",
		c.baseURL, url.PathEscape(ticker), days)

	body, err := c.get(ctx, fullURL)
	if err != nil {
		return nil, err
	}

	chart, err := parseChart(body)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"days":   days,
		"bars":   chart.Series.Len(),
	}).Debug("Fetched chart")

	return chart, nil
}

// parseChart decodes a chart body into meta and a cleaned series
func parseChart(body []byte) (*Chart, error) {
	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, source.NewError(Name, source.KindDecode, fmt.Errorf("decode chart: %w", err))
	}
	if resp.Chart.Error != nil {
		return nil, source.Errorf(Name, source.KindEmpty, "api error: %s", resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, source.Errorf(Name, source.KindEmpty, "no chart result")
	}

	result := resp.Chart.Result[0]
	chart := &Chart{Meta: result.Meta}

	if len(result.Indicators.Quote) > 0 {
		q := result.Indicators.Quote[0]
		bars := make([]contracts.Bar, 0, len(result.Timestamp))
		for i, ts := range result.Timestamp {
			bars = append(bars, contracts.Bar{
				Time:   time.Unix(ts, 0).UTC(),
				Open:   at(q.Open, i),
				High:   at(q.High, i),
				Low:    at(q.Low, i),
				Close:  at(q.Close, i),
				Volume: at(q.Volume, i),
			})
		}
		// null closes (holidays, halted sessions) are dropped here
		chart.Series = contracts.NewPriceSeries(bars)
	}

	if chart.Empty() {
		return nil, source.Errorf(Name, source.KindEmpty, "no data returned")
	}
	return chart, nil
}

// at returns values[i] or NaN when missing or null
func at(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return math.NaN()
	}
	return *values[i]
}
