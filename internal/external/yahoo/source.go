package yahoo

import (
	"context"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/payload"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/source"
)

// FetchSymbol fetches quote and history for a ticker, walking HistoryWindows
// until a non-empty response arrives.
func (c *Client) FetchSymbol(ctx context.Context, symbol string) (source.Raw, error) {
	return c.fetch(ctx, Ticker(symbol))
}

// FetchMarket fetches the index level and history for a market identifier
func (c *Client) FetchMarket(ctx context.Context, index string) (source.Raw, error) {
	return c.fetch(ctx, Ticker(index))
}

func (c *Client) fetch(ctx context.Context, ticker string) (source.Raw, error) {
	var lastErr error = source.Errorf(Name, source.KindEmpty, "no history windows configured")

	for _, days := range c.windows {
		chart, err := c.FetchChart(ctx, ticker, days)
		if err == nil {
			return source.Raw{Payload: metaPayload(chart.Meta), Series: chart.Series}, nil
		}

		lastErr = err
		if !retryable(ctx, err) {
			break
		}

		c.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"days":   days,
			"kind":   source.KindOf(err),
		}).Debug("History window failed, trying shorter window")
	}

	return source.Raw{}, lastErr
}

// metaPayload exposes the chart meta in field order
func metaPayload(m Meta) payload.Structured {
	fields := []payload.Field{{Name: "symbol", Value: m.Symbol}}
	if m.RegularMarketPrice != nil {
		fields = append(fields, payload.Field{Name: "regularMarketPrice", Value: *m.RegularMarketPrice})
	}
	if m.ChartPreviousClose != nil {
		fields = append(fields, payload.Field{Name: "chartPreviousClose", Value: *m.ChartPreviousClose})
	}
	if m.RegularMarketVolume != nil {
		fields = append(fields, payload.Field{Name: "regularMarketVolume", Value: *m.RegularMarketVolume})
	}
	if m.Currency != "" {
		fields = append(fields, payload.Field{Name: "currency", Value: m.Currency})
	}
	return payload.NewStructured(fields...)
}
