package warehouse

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/contracts"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/payload"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/source"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/logger"
)

// Name identifies this adapter in records and logs
const Name = "warehouse"

// DefaultBars is enough history for SMA200 with headroom
const DefaultBars = 400

// Querier is the read side of pgxpool.Pool
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Source reads end-of-day bars from a Postgres warehouse. Read only.
// ⭐ SSOT: data.daily_prices 조회는 여기서만
type Source struct {
	db     Querier
	logger *logger.Logger
	bars   int
}

// New creates a warehouse source over db
func New(db Querier, log *logger.Logger) *Source {
	return &Source{
		db:     db,
		logger: log.WithField("source", Name),
		bars:   DefaultBars,
	}
}

// Name returns the adapter name
func (s *Source) Name() string { return Name }

// FetchSymbol loads recent bars for a ticker; the payload carries only the code
// so every figure is derived from the series.
func (s *Source) FetchSymbol(ctx context.Context, symbol string) (source.Raw, error) {
	code := strings.ToUpper(strings.TrimSpace(symbol))

	series, err := s.LoadSeries(ctx, code, s.bars)
	if err != nil {
		return source.Raw{}, err
	}
	if series.Len() == 0 {
		return source.Raw{}, source.Errorf(Name, source.KindEmpty, "no bars for %s", code)
	}

	return source.Raw{
		Payload: payload.NewStructured(payload.Field{Name: "symbol", Value: code}),
		Series:  series,
	}, nil
}

// LoadSeries returns the last limit bars for code, oldest first
func (s *Source) LoadSeries(ctx context.Context, code string, limit int) (contracts.PriceSeries, error) {
	query := `
		SELECT trade_date, open_price::float8, high_price::float8, low_price::float8,
		       close_price::float8, volume::float8
		FROM (
			SELECT trade_date, open_price, high_price, low_price, close_price, volume
			FROM data.daily_prices
			WHERE stock_code = $1
			ORDER BY trade_date DESC
			LIMIT $2
		) recent
		ORDER BY trade_date ASC
	`

	rows, err := s.db.Query(ctx, query, code, limit)
	if err != nil {
		return nil, source.NewError(Name, source.KindNetwork, fmt.Errorf("query daily prices: %w", err))
	}
	defer rows.Close()

	bars, err := scanBars(rows)
	if err != nil {
		return nil, source.NewError(Name, source.KindDecode, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"code":  code,
		"count": len(bars),
	}).Debug("Loaded warehouse bars")

	return contracts.NewPriceSeries(bars), nil
}

func scanBars(rows pgx.Rows) ([]contracts.Bar, error) {
	var bars []contracts.Bar
	for rows.Next() {
		var (
			date          time.Time
			o, h, l, c, v *float64
		)
		if err := rows.Scan(&date, &o, &h, &l, &c, &v); err != nil {
			return nil, fmt.Errorf("scan daily price: %w", err)
		}
		bars = append(bars, contracts.Bar{
			Time:   date,
			Open:   orNaN(o),
			High:   orNaN(h),
			Low:    orNaN(l),
			Close:  orNaN(c),
			Volume: orNaN(v),
		})
	}
	return bars, rows.Err()
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
