package fetch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/cache"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/contracts"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/indicator"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/normalize"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/source"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/logger"
)

// MarketKey is the cache key of the market record
const MarketKey = "market"

// SymbolKey returns the cache key of a symbol record
func SymbolKey(code string) string {
	return "sym_" + code
}

// Config holds orchestrator configuration
type Config struct {
	MarketIndex string
	SymbolTTL   time.Duration
	MarketTTL   time.Duration
	Workers     int

	// FetchTimeout bounds one shared fetch, which outlives the caller that started it
	FetchTimeout time.Duration
}

// DefaultFetchTimeout is used when Config.FetchTimeout is not set
const DefaultFetchTimeout = 90 * time.Second

// Orchestrator runs the fallback chains and owns the record cache
// ⭐ SSOT: source fallback order is decided here only
type Orchestrator struct {
	cfg          Config
	symbolStages []SymbolStage
	marketStages []MarketStage
	normalizer   *normalize.Normalizer
	symbols      *cache.TTLCache[contracts.SymbolRecord]
	market       *cache.TTLCache[contracts.MarketRecord]
	group        singleflight.Group
	now          func() time.Time
	logger       *logger.Logger
}

// New creates an orchestrator using the wall clock
func New(cfg Config, symbolStages []SymbolStage, marketStages []MarketStage, log *logger.Logger) *Orchestrator {
	return NewWithClock(cfg, symbolStages, marketStages, time.Now, log)
}

// NewWithClock creates an orchestrator with an injected clock shared by the cache and normalizer
func NewWithClock(cfg Config, symbolStages []SymbolStage, marketStages []MarketStage, now func() time.Time, log *logger.Logger) *Orchestrator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.MarketIndex == "" {
		cfg.MarketIndex = "VNINDEX"
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	log = log.WithField("module", "fetch")

	return &Orchestrator{
		cfg:          cfg,
		symbolStages: symbolStages,
		marketStages: marketStages,
		normalizer:   normalize.NewWithClock(now),
		symbols:      cache.NewWithClock[contracts.SymbolRecord](now, log),
		market:       cache.NewWithClock[contracts.MarketRecord](now, log),
		now:          now,
		logger:       log,
	}
}

// MarketIndex returns the configured market identifier
func (o *Orchestrator) MarketIndex() string {
	return o.cfg.MarketIndex
}

// Symbol returns the record for code from the cache or the first accepting source.
// When every source fails it returns NoSymbolData, which is not cached.
func (o *Orchestrator) Symbol(ctx context.Context, code string) contracts.SymbolRecord {
	key := SymbolKey(code)
	if rec, ok := o.symbols.Get(key); ok {
		return rec.Clone()
	}

	v, _, _ := o.group.Do(key, func() (interface{}, error) {
		if rec, ok := o.symbols.Get(key); ok {
			return rec, nil
		}

		fetchCtx, cancel := o.detach(ctx)
		defer cancel()

		rec, ok := o.fetchSymbol(fetchCtx, code)
		if ok {
			o.symbols.Set(key, rec.Clone(), o.cfg.SymbolTTL)
		}
		return rec, nil
	})
	return v.(contracts.SymbolRecord).Clone()
}

func (o *Orchestrator) fetchSymbol(ctx context.Context, code string) (contracts.SymbolRecord, bool) {
	for _, stage := range o.symbolStages {
		if ctx.Err() != nil {
			break
		}

		name := stage.Source.Name()
		raw, err := guard(name, func() (source.Raw, error) {
			return stage.Source.FetchSymbol(ctx, code)
		})
		if err != nil {
			o.logFailure(err, name, code)
			continue
		}

		rec := o.normalizer.Symbol(raw.Payload, name)
		rec = indicator.Compute(raw.Series).Apply(rec)
		rec.Symbol = code

		if !stage.Accept(rec) {
			o.logger.WithFields(map[string]interface{}{
				"source": name,
				"symbol": code,
			}).Debug("Source response rejected")
			continue
		}

		o.logger.WithFields(map[string]interface{}{
			"source": name,
			"symbol": code,
		}).Debug("Symbol fetched")
		return rec, true
	}

	o.logger.WithField("symbol", code).Warn("All sources failed for symbol")
	return contracts.NoSymbolData(code, o.now()), false
}

// Market returns the market record from the cache or the first accepting source.
// When every source fails it returns NoMarketData, which is not cached.
func (o *Orchestrator) Market(ctx context.Context) contracts.MarketRecord {
	if rec, ok := o.market.Get(MarketKey); ok {
		return rec.Clone()
	}

	v, _, _ := o.group.Do(MarketKey, func() (interface{}, error) {
		if rec, ok := o.market.Get(MarketKey); ok {
			return rec, nil
		}

		fetchCtx, cancel := o.detach(ctx)
		defer cancel()

		rec, ok := o.fetchMarket(fetchCtx)
		if ok {
			o.market.Set(MarketKey, rec.Clone(), o.cfg.MarketTTL)
		}
		return rec, nil
	})
	return v.(contracts.MarketRecord).Clone()
}

func (o *Orchestrator) fetchMarket(ctx context.Context) (contracts.MarketRecord, bool) {
	index := o.cfg.MarketIndex

	for _, stage := range o.marketStages {
		if ctx.Err() != nil {
			break
		}

		name := stage.Source.Name()
		raw, err := guard(name, func() (source.Raw, error) {
			return stage.Source.FetchMarket(ctx, index)
		})
		if err != nil {
			o.logFailure(err, name, index)
			continue
		}

		rec := o.normalizer.Market(raw.Payload, name)
		rec.Index = index
		if raw.Series.Len() > 0 {
			snap := indicator.Compute(raw.Series)
			if rec.Price == nil {
				rec.Price = snap.Price
			}
			if rec.PctChange == nil {
				rec.PctChange = snap.PctChange
			}
		}

		if !stage.Accept(rec) {
			o.logger.WithField("source", name).Debug("Market response rejected")
			continue
		}

		o.logger.WithField("source", name).Debug("Market fetched")
		return rec, true
	}

	o.logger.WithField("index", index).Warn("All sources failed for market")
	return contracts.NoMarketData(index, o.now()), false
}

// Symbols fetches codes on a bounded worker pool; the result keeps the order of codes
func (o *Orchestrator) Symbols(ctx context.Context, codes []string) []contracts.SymbolRecord {
	results := make([]contracts.SymbolRecord, len(codes))
	if len(codes) == 0 {
		return results
	}

	workers := o.cfg.Workers
	if workers > len(codes) {
		workers = len(codes)
	}

	jobs := make(chan int, len(codes))
	for i := range codes {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = o.Symbol(ctx, codes[i])
			}
		}()
	}
	wg.Wait()

	return results
}

// Snapshot is one market record plus the watchlist records, fetched together
type Snapshot struct {
	Market  contracts.MarketRecord   `json:"market"`
	Symbols []contracts.SymbolRecord `json:"symbols"`
	At      time.Time                `json:"at"`
}

// Snapshot fetches the market and the symbols concurrently
func (o *Orchestrator) Snapshot(ctx context.Context, codes []string) Snapshot {
	var snap Snapshot
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		snap.Market = o.Market(ctx)
	}()

	snap.Symbols = o.Symbols(ctx, codes)
	wg.Wait()

	snap.At = o.now()
	return snap
}

// Invalidate drops every cached record
func (o *Orchestrator) Invalidate() {
	o.symbols.Clear()
	o.market.Clear()
}

// CacheStats returns symbol and market cache statistics
func (o *Orchestrator) CacheStats() (symbols, market cache.Stats) {
	return o.symbols.Stats(), o.market.Stats()
}

func (o *Orchestrator) logFailure(err error, name, entity string) {
	l := o.logger.WithError(err).WithFields(map[string]interface{}{
		"source": name,
		"entity": entity,
		"kind":   source.KindOf(err),
	})
	if source.Quiet(err) {
		l.Debug("Source skipped")
		return
	}
	l.Warn("Source failed, falling back")
}

// detach keeps a shared fetch alive when the caller that started it goes away;
// other waiters on the same key still need the result.
func (o *Orchestrator) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), o.cfg.FetchTimeout)
}

// guard converts an adapter panic into a FetchError so the chain keeps going
func guard(name string, fn func() (source.Raw, error)) (raw source.Raw, err error) {
	defer func() {
		if r := recover(); r != nil {
			raw = source.Raw{}
			err = source.Errorf(name, source.KindUnknown, "panic: %v", r)
		}
	}()
	return fn()
}
