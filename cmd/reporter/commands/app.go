package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/external/scrape"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/external/vndirect"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/external/warehouse"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/external/yahoo"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/fetch"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/notifier"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/report"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/source"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/config"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/database"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/httputil"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/logger"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/redis"
)

// app holds the wired components shared by every command
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	fetcher *fetch.Orchestrator
	builder *report.Builder
	sink    notifier.Sink

	closers []func()
}

// Close releases the database pool and the redis client
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newApp loads config and wires sources, cache, report builder and sink
func newApp(ctx context.Context) (*app, error) {
	// 1. Load config
	cfg, err := config.LoadWithFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)
	a := &app{cfg: cfg, log: log}

	// 3. Optional shared rate limiter
	var limiter *redis.RateLimiter
	if cfg.Redis.Enabled {
		rc, err := redis.New(cfg)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, using in-process rate limits")
		} else {
			limiter = redis.NewRateLimiter(rc, "vn-reporter")
			a.closers = append(a.closers, func() { _ = rc.Close() })
		}
	}

	// 4. Create HTTP clients
	newClient := func(rl redis.RateLimitConfig) *httputil.Client {
		c := httputil.New(cfg, log).WithRateLimit(cfg.Sources.RateLimit)
		if limiter != nil {
			c.WithRateLimiter(limiter, rl)
		}
		return c
	}
	scrapeClient := httputil.NewWithTimeout(cfg, log, cfg.Sources.ScrapeTimeout).DisableRetry()
	if limiter != nil {
		scrapeClient.WithRateLimiter(limiter, redis.ScrapeRateLimit)
	}

	// 5. Create sources
	sources := fetch.Sources{
		Primary: yahoo.NewClient(newClient(redis.YahooRateLimit), log, cfg.Sources.YahooBaseURL),
		Scrapers: []source.MarketSource{
			scrape.NewScraper(scrape.Vietstock(cfg.Sources.VietstockBaseURL), scrapeClient, log),
			scrape.NewScraper(scrape.Cafef(cfg.Sources.CafefBaseURL), scrapeClient, log),
		},
	}
	if cfg.Sources.EnableSecondary {
		sources.Secondary = vndirect.NewClient(newClient(redis.VNDirectRateLimit), log, cfg.Sources.VNDirectBaseURL, true)
	}

	// 6. Optional EOD warehouse
	db, err := database.New(ctx, cfg)
	switch {
	case err == nil:
		sources.Warehouse = warehouse.New(db.Pool, log)
		a.closers = append(a.closers, db.Close)
	case errors.Is(err, database.ErrNotConfigured):
	default:
		log.WithError(err).Warn("Warehouse unavailable, continuing without it")
	}

	symbolStages, marketStages := fetch.DefaultStages(sources)

	// 7. Create orchestrator
	a.fetcher = fetch.New(fetch.Config{
		MarketIndex: cfg.MarketIndex,
		SymbolTTL:   cfg.Cache.SymbolTTL,
		MarketTTL:   cfg.Cache.MarketTTL,
		Workers:     cfg.Sources.Workers,
	}, symbolStages, marketStages, log)

	// 8. Create report builder and sink
	a.builder, err = report.NewBuilder(cfg.Alerts, cfg.Timezone)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("report builder: %w", err)
	}

	telegramClient := httputil.NewWithTimeout(cfg, log, cfg.Telegram.Timeout)
	a.sink = notifier.New(cfg, telegramClient, log)

	log.WithFields(map[string]interface{}{
		"symbols":   len(cfg.Watchlist),
		"secondary": cfg.Sources.EnableSecondary,
		"warehouse": sources.Warehouse != nil,
		"telegram":  cfg.Telegram.Enabled(),
	}).Debug("Reporter wired")

	return a, nil
}
