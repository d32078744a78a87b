package jobs

import (
	"context"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/cache"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/logger"
)

// CacheStatsSource exposes the fetch caches' counters
type CacheStatsSource interface {
	CacheStats() (symbols, market cache.Stats)
}

// CacheStatsJob logs cache hit rates
type CacheStatsJob struct {
	source CacheStatsSource
	logger *logger.Logger
}

// NewCacheStatsJob creates a new cache stats job
func NewCacheStatsJob(source CacheStatsSource, log *logger.Logger) *CacheStatsJob {
	return &CacheStatsJob{
		source: source,
		logger: log,
	}
}

// Name returns the job name
func (j *CacheStatsJob) Name() string {
	return "cache_stats"
}

// Schedule returns the cron schedule (every 5 minutes)
func (j *CacheStatsJob) Schedule() string {
	return "0 */5 * * * *" // Every 5 minutes
}

// Run logs the current cache counters
func (j *CacheStatsJob) Run(ctx context.Context) error {
	symbols, market := j.source.CacheStats()

	if symbols.Hits+symbols.Misses+market.Hits+market.Misses == 0 {
		return nil
	}

	j.logger.WithFields(map[string]interface{}{
		"symbol_entries": symbols.TotalCount,
		"symbol_fresh":   symbols.FreshCount,
		"symbol_hits":    symbols.Hits,
		"symbol_misses":  symbols.Misses,
		"market_hits":    market.Hits,
		"market_misses":  market.Misses,
		"evicted":        symbols.Evicted + market.Evicted,
	}).Info("Cache stats")

	return nil
}
