package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alvic-maker/Telegram-bot-update1/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	client, err := New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)

	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())
}

func TestRateLimiter_Disabled(t *testing.T) {
	client, _ := New(&config.Config{})
	limiter := NewRateLimiter(client, "test")

	allowed, remaining, err := limiter.Allow(context.Background(), YahooRateLimit)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, YahooRateLimit.Limit, remaining)
	assert.NoError(t, limiter.Wait(context.Background(), YahooRateLimit))
}

func newMockLimiter(t *testing.T) (*RateLimiter, redismock.ClientMock, time.Time) {
	t.Helper()
	rdb, mock := redismock.NewClientMock()
	fixed := time.UnixMilli(1_700_000_000_000)
	limiter := NewRateLimiter(NewFromRedis(rdb), "vnr")
	limiter.now = func() time.Time { return fixed }
	return limiter, mock, fixed
}

func TestRateLimiter_Allowed(t *testing.T) {
	limiter, mock, now := newMockLimiter(t)
	cfg := VNDirectRateLimit

	mock.ExpectEvalSha(allowScript.Hash(), []string{"vnr:ratelimit:vndirect"},
		now.UnixMilli(), now.UnixMilli()-cfg.Window.Milliseconds(), cfg.Limit, cfg.Window.Milliseconds(),
	).SetVal([]interface{}{int64(1), int64(4)})

	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 4, remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_Rejected(t *testing.T) {
	limiter, mock, now := newMockLimiter(t)
	cfg := ScrapeRateLimit

	mock.ExpectEvalSha(allowScript.Hash(), []string{"vnr:ratelimit:scrape"},
		now.UnixMilli(), now.UnixMilli()-cfg.Window.Milliseconds(), cfg.Limit, cfg.Window.Milliseconds(),
	).SetVal([]interface{}{int64(0), int64(0)})

	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
}

func TestRateLimiter_ScriptError(t *testing.T) {
	limiter, mock, now := newMockLimiter(t)
	cfg := YahooRateLimit

	mock.ExpectEvalSha(allowScript.Hash(), []string{"vnr:ratelimit:yahoo"},
		now.UnixMilli(), now.UnixMilli()-cfg.Window.Milliseconds(), cfg.Limit, cfg.Window.Milliseconds(),
	).SetErr(errors.New("connection refused"))

	_, _, err := limiter.Allow(context.Background(), cfg)
	assert.Error(t, err)
}

func TestRateLimiter_SameMillisecondCountsEachRequest(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	fixed := time.UnixMilli(1_700_000_000_000)
	limiter := NewRateLimiter(NewFromRedis(rdb), "vnr")
	limiter.now = func() time.Time { return fixed }

	cfg := RateLimitConfig{Key: "burst", Limit: 2, Window: time.Second}
	ctx := context.Background()

	allowed, remaining, err := limiter.Allow(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)

	allowed, remaining, err = limiter.Allow(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, err = limiter.Allow(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, allowed, "third request in the same millisecond exceeds the limit")

	members, err := rdb.ZCard(ctx, "vnr:ratelimit:burst").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), members)
}
