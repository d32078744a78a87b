package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)}
}

func TestSetGetRoundTrip(t *testing.T) {
	clock := newClock()
	c := NewWithClock[string](clock.Now, nil)

	c.Set("sym_MBB", "v1", 30*time.Second)

	clock.Advance(29 * time.Second)
	got, ok := c.Get("sym_MBB")
	require.True(t, ok)
	assert.Equal(t, "v1", got)
}

func TestExpiredEntryIsNotResurrected(t *testing.T) {
	clock := newClock()
	c := NewWithClock[int](clock.Now, nil)

	c.Set("market", 1, 50*time.Second)
	clock.Advance(50 * time.Second)

	_, ok := c.Get("market")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry deleted on lookup")

	_, ok = c.Get("market")
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, int64(1), stats.Evicted)
}

func TestSetReplaces(t *testing.T) {
	clock := newClock()
	c := NewWithClock[int](clock.Now, nil)

	c.Set("k", 1, time.Second)
	clock.Advance(900 * time.Millisecond)
	c.Set("k", 2, time.Second)
	clock.Advance(900 * time.Millisecond)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestNonPositiveTTLStoresNothing(t *testing.T) {
	c := New[int](nil)
	c.Set("k", 1, 0)
	assert.Equal(t, 0, c.Len())
}

func TestDeleteAndClear(t *testing.T) {
	c := New[int](nil)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestStats(t *testing.T) {
	clock := newClock()
	c := NewWithClock[int](clock.Now, nil)
	c.Set("short", 1, time.Second)
	c.Set("long", 2, time.Hour)
	clock.Advance(2 * time.Second)

	_, _ = c.Get("long")

	stats := c.Stats()
	assert.Equal(t, 2, stats.TotalCount)
	assert.Equal(t, 1, stats.StaleCount)
	assert.Equal(t, 1, stats.FreshCount)
	assert.Equal(t, int64(1), stats.Hits)
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int](nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("sym_%d", i%4)
			c.Set(key, i, time.Minute)
			_, _ = c.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, c.Len())
}
