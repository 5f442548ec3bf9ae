package weather

import (
	"context"
	"log"
	"sync"
	"time"

	apperrors "daytodo/internal/errors"
	"daytodo/internal/model"
	"daytodo/internal/storage"
)

// TTL is the maximum age of a cached record before it must be refreshed.
const TTL = time.Hour

type Fetcher interface {
	Fetch(ctx context.Context) (model.Weather, error)
}

type FetcherFunc func(ctx context.Context) (model.Weather, error)

func (f FetcherFunc) Fetch(ctx context.Context) (model.Weather, error) {
	return f(ctx)
}

// Entry is the persisted form of the cache.
type Entry struct {
	Payload   model.Weather `json:"payload"`
	FetchedAt time.Time     `json:"fetchedAt"`
}

func (e Entry) Fresh(now time.Time) bool {
	return now.Sub(e.FetchedAt) < TTL
}

// Cache holds at most one weather record. Only one refresh may be outstanding at a time.
type Cache struct {
	mu         sync.Mutex
	adapter    *storage.Adapter
	logger     *log.Logger
	now        func() time.Time
	active     *Entry
	refreshing bool
	generation uint64
}

func NewCache(adapter *storage.Adapter, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.Default()
	}
	return &Cache{adapter: adapter, logger: logger, now: time.Now}
}

// SetClock replaces the wall clock used for staleness checks.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Load activates the persisted entry when it is still fresh. A stale, absent or unreadable
// entry leaves the cache empty.
func (c *Cache) Load(ctx context.Context) (bool, error) {
	var entry Entry
	found, err := c.adapter.LoadJSON(ctx, storage.SlotWeather, &entry)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
	if err != nil || !found {
		return false, err
	}
	if !entry.Fresh(c.now()) {
		c.logger.Printf("weather: cached record from %s is stale", entry.FetchedAt.Format(time.RFC3339))
		return false, nil
	}
	c.active = &entry
	return true, nil
}

// Current returns the active record and when it was fetched.
func (c *Cache) Current() (model.Weather, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return model.Weather{}, time.Time{}, false
	}
	return c.active.Payload, c.active.FetchedAt, true
}

// Stale reports whether the active record is missing or older than TTL.
func (c *Cache) Stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active == nil || !c.active.Fresh(c.now())
}

func (c *Cache) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshing
}

// Refresh fetches a new record and writes it through. A failed fetch keeps the previous
// record. A persistence failure after a successful fetch is logged and the new record is
// still activated. The write happens under the cache lock so it cannot land after a Reset.
func (c *Cache) Refresh(ctx context.Context, fetcher Fetcher) (model.Weather, error) {
	if fetcher == nil {
		return model.Weather{}, apperrors.ErrNoFetcher
	}

	c.mu.Lock()
	if c.refreshing {
		c.mu.Unlock()
		return model.Weather{}, apperrors.ErrRefreshInProgress
	}
	c.refreshing = true
	gen := c.generation
	c.mu.Unlock()

	payload, err := fetcher.Fetch(ctx)

	c.mu.Lock()
	c.refreshing = false
	if err != nil {
		c.mu.Unlock()
		c.logger.Printf("weather: fetch failed: %v", err)
		return model.Weather{}, apperrors.ExternalData(err)
	}
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Printf("weather: discarding refresh that finished after a clear")
		return model.Weather{}, nil
	}
	defer c.mu.Unlock()
	entry := Entry{Payload: payload, FetchedAt: c.now()}
	c.active = &entry
	_ = c.adapter.SaveJSON(ctx, storage.SlotWeather, entry)
	return payload, nil
}

// Reset drops the active record without touching storage. A refresh still in flight will not
// repopulate the cache.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
	c.generation++
}
