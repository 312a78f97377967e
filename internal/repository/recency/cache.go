// Package recency keeps the most recently requested restaurants in memory
// in front of the external id lookup.
package recency

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/restodex/internal/cache/lru"
	domrest "github.com/kailas-cloud/restodex/internal/domain/restaurant"
)

// DefaultCapacity is the number of records kept.
const DefaultCapacity = 10

// finder is the consumer interface for uncached lookups (ISP).
type finder interface {
	GetByExternalID(ctx context.Context, id string) (domrest.Record, error)
}

// Cache is a fixed-capacity LRU decorator over a finder. Only successful
// lookups are cached; not-found results and failures leave it unchanged.
type Cache struct {
	inner   finder
	entries *lru.Cache[string, domrest.Record]
	group   singleflight.Group
	logger  *zap.Logger
	timeout time.Duration

	// joined runs after a miss has registered with the load group. Tests only.
	joined func()

	cacheTotal *prometheus.CounterVec
	evictions  prometheus.Counter
	size       prometheus.Gauge
}

// Option configures a Cache.
type Option func(*Cache)

// WithMetrics attaches hit/miss, eviction and size collectors. Any may be nil.
func WithMetrics(cacheTotal *prometheus.CounterVec, evictions prometheus.Counter, size prometheus.Gauge) Option {
	return func(c *Cache) {
		c.cacheTotal = cacheTotal
		c.evictions = evictions
		c.size = size
	}
}

// WithLoadTimeout bounds a shared store load. The load does not inherit the
// cancellation of the caller that started it, so this is its only deadline.
func WithLoadTimeout(d time.Duration) Option {
	return func(c *Cache) { c.timeout = d }
}

// New creates a cache holding at most capacity records.
func New(inner finder, capacity int, logger *zap.Logger, opts ...Option) (*Cache, error) {
	c := &Cache{inner: inner, logger: logger}
	for _, opt := range opts {
		opt(c)
	}

	entries, err := lru.New[string, domrest.Record](capacity, lru.WithEvictFunc[string, domrest.Record](c.onEvict))
	if err != nil {
		return nil, fmt.Errorf("recency cache: %w", err)
	}
	c.entries = entries
	return c, nil
}

// GetByExternalID returns the cached record or loads it from the inner finder.
// Concurrent misses for one id share a single inner call. Each caller waits
// on its own ctx; one caller giving up does not fail the others.
func (c *Cache) GetByExternalID(ctx context.Context, id string) (domrest.Record, error) {
	if rec, ok := c.entries.Get(id); ok {
		c.inc("hit")
		return rec, nil
	}
	c.inc("miss")

	ch := c.group.DoChan(id, func() (any, error) {
		return c.load(context.WithoutCancel(ctx), id)
	})
	if c.joined != nil {
		c.joined()
	}

	select {
	case res := <-ch:
		if res.Err != nil {
			return domrest.Record{}, res.Err //nolint:wrapcheck // inner errors already carry context
		}
		return res.Val.(domrest.Record), nil
	case <-ctx.Done():
		return domrest.Record{}, ctx.Err() //nolint:wrapcheck // caller's own cancellation
	}
}

func (c *Cache) load(ctx context.Context, id string) (domrest.Record, error) {
	// a caller that finished just before us may have filled the slot
	if rec, ok := c.entries.Get(id); ok {
		return rec, nil
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	rec, err := c.inner.GetByExternalID(ctx, id)
	if err != nil {
		return domrest.Record{}, err //nolint:wrapcheck // inner errors already carry context
	}
	c.entries.Add(id, rec)
	c.observeSize()
	return rec, nil
}

// Len returns the number of cached records.
func (c *Cache) Len() int { return c.entries.Len() }

// Keys returns cached ids from least to most recently used.
func (c *Cache) Keys() []string { return c.entries.Keys() }

// Contains reports whether id is cached without touching its recency.
func (c *Cache) Contains(id string) bool {
	_, ok := c.entries.Peek(id)
	return ok
}

func (c *Cache) onEvict(id string, _ domrest.Record) {
	if c.evictions != nil {
		c.evictions.Inc()
	}
	c.logger.Debug("Evicted restaurant from recency cache", zap.String("id", id))
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *Cache) observeSize() {
	if c.size != nil {
		c.size.Set(float64(c.entries.Len()))
	}
}
