// Package countcache memoizes match counts per predicate for a short TTL so
// paging through one result set does not recount on every page.
package countcache

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viccon/sturdyc"

	domrest "github.com/kailas-cloud/restodex/internal/domain/restaurant"
	"github.com/kailas-cloud/restodex/internal/domain/search/query"
)

// repository is the consumer interface (ISP).
type repository interface {
	Find(ctx context.Context, p query.Predicate, skip, limit int) ([]domrest.Record, error)
	Count(ctx context.Context, p query.Predicate) (int, error)
}

// Config holds sturdyc sizing.
type Config struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
}

// DefaultConfig returns sizing suitable for a single instance.
func DefaultConfig() Config {
	return Config{
		Capacity:           1000,
		NumShards:          8,
		TTL:                30 * time.Second,
		EvictionPercentage: 10,
	}
}

// Validate checks the sizing parameters.
func (c Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("count cache capacity must be positive")
	case c.NumShards <= 0:
		return fmt.Errorf("count cache shards must be positive")
	case c.TTL <= 0:
		return fmt.Errorf("count cache ttl must be positive")
	case c.EvictionPercentage < 1 || c.EvictionPercentage > 100:
		return fmt.Errorf("count cache eviction percentage must be between 1 and 100")
	}
	return nil
}

// Repo decorates a repository, caching Count results. Find passes through.
type Repo struct {
	inner      repository
	client     *sturdyc.Client[int]
	cacheTotal *prometheus.CounterVec
}

// New wraps inner. cacheTotal has label "result" ("hit"/"miss") and may be nil.
func New(inner repository, cfg Config, cacheTotal *prometheus.CounterVec) (*Repo, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Repo{
		inner:      inner,
		client:     sturdyc.New[int](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage),
		cacheTotal: cacheTotal,
	}, nil
}

// Find delegates to the inner repository.
func (r *Repo) Find(ctx context.Context, p query.Predicate, skip, limit int) ([]domrest.Record, error) {
	return r.inner.Find(ctx, p, skip, limit) //nolint:wrapcheck // transparent decorator
}

// Count returns a cached count or asks the inner repository. Errors are not cached.
func (r *Repo) Count(ctx context.Context, p query.Predicate) (int, error) {
	hit := true
	n, err := r.client.GetOrFetch(ctx, p.Key(), func(ctx context.Context) (int, error) {
		hit = false
		return r.inner.Count(ctx, p)
	})
	if err != nil {
		return 0, fmt.Errorf("count cache: %w", err)
	}
	if hit {
		r.inc("hit")
	} else {
		r.inc("miss")
	}
	return n, nil
}

func (r *Repo) inc(result string) {
	if r.cacheTotal != nil {
		r.cacheTotal.WithLabelValues(result).Inc()
	}
}
