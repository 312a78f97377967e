package restodex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/restodex/internal/db"
	dbMongo "github.com/kailas-cloud/restodex/internal/db/mongo"
	dbRedis "github.com/kailas-cloud/restodex/internal/db/redis"
	domrest "github.com/kailas-cloud/restodex/internal/domain/restaurant"
	"github.com/kailas-cloud/restodex/internal/repository/recency"
	restrepo "github.com/kailas-cloud/restodex/internal/repository/restaurant"
	healthuc "github.com/kailas-cloud/restodex/internal/usecase/health"
	restaurantuc "github.com/kailas-cloud/restodex/internal/usecase/restaurant"
	searchuc "github.com/kailas-cloud/restodex/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped for fakes in tests.
type searchUseCase interface {
	Search(ctx context.Context, term string, page int) searchuc.Result
}

type restaurantUseCase interface {
	Get(ctx context.Context, id string) (domrest.Record, bool)
}

// Client is the restodex SDK entry point.
type Client struct {
	store     db.Store
	searchSvc searchUseCase
	restSvc   restaurantUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the record store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("restodex: record store required (use WithMongo or WithRedis)")
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("restodex: database not ready: %w", err)
	}

	if rs, ok := store.(*dbRedis.Store); ok {
		if err := rs.EnsureIndex(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("restodex: ensure search index: %w", err)
		}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c, err := wireClient(store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "mongo":
		s, err := dbMongo.NewStore(ctx, dbMongo.Config{
			URI:        cfg.uri,
			Database:   cfg.database,
			Collection: cfg.collection,
		})
		if err != nil {
			return nil, fmt.Errorf("restodex: create mongo store: %w", err)
		}
		return s, nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("restodex: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("restodex: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	capacity := cfg.cacheCapacity
	if capacity == 0 {
		capacity = recency.DefaultCapacity
	}

	repo := restrepo.New(store)
	cache, err := recency.New(repo, capacity, logger, recency.WithLoadTimeout(cfg.storeTimeout))
	if err != nil {
		return nil, fmt.Errorf("restodex: %w", err)
	}

	searchSvc := searchuc.New(repo, logger,
		searchuc.WithPageSize(cfg.pageSize),
		searchuc.WithTimeout(cfg.storeTimeout),
		searchuc.WithFailureCounter(failureCounter{obs: obs, op: "search"}),
	)
	restSvc := restaurantuc.New(cache, failureCounter{obs: obs, op: "restaurant"}, logger,
		restaurantuc.WithTimeout(cfg.storeTimeout),
	)

	var checks []healthuc.Option
	if rs, ok := store.(*dbRedis.Store); ok {
		checks = append(checks, healthuc.WithCheck("search_index", healthuc.CheckFunc(rs.CheckIndex)))
	}

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		restSvc:   restSvc,
		healthSvc: healthuc.New(store, checks...),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search returns page (1-based) of restaurants matching term.
func (c *Client) Search(ctx context.Context, term string, page int) Page {
	start := time.Now()
	defer c.obs.observe("search", start, nil)

	res := c.searchSvc.Search(ctx, term, page)
	items := make([]Restaurant, len(res.Records))
	for i, r := range res.Records {
		items[i] = restaurantFromRecord(r)
	}
	return Page{
		Query:      term,
		Page:       page,
		TotalPages: res.TotalPages,
		Items:      items,
	}
}

// Restaurant returns the restaurant with the given restaurant id.
// Recently requested restaurants are served from an in-process cache.
func (c *Client) Restaurant(ctx context.Context, id string) (Restaurant, bool) {
	start := time.Now()
	defer c.obs.observe("restaurant", start, nil)

	r, ok := c.restSvc.Get(ctx, id)
	if !ok {
		return Restaurant{}, false
	}
	return restaurantFromRecord(r), true
}
