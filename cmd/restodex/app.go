package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/restodex/internal/config"
	"github.com/kailas-cloud/restodex/internal/db"
	dbMongo "github.com/kailas-cloud/restodex/internal/db/mongo"
	dbRedis "github.com/kailas-cloud/restodex/internal/db/redis"
	logpkg "github.com/kailas-cloud/restodex/internal/logger"
	"github.com/kailas-cloud/restodex/internal/metrics"
	"github.com/kailas-cloud/restodex/internal/repository/countcache"
	"github.com/kailas-cloud/restodex/internal/repository/recency"
	restrepo "github.com/kailas-cloud/restodex/internal/repository/restaurant"
	healthuc "github.com/kailas-cloud/restodex/internal/usecase/health"
	restaurantuc "github.com/kailas-cloud/restodex/internal/usecase/restaurant"
	searchuc "github.com/kailas-cloud/restodex/internal/usecase/search"
)

// app is the composition root shared by every subcommand.
type app struct {
	env         string
	cfg         config.Config
	logger      *zap.Logger
	store       db.Store
	search      *searchuc.Service
	restaurants *restaurantuc.Service
	health      *healthuc.Service
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	_ = a.logger.Sync()
}

func resolveEnv() string {
	if flagEnv != "" {
		return flagEnv
	}
	return config.GetEnv()
}

func loadConfig(env string) (config.Config, error) {
	if flagConfig != "" {
		return config.LoadFile(flagConfig)
	}
	return config.Load(env)
}

// newApp loads configuration, connects to the record store and wires services.
func newApp(ctx context.Context) (*app, error) {
	env := resolveEnv()

	cfg, err := loadConfig(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	store, checks, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	a, err := wire(env, cfg, store, logger, checks...)
	if err != nil {
		store.Close()
		_ = logger.Sync()
		return nil, err
	}
	return a, nil
}

// openStore connects to the configured driver and waits until it answers.
// Redis additionally gets its search index created and a readiness check for it.
func openStore(
	ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger,
) (db.Store, []healthuc.Option, error) {
	var (
		store  db.Store
		checks []healthuc.Option
		redis  *dbRedis.Store
		err    error
	)

	switch cfg.Driver {
	case config.DriverMongo:
		store, err = dbMongo.NewStore(ctx, dbMongo.Config{
			URI:        cfg.URI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
	case config.DriverRedis:
		redis, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Addrs,
			Password:  cfg.Password,
			KeyPrefix: cfg.KeyPrefix,
			Index:     cfg.Index,
		})
		store = redis
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database", zap.String("driver", cfg.Driver))

	if redis != nil {
		if err := redis.EnsureIndex(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("ensure search index: %w", err)
		}
		checks = append(checks, healthuc.WithCheck("search_index", healthuc.CheckFunc(redis.CheckIndex)))
	}

	return store, checks, nil
}

// wire assembles repositories and services over store:
// store -> instrumented -> repo -> [count cache] -> search
// repo -> recency cache -> restaurant lookups.
func wire(
	env string, cfg config.Config, store db.Store, logger *zap.Logger, checks ...healthuc.Option,
) (*app, error) {
	metrics.RegisterStoreMetrics()

	repo := restrepo.New(restrepo.NewInstrumentedStore(store))

	var searchRepo searchuc.Repository = repo
	if ttl := cfg.Search.CountCacheTTL(); ttl > 0 {
		ccCfg := countcache.DefaultConfig()
		ccCfg.Capacity = cfg.Search.CountCacheCapacity
		ccCfg.TTL = ttl
		cached, err := countcache.New(repo, ccCfg, metrics.CountCacheTotal)
		if err != nil {
			return nil, fmt.Errorf("count cache: %w", err)
		}
		searchRepo = cached
		logger.Info("Count cache enabled", zap.Duration("ttl", ttl), zap.Int("capacity", ccCfg.Capacity))
	}

	cache, err := recency.New(repo, cfg.Cache.Capacity, logger,
		recency.WithLoadTimeout(cfg.Search.StoreTimeout()),
		recency.WithMetrics(
			metrics.RecencyCacheTotal,
			metrics.RecencyCacheEvictionsTotal,
			metrics.RecencyCacheEntries,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("recency cache: %w", err)
	}

	return &app{
		env:    env,
		cfg:    cfg,
		logger: logger,
		store:  store,
		search: searchuc.New(searchRepo, logger,
			searchuc.WithPageSize(cfg.Search.PageSize),
			searchuc.WithTimeout(cfg.Search.StoreTimeout()),
			searchuc.WithFailureCounter(metrics.SearchFailuresTotal.WithLabelValues("search")),
		),
		restaurants: restaurantuc.New(cache, metrics.SearchFailuresTotal.WithLabelValues("get"), logger,
			restaurantuc.WithTimeout(cfg.Search.StoreTimeout()),
		),
		health: healthuc.New(store, append(checks, healthuc.WithTimeout(5*time.Second))...),
	}, nil
}
