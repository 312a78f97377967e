package restodex

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver string // "mongo" or "redis"

	uri        string
	database   string
	collection string

	addrs    []string
	password string

	pageSize      int
	cacheCapacity int
	storeTimeout  time.Duration

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithMongo configures the client to read from a MongoDB collection.
// Empty database and collection fall back to "zom" and "res".
func WithMongo(uri, database, collection string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "mongo"
		c.uri = uri
		c.database = database
		c.collection = collection
	})
}

// WithRedis configures the client to read JSON documents from Redis.
// The search index is created on connect if missing.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithPageSize sets the number of restaurants per search page. Default: 15.
func WithPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = n
	})
}

// WithCacheCapacity sets how many restaurants Restaurant keeps cached. Default: 10.
func WithCacheCapacity(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheCapacity = n
	})
}

// WithStoreTimeout bounds each store call made by Search and Restaurant.
// Zero (default) means no deadline beyond the caller's context.
func WithStoreTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.storeTimeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts, durations and
// absorbed failures) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
