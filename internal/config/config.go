package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverMongo = "mongo"
	DriverRedis = "redis"
)

// Config holds the restodex configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Search   SearchConfig   `yaml:"search"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds record store connection settings.
// URI, Database and Collection apply to mongo; Addrs, Password, KeyPrefix and Index to redis.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // mongo, redis (default: mongo)
	URI              string   `yaml:"uri"`
	Database         string   `yaml:"database"`
	Collection       string   `yaml:"collection"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	Index            string   `yaml:"index"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds query resolver settings.
type SearchConfig struct {
	PageSize           int `yaml:"page_size"`
	StoreTimeoutMs     int `yaml:"store_timeout_ms"`     // 0 = no per-call deadline
	CountCacheTTLSec   int `yaml:"count_cache_ttl_sec"`  // 0 = count cache disabled
	CountCacheCapacity int `yaml:"count_cache_capacity"` // used only when the count cache is on
}

// CacheConfig holds recency cache settings.
type CacheConfig struct {
	Capacity int `yaml:"capacity"`
}

// StoreTimeout returns the deadline for a single store call.
func (c SearchConfig) StoreTimeout() time.Duration {
	return time.Duration(c.StoreTimeoutMs) * time.Millisecond
}

// CountCacheTTL returns the count cache entry lifetime.
func (c SearchConfig) CountCacheTTL() time.Duration {
	return time.Duration(c.CountCacheTTLSec) * time.Second
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 5001
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMongo
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.URI == "" {
			c.Database.URI = "mongodb://localhost:27017"
		}
		if c.Database.Database == "" {
			c.Database.Database = "zom"
		}
		if c.Database.Collection == "" {
			c.Database.Collection = "res"
		}
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			c.Database.Addrs = []string{"localhost:6379"}
		}
		if c.Database.KeyPrefix == "" {
			c.Database.KeyPrefix = "restaurant:"
		}
		if c.Database.Index == "" {
			c.Database.Index = "restodex:idx"
		}
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = 15
	}
	if c.Search.CountCacheCapacity <= 0 {
		c.Search.CountCacheCapacity = 1000
	}
	if c.Cache.Capacity <= 0 {
		c.Cache.Capacity = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.URI == "" {
			return fmt.Errorf("database.uri is required for driver %q", DriverMongo)
		}
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", DriverRedis)
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverMongo, DriverRedis, c.Database.Driver)
	}
	if c.Search.StoreTimeoutMs < 0 {
		return fmt.Errorf("search.store_timeout_ms must not be negative, got %d", c.Search.StoreTimeoutMs)
	}
	if c.Search.CountCacheTTLSec < 0 {
		return fmt.Errorf("search.count_cache_ttl_sec must not be negative, got %d", c.Search.CountCacheTTLSec)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
