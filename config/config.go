// Package config provides loading and parsing of dagtui.yaml
// configuration files, plus construction of the configured store
// backend.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/laskinner/dag-tui/store"
	"github.com/laskinner/dag-tui/store/etcdstore"
	"github.com/laskinner/dag-tui/store/redisstore"
	"github.com/laskinner/dag-tui/store/sqlitestore"
)

// Backend identifies a store implementation.
type Backend string

const (
	// BackendMemory keeps entities in process memory.
	BackendMemory Backend = "memory"

	// BackendRedis stores entities in a Redis server.
	BackendRedis Backend = "redis"

	// BackendEtcd stores entities in an etcd cluster.
	BackendEtcd Backend = "etcd"

	// BackendSQLite stores entities in a SQLite database file.
	BackendSQLite Backend = "sqlite"
)

// IsValid returns true if the backend is valid.
func (b Backend) IsValid() bool {
	switch b {
	case BackendMemory, BackendRedis, BackendEtcd, BackendSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation of the backend.
func (b Backend) String() string {
	return string(b)
}

// Config represents a dagtui.yaml configuration file.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// StoreConfig selects and configures the store backend.
type StoreConfig struct {
	// Backend names the store implementation. Defaults to "memory".
	Backend Backend `yaml:"backend,omitempty"`

	Redis  *RedisConfig  `yaml:"redis,omitempty"`
	Etcd   *EtcdConfig   `yaml:"etcd,omitempty"`
	SQLite *SQLiteConfig `yaml:"sqlite,omitempty"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379").
	URL string `yaml:"url,omitempty"`

	// Namespace prefixes every key. Defaults to "dagtui".
	Namespace string `yaml:"namespace,omitempty"`

	// ConnectTimeout is a Go duration string (e.g., "5s").
	ConnectTimeout string `yaml:"connect_timeout,omitempty"`
}

// GetConnectTimeout parses the connect timeout string and returns a
// duration. Returns the default value if not set or invalid.
func (r *RedisConfig) GetConnectTimeout() time.Duration {
	if r == nil || r.ConnectTimeout == "" {
		return 5 * time.Second
	}
	d, err := time.ParseDuration(r.ConnectTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// EtcdConfig configures the etcd backend.
type EtcdConfig struct {
	// Endpoints lists the etcd cluster endpoints (required for etcd).
	Endpoints []string `yaml:"endpoints"`

	// Namespace prefixes every key. Defaults to "dagtui".
	Namespace string `yaml:"namespace,omitempty"`

	// DialTimeout is a Go duration string (e.g., "5s").
	DialTimeout string `yaml:"dial_timeout,omitempty"`
}

// GetDialTimeout parses the dial timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (e *EtcdConfig) GetDialTimeout() time.Duration {
	if e == nil || e.DialTimeout == "" {
		return 5 * time.Second
	}
	d, err := time.ParseDuration(e.DialTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	// Path is the database file path (required for sqlite).
	Path string `yaml:"path"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error". Defaults to "info".
	Level string `yaml:"level,omitempty"`

	// Format is "json" or "text". Defaults to "json".
	Format string `yaml:"format,omitempty"`
}

// NewLogger builds a slog.Logger writing to w per the logging config.
func (l LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch l.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	backend := c.Store.Backend
	if backend == "" {
		backend = BackendMemory
	}
	if !backend.IsValid() {
		return fmt.Errorf("invalid store backend: %s", c.Store.Backend)
	}
	if backend == BackendEtcd && (c.Store.Etcd == nil || len(c.Store.Etcd.Endpoints) == 0) {
		return fmt.Errorf("etcd backend requires at least one endpoint")
	}
	if backend == BackendSQLite && (c.Store.SQLite == nil || c.Store.SQLite.Path == "") {
		return fmt.Errorf("sqlite backend requires a database path")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}
	return nil
}

// Load reads and parses a dagtui.yaml file from the given path.
// If the path is a directory, it looks for dagtui.yaml or dagtui.yml in
// that directory.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		yamlPath := filepath.Join(path, "dagtui.yaml")
		if _, err := os.Stat(yamlPath); err == nil {
			configPath = yamlPath
		} else {
			ymlPath := filepath.Join(path, "dagtui.yml")
			if _, err := os.Stat(ymlPath); err != nil {
				return nil, fmt.Errorf("no dagtui.yaml or dagtui.yml found in %s", path)
			}
			configPath = ymlPath
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// OpenStore constructs the configured store backend. The returned
// closer releases the backend's resources; it is a no-op for the
// memory backend.
func (c *Config) OpenStore() (store.EntityStore, io.Closer, error) {
	backend := c.Store.Backend
	if backend == "" {
		backend = BackendMemory
	}

	switch backend {
	case BackendMemory:
		return store.NewMemoryStore(), nopCloser{}, nil

	case BackendRedis:
		opts := redisstore.Options{ConnectTimeout: c.Store.Redis.GetConnectTimeout()}
		if c.Store.Redis != nil {
			opts.URL = c.Store.Redis.URL
			opts.Namespace = c.Store.Redis.Namespace
		}
		s, err := redisstore.New(opts)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis store: %w", err)
		}
		return s, s, nil

	case BackendEtcd:
		s, err := etcdstore.New(etcdstore.Config{
			Endpoints:   c.Store.Etcd.Endpoints,
			Namespace:   c.Store.Etcd.Namespace,
			DialTimeout: c.Store.Etcd.GetDialTimeout(),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open etcd store: %w", err)
		}
		return s, s, nil

	case BackendSQLite:
		s, err := sqlitestore.New(c.Store.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, s, nil

	default:
		return nil, nil, fmt.Errorf("invalid store backend: %s", backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
