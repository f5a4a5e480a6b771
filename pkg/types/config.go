package types

import "errors"

// Config selects a Store backend and its parameters.
type Config struct {
	Backend string       `json:"backend" yaml:"backend"`
	DataDir string       `json:"data_dir" yaml:"data_dir"`
	SQLite  SQLiteConfig `json:"sqlite" yaml:"sqlite"`
	Redis   RedisConfig  `json:"redis" yaml:"redis"`
	NATS    NATSConfig   `json:"nats" yaml:"nats"`
}

// Supported backend names.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendNATS   = "nats"
)

// Sync strategies for the SQLite backend's JSONL snapshot.
const (
	SyncImmediate = "immediate"
	SyncOnClose   = "on_close"
	SyncBatch     = "batch"
)

// Defaults applied by the getters below.
const (
	DefaultBatchSize     = 10
	DefaultBatchInterval = 5
	DefaultRedisAddr     = "localhost:6379"
	DefaultRedisPrefix   = "board:"
	DefaultNATSURL       = "nats://127.0.0.1:4222"
	DefaultNATSBucket    = "BOARDS"
)

// SQLiteConfig tunes when the JSONL snapshot is written.
type SQLiteConfig struct {
	SyncStrategy  string `json:"sync_strategy" yaml:"sync_strategy"`
	BatchSize     int    `json:"batch_size" yaml:"batch_size"`
	BatchInterval int    `json:"batch_interval" yaml:"batch_interval"` // seconds
}

// GetSyncStrategy returns the strategy, defaulting to immediate.
func (c SQLiteConfig) GetSyncStrategy() string {
	if c.SyncStrategy == "" {
		return SyncImmediate
	}
	return c.SyncStrategy
}

// GetBatchSize returns the batch size, defaulting to DefaultBatchSize.
func (c SQLiteConfig) GetBatchSize() int {
	if c.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return c.BatchSize
}

// GetBatchInterval returns the batch interval in seconds, defaulting to
// DefaultBatchInterval.
func (c SQLiteConfig) GetBatchInterval() int {
	if c.BatchInterval <= 0 {
		return DefaultBatchInterval
	}
	return c.BatchInterval
}

// Validate checks the sync settings.
func (c SQLiteConfig) Validate() error {
	switch c.GetSyncStrategy() {
	case SyncImmediate, SyncOnClose, SyncBatch:
	default:
		return ErrSyncStrategyUnknown
	}
	if c.BatchSize < 0 {
		return ErrBatchSizeInvalid
	}
	if c.BatchInterval < 0 {
		return ErrBatchIntervalInvalid
	}
	return nil
}

// RedisConfig locates the Redis server.
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
	Prefix   string `json:"prefix" yaml:"prefix"`
}

// GetAddr returns the address, defaulting to DefaultRedisAddr.
func (c RedisConfig) GetAddr() string {
	if c.Addr == "" {
		return DefaultRedisAddr
	}
	return c.Addr
}

// GetPrefix returns the key prefix, defaulting to DefaultRedisPrefix.
func (c RedisConfig) GetPrefix() string {
	if c.Prefix == "" {
		return DefaultRedisPrefix
	}
	return c.Prefix
}

// NATSConfig locates the NATS server and JetStream bucket.
type NATSConfig struct {
	URL    string `json:"url" yaml:"url"`
	Bucket string `json:"bucket" yaml:"bucket"`
}

// GetURL returns the server URL, defaulting to DefaultNATSURL.
func (c NATSConfig) GetURL() string {
	if c.URL == "" {
		return DefaultNATSURL
	}
	return c.URL
}

// GetBucket returns the bucket, defaulting to DefaultNATSBucket.
func (c NATSConfig) GetBucket() string {
	if c.Bucket == "" {
		return DefaultNATSBucket
	}
	return c.Bucket
}

// Config validation errors.
var (
	ErrBackendEmpty         = errors.New("backend must not be empty")
	ErrBackendUnknown       = errors.New("unknown backend")
	ErrSyncStrategyUnknown  = errors.New("unknown sync strategy")
	ErrBatchSizeInvalid     = errors.New("batch size must be positive")
	ErrBatchIntervalInvalid = errors.New("batch interval must be positive")
	ErrBucketInvalid        = errors.New("nats bucket name must not contain '.' or spaces")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendMemory: true,
	BackendSQLite: true,
	BackendRedis:  true,
	BackendNATS:   true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.Backend {
	case BackendSQLite:
		return c.SQLite.Validate()
	case BackendNATS:
		for _, r := range c.NATS.GetBucket() {
			if r == '.' || r == ' ' {
				return ErrBucketInvalid
			}
		}
	}
	return nil
}
