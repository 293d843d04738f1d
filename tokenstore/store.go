package tokenstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kbukum/apiclient/logger"
	"github.com/kbukum/apiclient/validation"
)

// Driver names a store implementation.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Store is key-value storage for client credentials.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the store.
	Close() error
}

// Config selects and configures a store driver.
type Config struct {
	// Driver is one of memory, file or redis. Defaults to file.
	Driver string `yaml:"driver" mapstructure:"driver" validate:"oneof=memory file redis"`

	File  FileConfig  `yaml:"file" mapstructure:"file"`
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// FileConfig configures the file driver.
type FileConfig struct {
	// Path of the JSON token file. Defaults to <user config dir>/apiclient/tokens.json.
	Path string `yaml:"path" mapstructure:"path"`
	// LockTimeout bounds how long an operation waits for the file lock.
	LockTimeout time.Duration `yaml:"lock_timeout" mapstructure:"lock_timeout"`
}

// RedisConfig configures the redis driver.
type RedisConfig struct {
	// Addr is the Redis server address (host:port).
	Addr string `yaml:"addr" mapstructure:"addr"`
	// Password is the Redis server password.
	Password string `yaml:"password" mapstructure:"password"`
	// DB is the Redis database number.
	DB int `yaml:"db" mapstructure:"db" validate:"gte=0"`
	// KeyPrefix namespaces every key.
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
	// PoolSize is the maximum number of socket connections.
	PoolSize int `yaml:"pool_size" mapstructure:"pool_size"`
	// DialTimeout is the timeout for establishing new connections (e.g. "5s").
	DialTimeout string `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	// ReadTimeout is the timeout for socket reads (e.g. "3s").
	ReadTimeout string `yaml:"read_timeout" mapstructure:"read_timeout"`
	// WriteTimeout is the timeout for socket writes (e.g. "3s").
	WriteTimeout string `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = DriverFile
	}
	if c.File.Path == "" {
		c.File.Path = DefaultFilePath()
	}
	if c.File.LockTimeout <= 0 {
		c.File.LockTimeout = 5 * time.Second
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "apiclient:"
	}
	if c.Redis.PoolSize <= 0 {
		c.Redis.PoolSize = 4
	}
	if c.Redis.DialTimeout == "" {
		c.Redis.DialTimeout = "5s"
	}
	if c.Redis.ReadTimeout == "" {
		c.Redis.ReadTimeout = "3s"
	}
	if c.Redis.WriteTimeout == "" {
		c.Redis.WriteTimeout = "3s"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	for name, d := range map[string]string{
		"dial_timeout":  c.Redis.DialTimeout,
		"read_timeout":  c.Redis.ReadTimeout,
		"write_timeout": c.Redis.WriteTimeout,
	} {
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("tokenstore: invalid redis.%s %q: %w", name, d, err)
		}
	}
	return nil
}

// DefaultFilePath returns the default location of the token file.
func DefaultFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".apiclient-tokens.json"
	}
	return filepath.Join(dir, "apiclient", "tokens.json")
}

// New creates the store selected by cfg.Driver.
func New(cfg Config, log *logger.Logger) (Store, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("tokenstore")

	switch cfg.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		return NewRedis(cfg.Redis, log)
	default:
		return NewFile(cfg.File, log)
	}
}
