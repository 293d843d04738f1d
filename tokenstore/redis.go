package tokenstore

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/apiclient/errors"
	"github.com/kbukum/apiclient/logger"
)

// Redis stores values as plain Redis strings under KeyPrefix.
type Redis struct {
	rdb    *goredis.Client
	prefix string
	log    *logger.Logger
	closed bool
	mu     sync.Mutex
}

// NewRedis creates a Redis store. No connection is made until first use.
func NewRedis(cfg RedisConfig, log *logger.Logger) (*Redis, error) {
	if log == nil {
		log = logger.Nop()
	}
	opts := &goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}
	for _, d := range []struct {
		raw string
		dst *time.Duration
	}{
		{cfg.DialTimeout, &opts.DialTimeout},
		{cfg.ReadTimeout, &opts.ReadTimeout},
		{cfg.WriteTimeout, &opts.WriteTimeout},
	} {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return nil, fmt.Errorf("tokenstore: redis timeout %q: %w", d.raw, err)
		}
		*d.dst = v
	}

	log.Debug("Redis token store created", map[string]interface{}{
		"addr": cfg.Addr,
		"db":   cfg.DB,
	})
	return &Redis{rdb: goredis.NewClient(opts), prefix: cfg.KeyPrefix, log: log}, nil
}

// NewRedisFromClient wraps an existing go-redis client.
func NewRedisFromClient(rdb *goredis.Client, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix, log: logger.Nop()}
}

// Ping verifies the Redis connection is alive.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return errors.StoreFailure(DriverRedis, err)
	}
	return nil
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, r.prefix+key).Result()
	if stderrors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.StoreFailure(DriverRedis, err)
	}
	return v, true, nil
}

// Set implements Store. Values never expire.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return errors.StoreFailure(DriverRedis, err)
	}
	return nil
}

// Delete implements Store.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.prefix+key).Err(); err != nil {
		return errors.StoreFailure(DriverRedis, err)
	}
	return nil
}

// Close closes the Redis connection. Safe to call multiple times.
func (r *Redis) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.rdb.Close()
}

// Unwrap returns the underlying go-redis client.
func (r *Redis) Unwrap() *goredis.Client {
	return r.rdb
}
