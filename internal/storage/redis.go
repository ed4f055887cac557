package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gosom/lastrun/internal/entities"
)

const DefaultURL = "redis://localhost:6379"

var ErrNotFound = errors.New("key not found")

type RedisConfig struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	// MaxRetries is passed to go-redis; -1 disables its internal retries.
	MaxRetries int
}

type DB struct {
	rdb *redis.Client
}

func New(cfg RedisConfig) (*DB, error) {
	if len(cfg.URL) == 0 {
		cfg.URL = DefaultURL
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	if cfg.MaxRetries != 0 {
		opts.MaxRetries = cfg.MaxRetries
	}
	ans := DB{
		rdb: redis.NewClient(opts),
	}
	return &ans, nil
}

func (o *DB) Close() error {
	return o.rdb.Close()
}

func (o *DB) Addr() string {
	return o.rdb.Options().Addr
}

func (o *DB) Ping(ctx context.Context) error {
	return o.rdb.Ping(ctx).Err()
}

// SetHeartbeat overwrites the heartbeat key. No expiration is set.
func (o *DB) SetHeartbeat(ctx context.Context, hb entities.Heartbeat) error {
	return o.rdb.Set(ctx, hb.Key, hb.Value(), 0).Err()
}

func (o *DB) GetLastRun(ctx context.Context) (string, error) {
	v, err := o.rdb.Get(ctx, entities.LastRunKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

func (o *DB) IncrVisits(ctx context.Context) (int64, error) {
	return o.rdb.Incr(ctx, entities.VisitsKey).Result()
}
