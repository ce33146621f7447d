package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Skotchmaster/shop_cart/pkg/logging"
)

type RedisStore struct {
	client *redis.Client
}

// NewRedisStore accepts either a redis:// URL or a bare host:port address.
func NewRedisStore(redisAddr string) (*RedisStore, error) {
	if redisAddr == "" {
		return nil, errors.New("redis: empty address")
	}

	opts, err := redis.ParseURL(redisAddr)
	if err != nil {
		opts = &redis.Options{
			Addr:         redisAddr,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			PoolTimeout:  4 * time.Second,
		}
	}

	return &RedisStore{client: redis.NewClient(opts)}, nil
}

func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Initialize pings redis until it answers, backing off exponentially up to
// a few seconds between attempts.
func (r *RedisStore) Initialize(ctx context.Context, attempts int) error {
	l := logging.FromContext(ctx).With("store", "redis")
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = r.client.Ping(ctx).Err(); err == nil {
			l.Info("redis_store_ready", "attempt", i+1)
			return nil
		}

		backoff := time.Duration(100*(1<<uint(i))) * time.Millisecond
		if backoff > 5*time.Second {
			backoff = 5 * time.Second
		}
		l.Warn("redis_store_ping_failed", "attempt", i+1, "backoff_ms", backoff.Milliseconds(), "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("redis: no answer after %d attempts: %w", attempts, err)
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis GET %s: %w", key, err)
	}
	return val, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
