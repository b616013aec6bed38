package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisOptions configures the redis-backed KV.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisKV stores values in redis without expiry; freshness is decided by
// the caller from the stored payload.
type RedisKV struct {
	Client *redis.Client
}

// NewRedisKV creates a RedisKV. The connection is established lazily.
func NewRedisKV(opts RedisOptions) *RedisKV {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &RedisKV{Client: client}
}

// Ping checks connectivity.
func (s *RedisKV) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

func (s *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (s *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := s.Client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisKV) Delete(ctx context.Context, key string) error {
	if err := s.Client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisKV) Close() error {
	return s.Client.Close()
}
