package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bigtree-pos/till/internal/config"
	"github.com/redis/go-redis/v9"
)

// RedisStore backs the kv store with redis. Values are stored without TTL;
// register state must survive until explicitly overwritten or deleted.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisStore connects to redis and verifies connectivity.
func NewRedisStore(ctx context.Context, logger *slog.Logger, cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("Connected to redis store", "addr", cfg.Addr)

	return &RedisStore{client: client, logger: logger}, nil
}

// NewRedisStoreWithClient builds a store over an existing client. Used by
// tests running against an embedded server.
func NewRedisStoreWithClient(logger *slog.Logger, client *redis.Client) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return data, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis put %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Close(context.Context) error {
	if err := s.client.Close(); err != nil {
		return err
	}
	s.logger.Info("Closed redis store")
	return nil
}
