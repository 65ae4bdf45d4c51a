package session

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore implements Store using Redis as the backing store.
type RedisStore struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedisStore creates a new Redis-backed session store.
func NewRedisStore(client *redis.Client, log *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		log:    log,
	}
}

// Get retrieves a value from Redis.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		s.log.Error("failed to get session entry", zap.String("key", key), zap.Error(err))
		return "", false, err
	}
	return v, true, nil
}

// Set stores a value in Redis without expiry.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		s.log.Error("failed to set session entry", zap.String("key", key), zap.Error(err))
		return err
	}
	s.log.Debug("stored session entry", zap.String("key", key))
	return nil
}

// Remove deletes a value from Redis.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.log.Error("failed to delete session entry", zap.String("key", key), zap.Error(err))
		return err
	}
	s.log.Debug("deleted session entry", zap.String("key", key))
	return nil
}
