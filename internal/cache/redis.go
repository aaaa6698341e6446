package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dedupePrefix = "dedupe:"
	tokenPrefix  = "token:"
)

// RedisTokenStore keeps dedupe keys and delivery-token states in Redis so
// multiple agents share one view of what has already been sent.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(ctx context.Context, addr string) (*RedisTokenStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return &RedisTokenStore{client: client}, nil
}

func (s *RedisTokenStore) SetTokenNX(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	won, err := s.client.SetNX(ctx, dedupePrefix+key, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("setnx %s: %w", key, err)
	}
	return won, nil
}

func (s *RedisTokenStore) GetToken(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, dedupePrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return val, nil
}

func (s *RedisTokenStore) SetState(ctx context.Context, token, state string, ttl time.Duration) error {
	if err := s.client.Set(ctx, tokenPrefix+token, state, ttl).Err(); err != nil {
		return fmt.Errorf("set state for %s: %w", token, err)
	}
	return nil
}

func (s *RedisTokenStore) GetState(ctx context.Context, token string) (string, error) {
	val, err := s.client.Get(ctx, tokenPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get state for %s: %w", token, err)
	}
	return val, nil
}

func (s *RedisTokenStore) Close() error {
	return s.client.Close()
}
