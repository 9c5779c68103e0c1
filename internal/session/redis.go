package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps tokens as expiring Redis keys
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a store under prefix+"session:"
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix + "session:",
		ttl:    ttl,
	}
}

func (s *RedisStore) Issue(ctx context.Context) (string, time.Time, error) {
	token := newToken()
	expiresAt := time.Now().Add(s.ttl)
	if err := s.client.Set(ctx, s.prefix+token, expiresAt.Unix(), s.ttl).Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("store session: %w", err)
	}
	return token, expiresAt, nil
}

func (s *RedisStore) Validate(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return n == 1, nil
}

func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.prefix+token).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
