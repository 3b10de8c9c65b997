package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations records token identifiers that must no longer be accepted.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisRevocations keeps revoked token ids in Redis until the token would have expired anyway.
type RedisRevocations struct {
	Client *redis.Client
	Prefix string
}

func (r RedisRevocations) key(tokenID string) string {
	prefix := r.Prefix
	if prefix == "" {
		prefix = "auth:revoked"
	}
	return prefix + ":" + tokenID
}

// Revoke implements Revocations.
func (r RedisRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if r.Client == nil {
		return errors.New("auth: redis client not configured")
	}
	return r.Client.Set(ctx, r.key(tokenID), 1, ttl).Err()
}

// IsRevoked implements Revocations.
func (r RedisRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if r.Client == nil {
		return false, nil
	}
	n, err := r.Client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
