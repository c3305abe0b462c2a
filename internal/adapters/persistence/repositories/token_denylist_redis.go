package repositories

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const revokedTokenPrefix = "crm:revoked-token:"

// redisTokenDenylist stores revoked token ids in Redis with a TTL equal to
// the remaining lifetime of the token
type redisTokenDenylist struct {
	client *redis.Client
}

// NewRedisTokenDenylist creates a Redis backed denylist
func NewRedisTokenDenylist(client *redis.Client) TokenDenylist {
	return &redisTokenDenylist{client: client}
}

// Revoke marks a token id as revoked
func (r *redisTokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedTokenPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether a token id was revoked and has not expired yet
func (r *redisTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
