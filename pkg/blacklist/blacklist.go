package blacklist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist is the revocation set for issued tokens, backed by Redis.
// Entries expire on their own: the TTL equals the token's remaining lifetime,
// so a revoked token stays rejected exactly as long as it would otherwise
// have been valid.
type TokenBlacklist struct {
	redis *redis.Client
}

// NewTokenBlacklist creates a new token blacklist service
func NewTokenBlacklist(redisClient *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{
		redis: redisClient,
	}
}

// Add adds a raw token to the blacklist with the given TTL.
func (b *TokenBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	key := fmt.Sprintf("blacklist:token:%s", token)

	err := b.redis.Set(ctx, key, "1", ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}

	return nil
}

// AddToken blacklists a token for its remaining lifetime. Already-expired
// tokens are skipped; there is nothing left to revoke.
func (b *TokenBlacklist) AddToken(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	return b.Add(ctx, token, ttl)
}

// IsBlacklisted checks if a token is in the blacklist
func (b *TokenBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("blacklist:token:%s", token)

	exists, err := b.redis.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}

	return exists > 0, nil
}

// Remove removes a token from the blacklist (rarely used)
func (b *TokenBlacklist) Remove(ctx context.Context, token string) error {
	key := fmt.Sprintf("blacklist:token:%s", token)

	err := b.redis.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to remove token from blacklist: %w", err)
	}

	return nil
}
