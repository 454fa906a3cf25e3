package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrBlacklistDisabled is returned by Add when no Redis client is configured.
var ErrBlacklistDisabled = errors.New("token blacklist is disabled")

// TokenBlacklist เก็บ access token ที่ถูก logout แล้วใน Redis
// A nil client disables the blacklist (development mode): nothing can be revoked.
type TokenBlacklist struct {
	client *redis.Client
}

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

func (b *TokenBlacklist) Add(ctx context.Context, token string, expiresIn time.Duration) error {
	if b == nil || b.client == nil {
		return ErrBlacklistDisabled
	}
	if err := b.client.Set(ctx, blacklistKey(token), "1", expiresIn).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (b *TokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	if b == nil || b.client == nil {
		return false, nil
	}
	_, err := b.client.Get(ctx, blacklistKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return true, nil
}

func blacklistKey(token string) string {
	return "blacklist:" + token
}
