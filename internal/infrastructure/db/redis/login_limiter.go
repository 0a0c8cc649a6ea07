package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carrental/admin-api/internal/core/domain"
)

const (
	DefaultMaxAttempts = 5
	DefaultLockout     = 15 * time.Minute
)

// LoginLimiter caps login attempts per normalized email in a fixed window.
// Key format: auth:login:<email>
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultLockout
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Reserve takes one attempt from the window's budget before any password
// work is done. INCR and TTL run in one MULTI/EXEC, so concurrent callers
// each see a distinct count. A counter left without a TTL gets one here.
func (l *LoginLimiter) Reserve(ctx context.Context, email string) error {
	key := l.key(email)

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login limiter reserve: %w", err)
	}

	// -1 means the key exists without an expiry.
	if ttl.Val() < 0 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("login limiter expire: %w", err)
		}
	}

	if incr.Val() > int64(l.maxAttempts) {
		return domain.ErrTooManyAttempts
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	if err := l.client.Del(ctx, l.key(email)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(email string) string {
	return "auth:login:" + email
}
