package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/carrental/admin-api/internal/core/domain"
)

func newLimiterTest(t *testing.T, max int, window time.Duration) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginLimiter(client, max, window), mr
}

func TestLoginLimiter_LocksAfterMaxAttempts(t *testing.T) {
	limiter, mr := newLimiterTest(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Reserve(ctx, "a@b.com"))
	}
	require.ErrorIs(t, limiter.Reserve(ctx, "a@b.com"), domain.ErrTooManyAttempts)

	require.NoError(t, limiter.Reserve(ctx, "other@b.com"), "budgets are per account")
	require.Equal(t, time.Minute, mr.TTL("auth:login:a@b.com"))
}

func TestLoginLimiter_ConcurrentAttemptsHonourBudget(t *testing.T) {
	limiter, _ := newLimiterTest(t, 5, time.Minute)

	var allowed, limited atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := limiter.Reserve(context.Background(), "a@b.com")
			switch {
			case err == nil:
				allowed.Add(1)
			case errors.Is(err, domain.ErrTooManyAttempts):
				limited.Add(1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 5, allowed.Load())
	require.EqualValues(t, 45, limited.Load())
}

func TestLoginLimiter_WindowIsFixedFromFirstAttempt(t *testing.T) {
	limiter, mr := newLimiterTest(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.Reserve(ctx, "a@b.com"))
	mr.FastForward(30 * time.Second)
	require.ErrorIs(t, limiter.Reserve(ctx, "a@b.com"), domain.ErrTooManyAttempts)
	require.Equal(t, 30*time.Second, mr.TTL("auth:login:a@b.com"))

	mr.FastForward(31 * time.Second)
	require.NoError(t, limiter.Reserve(ctx, "a@b.com"))
}

func TestLoginLimiter_RepairsCounterWithoutTTL(t *testing.T) {
	limiter, mr := newLimiterTest(t, 5, time.Minute)
	require.NoError(t, mr.Set("auth:login:a@b.com", "2"))

	require.NoError(t, limiter.Reserve(context.Background(), "a@b.com"))
	require.Equal(t, time.Minute, mr.TTL("auth:login:a@b.com"))
}

func TestLoginLimiter_ResetClearsCounter(t *testing.T) {
	limiter, _ := newLimiterTest(t, 2, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.Reserve(ctx, "a@b.com"))
	require.NoError(t, limiter.Reserve(ctx, "a@b.com"))
	require.NoError(t, limiter.Reset(ctx, "a@b.com"))
	require.NoError(t, limiter.Reserve(ctx, "a@b.com"))
}

func TestLoginLimiter_UnreachableRedis(t *testing.T) {
	limiter, mr := newLimiterTest(t, 2, time.Minute)
	mr.Close()

	err := limiter.Reserve(context.Background(), "a@b.com")
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrTooManyAttempts)
}

func TestConnectAndPing(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), Timeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, NewPinger(client).Ping(context.Background()))
}
