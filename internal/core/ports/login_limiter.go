package ports

import "context"

// LoginLimiter throttles login attempts for one account.
//
// Reserve counts an attempt up front and returns domain.ErrTooManyAttempts
// when the budget is spent. Reset is called after a successful login.
type LoginLimiter interface {
	Reserve(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}
