package ports

import (
	"context"

	"github.com/carrental/admin-api/internal/core/domain"
)

// ListUsersFilter selects a page of credential records, newest first.
type ListUsersFilter struct {
	Offset int
	Limit  int
}

// CredentialStore is the persistence boundary for user records. Emails are
// passed already normalized.
//
// Lookups return domain.ErrUserNotFound when no record matches. Create must
// return domain.ErrDuplicateEmail when the store's uniqueness constraint on
// email rejects the insert; that error is the authoritative conflict signal.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
