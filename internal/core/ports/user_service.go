package ports

import (
	"context"

	"github.com/carrental/admin-api/internal/core/domain"
)

type ListUsersInput struct {
	Page  int // 1-based
	Limit int // capped by the service
}

type UserPage struct {
	Users      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CreateUserInput is an account created by an administrator. Role is required.
type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// UserService backs the user administration screens.
type UserService interface {
	List(ctx context.Context, in ListUsersInput) (*UserPage, error)
	Create(ctx context.Context, actorID string, in CreateUserInput) (*domain.User, error)
	SetActive(ctx context.Context, actorID, userID string, active bool) (*domain.User, error)
}
