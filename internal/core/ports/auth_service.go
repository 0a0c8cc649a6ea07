package ports

import (
	"context"

	"github.com/carrental/admin-api/internal/core/domain"
)

type LoginInput struct {
	Email    string
	Password string
	RemoteIP string
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
	RemoteIP string
}

// Session is the artifact handed back after a successful login or refresh.
type Session struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*Session, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	VerifySession(ctx context.Context, token string) (*domain.User, error)
	Refresh(ctx context.Context, token string) (*Session, error)
	Logout(ctx context.Context, token string)
}
