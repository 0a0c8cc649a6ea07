package ports

import "github.com/carrental/admin-api/internal/core/domain"

// TokenVerifier checks a session token and returns its claims. Every
// failure is domain.ErrInvalidToken, whatever check rejected it.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}

// TokenService mints, verifies and refreshes session tokens.
type TokenService interface {
	TokenVerifier
	Issue(claims domain.Claims) (string, error)
	Refresh(token string) (string, error)
}
