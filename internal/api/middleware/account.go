package middleware

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/carrental/admin-api/internal/api/session"
	"github.com/carrental/admin-api/internal/core/domain"
)

// AccountLookup re-reads the account behind a verified session.
type AccountLookup interface {
	ActiveAccount(ctx context.Context, userID string) (*domain.User, error)
}

// LiveAccount swaps the identity Gate took from the token for the stored
// account, so RBAC and handlers act on the current role. A disabled or
// deleted account is rejected with ErrInvalidToken and loses its cookie.
// It must run behind Gate and in front of RBAC.
func LiveAccount(accounts AccountLookup, cookies session.Cookies) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := session.FromContext(c)
			if !ok {
				return domain.ErrNoToken
			}

			user, err := accounts.ActiveAccount(c.Request().Context(), id.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidToken) {
					cookies.Clear(c)
				}
				return err
			}

			c.Set(session.KeyEmail, user.Email)
			c.Set(session.KeyRole, string(user.Role))
			c.Request().Header.Set(session.HeaderUserEmail, user.Email)
			return next(c)
		}
	}
}
