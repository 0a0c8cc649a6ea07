package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/carrental/admin-api/internal/api/session"
	"github.com/carrental/admin-api/internal/core/domain"
)

type accountLookupFunc func(ctx context.Context, userID string) (*domain.User, error)

func (f accountLookupFunc) ActiveAccount(ctx context.Context, userID string) (*domain.User, error) {
	return f(ctx, userID)
}

func serveLiveAccount(t *testing.T, lookup AccountLookup, role string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/users", nil), rec)
	c.Set(session.KeyUserID, "u-1")
	c.Set(session.KeyEmail, "old@example.com")
	c.Set(session.KeyRole, role)

	h := LiveAccount(lookup, session.Cookies{})(next)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestLiveAccount_UsesStoredRole(t *testing.T) {
	lookup := accountLookupFunc(func(_ context.Context, id string) (*domain.User, error) {
		return &domain.User{ID: id, Email: "new@example.com", Role: domain.RoleDriver, Active: true}, nil
	})

	var seenRole, seenEmail string
	rec := serveLiveAccount(t, lookup, "ADMIN", func(c echo.Context) error {
		id, _ := session.FromContext(c)
		seenRole, seenEmail = id.Role, id.Email
		return c.NoContent(http.StatusOK)
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seenRole != "DRIVER" || seenEmail != "new@example.com" {
		t.Fatalf("identity not refreshed: role=%s email=%s", seenRole, seenEmail)
	}
}

func TestLiveAccount_DemotedAdminFailsRBAC(t *testing.T) {
	lookup := accountLookupFunc(func(_ context.Context, id string) (*domain.User, error) {
		return &domain.User{ID: id, Role: domain.RoleUser, Active: true}, nil
	})

	rec := serveLiveAccount(t, lookup, "ADMIN", RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("demoted account must not reach the handler")
		return nil
	}))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestLiveAccount_RejectsDisabledAccount(t *testing.T) {
	lookup := accountLookupFunc(func(context.Context, string) (*domain.User, error) {
		return nil, domain.ErrInvalidToken
	})

	rec := serveLiveAccount(t, lookup, "ADMIN", func(c echo.Context) error {
		t.Fatalf("disabled account must not reach the handler")
		return nil
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), "Max-Age=0") {
		t.Fatalf("expected session cookie to be cleared")
	}
}

func TestLiveAccount_StoreFailureIsServerError(t *testing.T) {
	lookup := accountLookupFunc(func(context.Context, string) (*domain.User, error) {
		return nil, errors.Join(domain.ErrStoreUnavailable, errors.New("timeout"))
	})

	rec := serveLiveAccount(t, lookup, "ADMIN", func(c echo.Context) error {
		t.Fatalf("must not reach the handler")
		return nil
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
