package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/carrental/admin-api/internal/api/session"
	"github.com/carrental/admin-api/internal/core/domain"
)

// ctxIdentity returns the identity the gate attached to the request.
// Reaching a protected handler without one means the gate is not mounted.
func ctxIdentity(c echo.Context) (session.Identity, error) {
	id, ok := session.FromContext(c)
	if !ok {
		return session.Identity{}, domain.ErrNoToken
	}
	return id, nil
}

type normalizer interface {
	normalize()
}

// bindAndValidate decodes the request into req and runs struct validation.
// A body that does not decode is a validation error, not a 500.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("Invalid request body")
	}
	if n, ok := req.(normalizer); ok {
		n.normalize()
	}
	return c.Validate(req)
}
