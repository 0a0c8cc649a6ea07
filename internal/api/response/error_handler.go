package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carrental/admin-api/internal/core/domain"
)

const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgAccountDisabled    = "Account is deactivated"
	MsgDuplicateEmail     = "User with this email already exists"
	MsgNoToken            = "No token provided"
	MsgInvalidToken       = "Invalid token"
	MsgTooManyAttempts    = "Too many login attempts"
	MsgForbidden          = "Access forbidden"
	MsgUserNotFound       = "User not found"
	MsgInternal           = "Internal server error"
)

// NewErrorHandler returns an echo.HTTPErrorHandler that:
//   - maps domain errors to their status code and client message;
//   - logs unexpected errors with method and path;
//   - adds the internal cause to the envelope only when exposeDetails is set.
func NewErrorHandler(log zerolog.Logger, exposeDetails bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := Resolve(err)
		env := Envelope{Message: msg, StatusCode: code}

		if code >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
			if exposeDetails {
				env.Error = err.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, env)
	}
}

// Resolve maps err to an HTTP status and the message shown to clients.
func Resolve(err error) (int, string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Msg
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, MsgInvalidCredentials
	case errors.Is(err, domain.ErrAccountDisabled):
		return http.StatusForbidden, MsgAccountDisabled
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, MsgDuplicateEmail
	case errors.Is(err, domain.ErrNoToken):
		return http.StatusUnauthorized, MsgNoToken
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, MsgInvalidToken
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, MsgTooManyAttempts
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, MsgForbidden
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, MsgUserNotFound
	case errors.Is(err, domain.ErrTokenGeneration), errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusInternalServerError, MsgInternal
	}

	// Echo's own errors (404 from router, 405, body too large).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			return he.Code, MsgInternal
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	return http.StatusInternalServerError, MsgInternal
}
