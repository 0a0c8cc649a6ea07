package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carrental/admin-api/internal/api/session"
	"github.com/carrental/admin-api/internal/core/domain"
	"github.com/carrental/admin-api/internal/core/ports"
	"github.com/carrental/admin-api/internal/infrastructure/tokendebug"
	"github.com/carrental/admin-api/internal/pkg/metrics"
)

// PublicRoute is an entry of the gate's allow-list. Exact routes match only
// the path itself; prefix routes match the path and anything below it.
type PublicRoute struct {
	Path  string
	Exact bool
}

// DefaultPublicRoutes is the allow-list used when GateConfig.PublicRoutes is nil.
var DefaultPublicRoutes = []PublicRoute{
	{Path: "/", Exact: true},
	{Path: "/login"},
	{Path: "/register"},
	{Path: "/api/v1/auth"},
	{Path: "/static/"},
	{Path: "/favicon.ico"},
	{Path: "/health"},
	{Path: "/metrics"},
	{Path: "/swagger/"},
}

type GateConfig struct {
	Tokens       ports.TokenVerifier
	Cookies      session.Cookies
	PublicRoutes []PublicRoute
	// LoginPath is where page requests without a valid session are sent.
	LoginPath string
	// APIPrefix selects paths that get a 401 envelope instead of a redirect.
	APIPrefix string
	Logger    zerolog.Logger
}

// Gate lets public routes through, and otherwise requires a verified
// session token from the bearer header or the authToken cookie.
//
// Verified requests carry the identity on the echo context (session.Key*)
// and in the X-User-Id / X-User-Email request headers. Those headers are
// always stripped from the inbound request first, so a client cannot
// forge them. The gate does not touch the credential store.
func Gate(cfg GateConfig) echo.MiddlewareFunc {
	if cfg.PublicRoutes == nil {
		cfg.PublicRoutes = DefaultPublicRoutes
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/"
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			req.Header.Del(session.HeaderUserID)
			req.Header.Del(session.HeaderUserEmail)

			path := req.URL.Path
			if isPublic(path, cfg.PublicRoutes) {
				metrics.GateDecisionsTotal.WithLabelValues("public").Inc()
				return next(c)
			}

			token := session.TokenFromRequest(req)
			if token == "" {
				metrics.GateDecisionsTotal.WithLabelValues("no_token").Inc()
				return cfg.deny(c, path, domain.ErrNoToken)
			}

			claims, err := cfg.Tokens.Verify(token)
			if err != nil {
				metrics.GateDecisionsTotal.WithLabelValues("invalid_token").Inc()
				ev := cfg.Logger.Debug().Str("path", path)
				if unverified := tokendebug.Decode(token); unverified != nil {
					ev = ev.Str("unverified_sub", unverified.UserID)
				}
				ev.Msg("session token rejected")

				cfg.Cookies.Clear(c)
				return cfg.deny(c, path, domain.ErrInvalidToken)
			}

			c.Set(session.KeyUserID, claims.UserID)
			c.Set(session.KeyEmail, claims.Email)
			c.Set(session.KeyRole, string(claims.Role))
			req.Header.Set(session.HeaderUserID, claims.UserID)
			req.Header.Set(session.HeaderUserEmail, claims.Email)

			metrics.GateDecisionsTotal.WithLabelValues("authenticated").Inc()
			return next(c)
		}
	}
}

func (cfg GateConfig) deny(c echo.Context, path string, err error) error {
	if strings.HasPrefix(path, cfg.APIPrefix) {
		return err
	}
	return c.Redirect(http.StatusSeeOther, cfg.LoginPath)
}

// isPublic matches on whole path segments: "/login" covers "/login/reset"
// but not "/loginx".
func isPublic(path string, routes []PublicRoute) bool {
	for _, r := range routes {
		switch {
		case path == r.Path:
			return true
		case r.Exact || !strings.HasPrefix(path, r.Path):
			continue
		case strings.HasSuffix(r.Path, "/") || path[len(r.Path)] == '/':
			return true
		}
	}
	return false
}
