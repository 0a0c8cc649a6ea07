// Package session moves the session token between HTTP requests and the
// auth core: the authToken cookie, the bearer header, and the identity
// keys the gate stores on the echo context.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	CookieName = "authToken"
	// MaxAge matches the token lifetime.
	MaxAge = 24 * 60 * 60

	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
)

// Keys set on echo.Context by the gate for verified requests.
const (
	KeyUserID = "user_id"
	KeyEmail  = "email"
	KeyRole   = "role"
)

// Cookies writes and clears the session cookie.
type Cookies struct {
	Secure bool
}

func (k Cookies) Set(c echo.Context, token string) {
	c.SetCookie(k.cookie(token, MaxAge, time.Now().Add(MaxAge*time.Second)))
}

func (k Cookies) Clear(c echo.Context) {
	c.SetCookie(k.cookie("", -1, time.Unix(0, 0)))
}

func (k Cookies) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   k.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// TokenFromRequest returns the bearer token if the Authorization header
// carries one, else the authToken cookie value, else "".
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get(echo.HeaderAuthorization); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "bearer") {
			if token = strings.TrimSpace(token); token != "" {
				return token
			}
		}
	}
	if ck, err := r.Cookie(CookieName); err == nil {
		return ck.Value
	}
	return ""
}

// Identity is what the gate recorded for the current request.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// FromContext reads the identity set by the gate. ok is false when the
// request did not pass through it.
func FromContext(c echo.Context) (Identity, bool) {
	id := Identity{}
	id.UserID, _ = c.Get(KeyUserID).(string)
	id.Email, _ = c.Get(KeyEmail).(string)
	id.Role, _ = c.Get(KeyRole).(string)
	return id, id.UserID != ""
}
