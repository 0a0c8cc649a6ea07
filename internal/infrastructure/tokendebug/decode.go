// Package tokendebug reads session token claims WITHOUT checking the
// signature or expiry. It exists for logs and diagnostics only; nothing
// it returns may be used to grant access. Use ports.TokenVerifier for that.
package tokendebug

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/carrental/admin-api/internal/core/domain"
)

// Decode splits token and decodes its payload. It returns nil when the
// token is not three base64url segments carrying a JSON object.
func Decode(token string) *domain.Claims {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}

	out := &domain.Claims{
		UserID: stringClaim(claims, "userId"),
		Email:  stringClaim(claims, "email"),
		Name:   stringClaim(claims, "name"),
		Role:   domain.Role(stringClaim(claims, "role")),
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
