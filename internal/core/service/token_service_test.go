package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/carrental/admin-api/internal/core/domain"
)

var fixedNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// newTestTokenService returns a service whose clock is read through *clock.
func newTestTokenService(t *testing.T, clock *time.Time) *TokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret")
	require.NoError(t, err)
	svc.now = func() time.Time { return *clock }
	return svc
}

func testClaims() domain.Claims {
	return domain.Claims{UserID: "u-1", Email: "a@b.com", Name: "A", Role: domain.RoleAdmin}
}

func TestNewTokenService_RejectsEmptySecret(t *testing.T) {
	_, err := NewTokenService("")
	require.Error(t, err)
}

func TestTokenService_IssueVerifyRoundTrip(t *testing.T) {
	clock := fixedNow
	svc := newTestTokenService(t, &clock)

	token, err := svc.Issue(testClaims())
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.UserID)
	require.Equal(t, "a@b.com", claims.Email)
	require.Equal(t, "A", claims.Name)
	require.Equal(t, domain.RoleAdmin, claims.Role)
	require.True(t, claims.IssuedAt.Equal(fixedNow))
	require.True(t, claims.ExpiresAt.Equal(fixedNow.Add(24*time.Hour)))
}

func TestTokenService_ExpiryBoundary(t *testing.T) {
	clock := fixedNow
	svc := newTestTokenService(t, &clock)

	token, err := svc.Issue(testClaims())
	require.NoError(t, err)

	clock = fixedNow.Add(TokenTTL - time.Second)
	_, err = svc.Verify(token)
	require.NoError(t, err, "one second before expiry must still verify")

	clock = fixedNow.Add(TokenTTL)
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, domain.ErrInvalidToken, "a token is expired at exactly expires-at")
}

func TestTokenService_VerifyFailuresAreIndistinguishable(t *testing.T) {
	clock := fixedNow
	svc := newTestTokenService(t, &clock)

	token, err := svc.Issue(testClaims())
	require.NoError(t, err)
	parts := strings.Split(token, ".")

	other, err := NewTokenService("another-secret")
	require.NoError(t, err)
	other.now = svc.now
	foreign, err := other.Issue(testClaims())
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId": "u-1",
		"exp":    fixedNow.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": "u-1"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":          "",
		"two segments":   parts[0] + "." + parts[1],
		"four segments":  token + ".extra",
		"bad signature":  parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2])),
		"wrong secret":   foreign,
		"alg none":       unsigned,
		"missing expiry": noExpiry,
		"garbage":        "not.a.token",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			claims, err := svc.Verify(input)
			require.Nil(t, claims)
			require.True(t, errors.Is(err, domain.ErrInvalidToken))
			require.Equal(t, domain.ErrInvalidToken.Error(), err.Error())
		})
	}
}

func TestTokenService_RefreshKeepsIdentityAndRenewsTimes(t *testing.T) {
	clock := fixedNow
	svc := newTestTokenService(t, &clock)

	token, err := svc.Issue(testClaims())
	require.NoError(t, err)

	clock = fixedNow.Add(2 * time.Hour)
	refreshed, err := svc.Refresh(token)
	require.NoError(t, err)
	require.NotEqual(t, token, refreshed)

	claims, err := svc.Verify(refreshed)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.UserID)
	require.Equal(t, domain.RoleAdmin, claims.Role)
	require.True(t, claims.IssuedAt.Equal(clock))
	require.True(t, claims.ExpiresAt.Equal(clock.Add(TokenTTL)))
}

func TestTokenService_RefreshRejectsExpiredToken(t *testing.T) {
	clock := fixedNow
	svc := newTestTokenService(t, &clock)

	token, err := svc.Issue(testClaims())
	require.NoError(t, err)

	clock = fixedNow.Add(TokenTTL + time.Minute)
	_, err = svc.Refresh(token)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_IssueWithoutSecretFails(t *testing.T) {
	svc := &TokenService{ttl: TokenTTL, now: time.Now}
	_, err := svc.Issue(testClaims())
	require.ErrorIs(t, err, domain.ErrTokenGeneration)
}
