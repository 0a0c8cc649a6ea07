package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestResolveRole_DefaultsToUser(t *testing.T) {
	if DefaultRole != RoleUser {
		t.Fatalf("expected default role USER, got %s", DefaultRole)
	}

	cases := map[string]Role{
		"":          RoleUser,
		"   ":       RoleUser,
		"superuser": RoleUser,
		"admin":     RoleAdmin,
		" Manager ": RoleManager,
		"DRIVER":    RoleDriver,
		"customer":  RoleCustomer,
	}
	for in, want := range cases {
		if got := ResolveRole(in); got != want {
			t.Errorf("ResolveRole(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseRole_RejectsUnknown(t *testing.T) {
	if _, ok := ParseRole("root"); ok {
		t.Fatalf("expected root to be rejected")
	}
	if r, ok := ParseRole("hoster"); !ok || r != RoleHoster {
		t.Fatalf("expected HOSTER, got %s (%v)", r, ok)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Fatalf("unexpected normalized email %q", got)
	}
}

func TestUserProjection_StripsPasswordHash(t *testing.T) {
	u := &User{ID: "1", Email: "a@b.com", PasswordHash: "$2a$12$hash", Role: RoleAdmin, Active: true}

	p := u.Projection()
	if p.PasswordHash != "" {
		t.Fatalf("projection kept password hash")
	}
	if u.PasswordHash == "" {
		t.Fatalf("projection mutated the source record")
	}

	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "password") || strings.Contains(string(raw), "$2a$") {
		t.Fatalf("password material leaked into json: %s", raw)
	}
}

func TestValidationError_MatchesSentinel(t *testing.T) {
	var err error = NewValidationError("email is required")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected errors.Is(ErrValidation)")
	}
	if err.Error() != "email is required" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
