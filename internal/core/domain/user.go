package domain

import (
	"strings"
	"time"
)

// Role is the access level carried by a user record and its session token.
type Role string

const (
	RoleUser     Role = "USER"
	RoleAdmin    Role = "ADMIN"
	RoleHoster   Role = "HOSTER"
	RoleDriver   Role = "DRIVER"
	RoleMechanic Role = "MECHANIC"
	RoleCustomer Role = "CUSTOMER"
	RoleManager  Role = "MANAGER"
)

// DefaultRole is assigned on registration when no role, or an unknown one, is supplied.
const DefaultRole = RoleUser

// Roles lists every known role in display order.
var Roles = []Role{RoleUser, RoleAdmin, RoleHoster, RoleDriver, RoleMechanic, RoleCustomer, RoleManager}

var knownRoles = func() map[Role]struct{} {
	m := make(map[Role]struct{}, len(Roles))
	for _, r := range Roles {
		m[r] = struct{}{}
	}
	return m
}()

// RoleNames is Roles joined for error messages: "USER, ADMIN, ...".
func RoleNames() string {
	names := make([]string, len(Roles))
	for i, r := range Roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// ParseRole matches s against the known roles, ignoring case and surrounding space.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := knownRoles[r]
	return r, ok
}

// ResolveRole returns the role named by s, or DefaultRole when s is empty or unknown.
func ResolveRole(s string) Role {
	if r, ok := ParseRole(s); ok {
		return r
	}
	return DefaultRole
}

// NormalizeEmail is the lookup key for a credential record. Login and
// registration must both go through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// User models an account of the admin application.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Projection returns a copy of u that is safe to hand to callers outside
// the auth core: the password hash is always stripped.
func (u *User) Projection() *User {
	if u == nil {
		return nil
	}
	p := *u
	p.PasswordHash = ""
	return &p
}

// Claims is the identity carried inside a session token.
type Claims struct {
	UserID    string
	Email     string
	Name      string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ClaimsFor builds the identity claims for u. Time claims are set by the
// token service at issuance.
func ClaimsFor(u *User) Claims {
	return Claims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
	}
}
