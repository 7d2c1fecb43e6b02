package domain

import (
	"strings"
	"time"
)

// Role is the coarse permission class attached to an Identity.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole normalizes the spellings that reach the API ("admin", "ADMIN",
// "ROLE_ADMIN", " Admin ") into the closed Role set.
func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "role_")
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	default:
		return "", false
	}
}

// Authority returns the "ROLE_<NAME>" form some clients expect.
func (r Role) Authority() string {
	return "ROLE_" + strings.ToUpper(string(r))
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Identity models an account that can authenticate against the API.
type Identity struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IdentityStats is the head count over all identities.
type IdentityStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

// Principal is the caller resolved from a validated token.
type Principal struct {
	Username string
	Role     Role
}
