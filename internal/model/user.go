package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles form a closed set; authorization decisions are a pure function of
// the caller's role and the allowed set.
const (
	RoleUser      = "user"
	RoleAuthority = "authority"
	RoleAdmin     = "admin"
)

// ValidRole reports whether r is a recognized role.
func ValidRole(r string) bool {
	switch r {
	case RoleUser, RoleAuthority, RoleAdmin:
		return true
	}
	return false
}

// RoleAllowed reports whether role belongs to the allowed set.
func RoleAllowed(role string, allowed ...string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"`
	AuthProvider string    `json:"auth_provider,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
