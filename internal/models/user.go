package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles a user account can hold. Role gates mutation routes.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Don't return password hash in JSON
	Role         string `json:"role"`
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
