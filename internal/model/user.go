package model

import (
	"slices"
	"time"
)

// Role represents a staff role that can be assigned to a user
type Role string

const (
	RoleEmployee Role = "Employee" // Default role
	RoleManager  Role = "Manager"
	RoleAdmin    Role = "Admin"
)

// IsValid returns true if the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

// DefaultRoles is assigned to users created without explicit roles.
func DefaultRoles() []Role {
	return []Role{RoleEmployee}
}

// User represents a user account
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // bcrypt hash, never exposed
	Roles     []Role    `json:"roles"`
	Active    bool      `json:"active"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// HasRole returns true if the user holds the given role
func (u *User) HasRole(role Role) bool {
	return slices.Contains(u.Roles, role)
}

// RoleStrings returns the user's roles as plain strings, as carried in tokens.
func (u *User) RoleStrings() []string {
	out := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		out[i] = string(r)
	}
	return out
}

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Roles    []Role `json:"roles,omitempty" validate:"omitempty,dive,oneof=Employee Manager Admin"`
}

// UpdateUserRequest represents a request to update a user.
// Password is only changed when non-empty.
type UpdateUserRequest struct {
	ID       string `json:"id" validate:"required"`
	Username string `json:"username" validate:"required"`
	Roles    []Role `json:"roles" validate:"required,min=1,dive,oneof=Employee Manager Admin"`
	Active   bool   `json:"active"`
	Password string `json:"password,omitempty"`
}

// DeleteUserRequest represents a request to delete a user
type DeleteUserRequest struct {
	ID string `json:"id" validate:"required"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
