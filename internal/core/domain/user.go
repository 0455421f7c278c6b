package domain

import (
	"errors"
	"time"
)

// Role is the enumerated set of access levels. Keeping it a dedicated type
// avoids ad hoc string comparisons spread across handlers.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// CanManageUsers reports whether the role grants access to user administration.
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}

// MinPasswordLength is the minimum accepted password length for registration,
// password changes and admin resets.
const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSelfModification   = errors.New("cannot deactivate or delete your own account")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidRole        = errors.New("invalid role")
)

// User models an authenticated actor in the system. The password hash never
// leaves the server; the json tag excludes it from every response.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Active       bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
