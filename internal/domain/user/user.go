// Package user holds the staff account aggregate used for admin
// authentication.
package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
)

// Role grants a staff account its permission level.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// IsValid returns true if the role is recognized.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// ParseRole converts a string to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(s))
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return r, nil
}

// User is the aggregate root for a staff account. Guests never hold accounts;
// their bookings are keyed by email.
type User struct {
	id           uuid.UUID
	username     string
	passwordHash string
	name         string
	role         Role
	enabled      bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a staff account with a bcrypt-hashed password.
func NewUser(username, password, name string, role Role, now time.Time) (*User, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" {
		return nil, domain.NewValidationError("username is required")
	}
	if len(password) < 8 {
		return nil, domain.NewValidationError("password must be at least 8 characters")
	}
	if !role.IsValid() {
		return nil, domain.NewValidationError("invalid role: " + string(role))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &User{
		id:           uuid.New(),
		username:     username,
		passwordHash: string(hash),
		name:         name,
		role:         role,
		enabled:      true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	username, passwordHash, name string,
	role Role,
	enabled bool,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		username:     username,
		passwordHash: passwordHash,
		name:         name,
		role:         role,
		enabled:      enabled,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the unique identifier.
func (u *User) ID() uuid.UUID { return u.id }

// Username returns the login name.
func (u *User) Username() string { return u.username }

// PasswordHash returns the stored bcrypt hash.
func (u *User) PasswordHash() string { return u.passwordHash }

// Name returns the display name.
func (u *User) Name() string { return u.name }

// Role returns the account role.
func (u *User) Role() Role { return u.role }

// Enabled returns whether the account may log in.
func (u *User) Enabled() bool { return u.enabled }

// CreatedAt returns the creation timestamp.
func (u *User) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt returns the last modification timestamp.
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// CheckPassword compares a login attempt against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) == nil
}

// Disable blocks further logins for the account.
func (u *User) Disable(now time.Time) {
	u.enabled = false
	u.updatedAt = now
}
