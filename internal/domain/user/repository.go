package user

import "context"

// Repository defines the persistence contract for User aggregates.
type Repository interface {
	// FindByUsername retrieves a user by login name, or nil when absent.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// ExistsByUsername reports whether the login name is taken.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// Save persists a new user.
	Save(ctx context.Context, u *User) error
}
