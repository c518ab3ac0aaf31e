package guest

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for Guest aggregates.
type Repository interface {
	// FindByID retrieves a guest by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Guest, error)

	// FindByEmail retrieves a guest by email. Returns (nil, nil) when no
	// guest with that email exists.
	FindByEmail(ctx context.Context, email string) (*Guest, error)

	// ListAll retrieves all guests with pagination.
	ListAll(ctx context.Context, page, limit int) ([]*Guest, int64, error)

	// Save persists a new guest.
	Save(ctx context.Context, guest *Guest) error

	// Update persists changes to an existing guest.
	Update(ctx context.Context, guest *Guest) error
}
