package room

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for Room aggregates.
type Repository interface {
	// FindByID retrieves a room by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)

	// ExistsByRoomNumber reports whether a room with the given number exists.
	ExistsByRoomNumber(ctx context.Context, roomNumber string) (bool, error)

	// ListAll retrieves all rooms ordered by room number.
	ListAll(ctx context.Context) ([]*Room, error)

	// ListAvailableBetween retrieves rooms that are listed available, in
	// serviceable maintenance state, and free of active bookings overlapping
	// the given date range.
	ListAvailableBetween(ctx context.Context, checkIn, checkOut time.Time) ([]*Room, error)

	// Save persists a new room.
	Save(ctx context.Context, room *Room) error

	// Update persists changes to an existing room.
	Update(ctx context.Context, room *Room) error

	// Delete removes a room.
	Delete(ctx context.Context, id uuid.UUID) error
}
