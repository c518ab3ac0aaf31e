package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for Booking aggregates.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByNumber retrieves a booking by its human-readable booking number.
	FindByNumber(ctx context.Context, number string) (*Booking, error)

	// ListAll retrieves all bookings with pagination, newest first.
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// FindByGuestEmail retrieves bookings whose contact snapshot carries the
	// given email, newest first.
	FindByGuestEmail(ctx context.Context, email string) ([]*Booking, error)

	// HasConflict reports whether any active booking for the room overlaps
	// the [checkIn, checkOut] range under the inclusive-boundary rule
	// (existing.checkIn <= checkOut AND existing.checkOut >= checkIn).
	// excludeID, when non-nil, removes that booking from consideration.
	HasConflict(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, excludeID *uuid.UUID) (bool, error)

	// ExistsActiveForRoom reports whether the room has any booking in a
	// non-terminal status.
	ExistsActiveForRoom(ctx context.Context, roomID uuid.UUID) (bool, error)

	// CountByStatus returns booking counts grouped by status.
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error

	// Delete hard-deletes a booking together with its payments. The payments
	// are removed first inside the same transaction so a payment never
	// outlives its booking.
	Delete(ctx context.Context, id uuid.UUID) error
}
