package payment

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for Payment aggregates.
type Repository interface {
	// FindByID retrieves a payment by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByBookingID retrieves all payments for a booking, oldest first.
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*Payment, error)

	// ListAll retrieves all payments with pagination, newest first.
	ListAll(ctx context.Context, page, limit int) ([]*Payment, int64, error)

	// FindByStatus retrieves all payments in the given settlement status.
	FindByStatus(ctx context.Context, status Status) ([]*Payment, error)

	// Save persists a new payment.
	Save(ctx context.Context, payment *Payment) error

	// Update persists changes to an existing payment.
	Update(ctx context.Context, payment *Payment) error
}
