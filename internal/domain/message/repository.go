package message

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for Message aggregates.
type Repository interface {
	// FindByID retrieves a message by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)

	// ListAll retrieves all messages, newest first.
	ListAll(ctx context.Context) ([]*Message, error)

	// FindByStatus retrieves messages in the given status, newest first.
	FindByStatus(ctx context.Context, status Status) ([]*Message, error)

	// Save persists a new message.
	Save(ctx context.Context, msg *Message) error

	// Update persists changes to an existing message.
	Update(ctx context.Context, msg *Message) error
}
