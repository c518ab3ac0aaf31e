package room

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
)

// RoomType categorizes a room by its bed and comfort class.
type RoomType string

const (
	TypeSingle RoomType = "SINGLE"
	TypeDouble RoomType = "DOUBLE"
	TypeSuite  RoomType = "SUITE"
	TypeDeluxe RoomType = "DELUXE"
)

// IsValid returns true if the room type is recognized.
func (t RoomType) IsValid() bool {
	switch t {
	case TypeSingle, TypeDouble, TypeSuite, TypeDeluxe:
		return true
	}
	return false
}

// ParseRoomType converts a string to a RoomType, returning an error if invalid.
func ParseRoomType(s string) (RoomType, error) {
	t := RoomType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid room type: %s", s)
	}
	return t, nil
}

// MaintenanceStatus represents the operational state of a room.
type MaintenanceStatus string

const (
	MaintenanceAvailable  MaintenanceStatus = "AVAILABLE"
	MaintenanceUnderWork  MaintenanceStatus = "UNDER_MAINTENANCE"
	MaintenanceOutOfOrder MaintenanceStatus = "OUT_OF_ORDER"
)

// IsValid returns true if the maintenance status is recognized.
func (s MaintenanceStatus) IsValid() bool {
	switch s {
	case MaintenanceAvailable, MaintenanceUnderWork, MaintenanceOutOfOrder:
		return true
	}
	return false
}

// ParseMaintenanceStatus converts a string to a MaintenanceStatus.
func ParseMaintenanceStatus(s string) (MaintenanceStatus, error) {
	st := MaintenanceStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid maintenance status: %s", s)
	}
	return st, nil
}

// Attributes holds the mutable descriptive fields of a room.
type Attributes struct {
	RoomNumber     string
	Type           RoomType
	PricePerNight  float64
	Capacity       int
	SizeSqm        float64
	BedType        string
	Description    string
	Amenities      []string
	Images         []string
	Floor          int
	View           string
	SmokingAllowed bool
	PetFriendly    bool
}

// Room is the aggregate root for a hotel room.
type Room struct {
	id                uuid.UUID
	attrs             Attributes
	isAvailable       bool
	maintenanceStatus MaintenanceStatus
	rating            float64
	reviewCount       int
	createdAt         time.Time
	updatedAt         time.Time
}

// NewRoom creates a new bookable room with validated fields.
func NewRoom(attrs Attributes) (*Room, error) {
	if attrs.RoomNumber == "" {
		return nil, domain.NewValidationError("room number is required")
	}
	if !attrs.Type.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid room type: %s", attrs.Type))
	}
	if attrs.PricePerNight <= 0 {
		return nil, domain.NewValidationError("price per night must be positive")
	}
	if attrs.Capacity <= 0 {
		return nil, domain.NewValidationError("capacity must be positive")
	}

	now := time.Now().UTC()
	return &Room{
		id:                uuid.New(),
		attrs:             attrs,
		isAvailable:       true,
		maintenanceStatus: MaintenanceAvailable,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// Reconstruct rebuilds a Room from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	attrs Attributes,
	isAvailable bool,
	maintenanceStatus MaintenanceStatus,
	rating float64,
	reviewCount int,
	createdAt, updatedAt time.Time,
) *Room {
	return &Room{
		id:                id,
		attrs:             attrs,
		isAvailable:       isAvailable,
		maintenanceStatus: maintenanceStatus,
		rating:            rating,
		reviewCount:       reviewCount,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// ID returns the room's unique identifier.
func (r *Room) ID() uuid.UUID { return r.id }

// RoomNumber returns the human-facing room number.
func (r *Room) RoomNumber() string { return r.attrs.RoomNumber }

// Type returns the room type.
func (r *Room) Type() RoomType { return r.attrs.Type }

// PricePerNight returns the nightly rate.
func (r *Room) PricePerNight() float64 { return r.attrs.PricePerNight }

// Capacity returns the maximum number of guests.
func (r *Room) Capacity() int { return r.attrs.Capacity }

// Attributes returns a copy of the room's descriptive attributes.
func (r *Room) Attributes() Attributes { return r.attrs }

// IsAvailable returns the listing availability flag. This flag is independent
// of the maintenance status.
func (r *Room) IsAvailable() bool { return r.isAvailable }

// MaintenanceStatus returns the room's operational state.
func (r *Room) MaintenanceStatus() MaintenanceStatus { return r.maintenanceStatus }

// Rating returns the average review rating.
func (r *Room) Rating() float64 { return r.rating }

// ReviewCount returns the number of reviews.
func (r *Room) ReviewCount() int { return r.reviewCount }

// CreatedAt returns the creation timestamp.
func (r *Room) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (r *Room) UpdatedAt() time.Time { return r.updatedAt }

// IsBookable reports whether new bookings may target this room.
func (r *Room) IsBookable() bool {
	return r.maintenanceStatus == MaintenanceAvailable
}

// UpdateAttributes replaces the room's descriptive attributes.
func (r *Room) UpdateAttributes(attrs Attributes) error {
	if attrs.RoomNumber == "" {
		return domain.NewValidationError("room number is required")
	}
	if !attrs.Type.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid room type: %s", attrs.Type))
	}
	if attrs.PricePerNight <= 0 {
		return domain.NewValidationError("price per night must be positive")
	}
	if attrs.Capacity <= 0 {
		return domain.NewValidationError("capacity must be positive")
	}
	r.attrs = attrs
	r.updatedAt = time.Now().UTC()
	return nil
}

// SetAvailability toggles the listing availability flag.
func (r *Room) SetAvailability(available bool) {
	r.isAvailable = available
	r.updatedAt = time.Now().UTC()
}

// SetMaintenanceStatus moves the room into the given operational state.
func (r *Room) SetMaintenanceStatus(status MaintenanceStatus) error {
	if !status.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid maintenance status: %s", status))
	}
	r.maintenanceStatus = status
	r.updatedAt = time.Now().UTC()
	return nil
}
