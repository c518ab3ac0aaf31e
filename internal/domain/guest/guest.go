package guest

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
	"github.com/harborview-hospitality/service-reservation/internal/domain/room"
)

// MembershipTier represents the guest's loyalty program level.
type MembershipTier string

const (
	TierBronze   MembershipTier = "BRONZE"
	TierSilver   MembershipTier = "SILVER"
	TierGold     MembershipTier = "GOLD"
	TierPlatinum MembershipTier = "PLATINUM"
)

// IsValid returns true if the membership tier is recognized.
func (t MembershipTier) IsValid() bool {
	switch t {
	case TierBronze, TierSilver, TierGold, TierPlatinum:
		return true
	}
	return false
}

// ParseMembershipTier converts a string to a MembershipTier.
func ParseMembershipTier(s string) (MembershipTier, error) {
	t := MembershipTier(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid membership tier: %s", s)
	}
	return t, nil
}

// Address holds a postal address.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Preferences holds stay preferences recorded on the guest profile.
type Preferences struct {
	PreferredRoomType   room.RoomType `json:"preferred_room_type,omitempty"`
	SmokingPreference   bool          `json:"smoking_preference"`
	FloorPreference     string        `json:"floor_preference,omitempty"`
	DietaryRestrictions []string      `json:"dietary_restrictions,omitempty"`
	SpecialRequests     string        `json:"special_requests,omitempty"`
}

// Guest is the aggregate root for a guest identity record, deduplicated by email.
type Guest struct {
	id             uuid.UUID
	firstName      string
	lastName       string
	email          string
	phone          string
	dateOfBirth    *time.Time
	nationality    string
	passportNumber string
	idNumber       string
	address        Address
	preferences    Preferences
	loyaltyPoints  int
	membershipTier MembershipTier
	totalBookings  int
	createdAt      time.Time
	updatedAt      time.Time
}

// NewGuest creates a new guest profile with validated identity fields.
func NewGuest(firstName, lastName, email, phone string) (*Guest, error) {
	if email == "" {
		return nil, domain.NewValidationError("guest email is required")
	}
	if firstName == "" {
		return nil, domain.NewValidationError("guest first name is required")
	}

	now := time.Now().UTC()
	return &Guest{
		id:             uuid.New(),
		firstName:      firstName,
		lastName:       lastName,
		email:          email,
		phone:          phone,
		membershipTier: TierBronze,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// NewGuestFromFullName creates a guest by splitting a full name into first and
// last parts. The first token becomes the first name; the remainder, if any,
// becomes the last name.
func NewGuestFromFullName(fullName, email, phone string) (*Guest, error) {
	parts := strings.SplitN(strings.TrimSpace(fullName), " ", 2)
	first := parts[0]
	last := ""
	if len(parts) > 1 {
		last = parts[1]
	}
	return NewGuest(first, last, email, phone)
}

// Reconstruct rebuilds a Guest from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	firstName, lastName, email, phone string,
	dateOfBirth *time.Time,
	nationality, passportNumber, idNumber string,
	address Address,
	preferences Preferences,
	loyaltyPoints int,
	membershipTier MembershipTier,
	totalBookings int,
	createdAt, updatedAt time.Time,
) *Guest {
	return &Guest{
		id:             id,
		firstName:      firstName,
		lastName:       lastName,
		email:          email,
		phone:          phone,
		dateOfBirth:    dateOfBirth,
		nationality:    nationality,
		passportNumber: passportNumber,
		idNumber:       idNumber,
		address:        address,
		preferences:    preferences,
		loyaltyPoints:  loyaltyPoints,
		membershipTier: membershipTier,
		totalBookings:  totalBookings,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// ID returns the guest's unique identifier.
func (g *Guest) ID() uuid.UUID { return g.id }

// FirstName returns the guest's first name.
func (g *Guest) FirstName() string { return g.firstName }

// LastName returns the guest's last name.
func (g *Guest) LastName() string { return g.lastName }

// FullName returns the guest's display name.
func (g *Guest) FullName() string {
	return strings.TrimSpace(g.firstName + " " + g.lastName)
}

// Email returns the guest's unique email address.
func (g *Guest) Email() string { return g.email }

// Phone returns the guest's phone number.
func (g *Guest) Phone() string { return g.phone }

// DateOfBirth returns the guest's date of birth, or nil if unknown.
func (g *Guest) DateOfBirth() *time.Time { return g.dateOfBirth }

// Nationality returns the guest's nationality.
func (g *Guest) Nationality() string { return g.nationality }

// PassportNumber returns the guest's passport number.
func (g *Guest) PassportNumber() string { return g.passportNumber }

// IDNumber returns the guest's national id number.
func (g *Guest) IDNumber() string { return g.idNumber }

// Address returns the guest's postal address.
func (g *Guest) Address() Address { return g.address }

// Preferences returns the guest's stay preferences.
func (g *Guest) Preferences() Preferences { return g.preferences }

// LoyaltyPoints returns the accumulated loyalty points.
func (g *Guest) LoyaltyPoints() int { return g.loyaltyPoints }

// MembershipTier returns the loyalty program tier.
func (g *Guest) MembershipTier() MembershipTier { return g.membershipTier }

// TotalBookings returns the number of bookings made by this guest.
func (g *Guest) TotalBookings() int { return g.totalBookings }

// CreatedAt returns the creation timestamp.
func (g *Guest) CreatedAt() time.Time { return g.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (g *Guest) UpdatedAt() time.Time { return g.updatedAt }

// UpdateContact replaces the guest's contact fields.
func (g *Guest) UpdateContact(firstName, lastName, phone string) error {
	if firstName == "" {
		return domain.NewValidationError("guest first name is required")
	}
	g.firstName = firstName
	g.lastName = lastName
	g.phone = phone
	g.updatedAt = time.Now().UTC()
	return nil
}

// UpdateProfile replaces the guest's extended profile fields.
func (g *Guest) UpdateProfile(dateOfBirth *time.Time, nationality, passportNumber, idNumber string, address Address, prefs Preferences) {
	g.dateOfBirth = dateOfBirth
	g.nationality = nationality
	g.passportNumber = passportNumber
	g.idNumber = idNumber
	g.address = address
	g.preferences = prefs
	g.updatedAt = time.Now().UTC()
}

// RecordBooking increments the guest's booking counter.
func (g *Guest) RecordBooking() {
	g.totalBookings++
	g.updatedAt = time.Now().UTC()
}

// AddLoyaltyPoints credits loyalty points to the guest.
func (g *Guest) AddLoyaltyPoints(points int) {
	if points <= 0 {
		return
	}
	g.loyaltyPoints += points
	g.updatedAt = time.Now().UTC()
}
