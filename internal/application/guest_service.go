package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
	guestDomain "github.com/harborview-hospitality/service-reservation/internal/domain/guest"
	roomDomain "github.com/harborview-hospitality/service-reservation/internal/domain/room"
)

// CreateGuestRequest holds the data for registering a guest profile directly.
type CreateGuestRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
}

// UpdateGuestProfileRequest holds the extended profile fields.
type UpdateGuestProfileRequest struct {
	FirstName           string              `json:"first_name" binding:"required"`
	LastName            string              `json:"last_name"`
	Phone               string              `json:"phone"`
	DateOfBirth         *time.Time          `json:"date_of_birth"`
	Nationality         string              `json:"nationality"`
	PassportNumber      string              `json:"passport_number"`
	IDNumber            string              `json:"id_number"`
	Address             guestDomain.Address `json:"address"`
	PreferredRoomType   string              `json:"preferred_room_type"`
	SmokingPreference   bool                `json:"smoking_preference"`
	FloorPreference     string              `json:"floor_preference"`
	DietaryRestrictions []string            `json:"dietary_restrictions"`
	SpecialRequests     string              `json:"special_requests"`
}

// GuestDTO is the response representation of a guest profile.
type GuestDTO struct {
	ID             uuid.UUID               `json:"id"`
	FirstName      string                  `json:"first_name"`
	LastName       string                  `json:"last_name,omitempty"`
	FullName       string                  `json:"full_name"`
	Email          string                  `json:"email"`
	Phone          string                  `json:"phone,omitempty"`
	DateOfBirth    *time.Time              `json:"date_of_birth,omitempty"`
	Nationality    string                  `json:"nationality,omitempty"`
	Address        guestDomain.Address     `json:"address"`
	Preferences    guestDomain.Preferences `json:"preferences"`
	LoyaltyPoints  int                     `json:"loyalty_points"`
	MembershipTier string                  `json:"membership_tier"`
	TotalBookings  int                     `json:"total_bookings"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// GuestService is the application service for the guest directory.
type GuestService struct {
	guests guestDomain.Repository
	logger *zap.Logger
}

// NewGuestService creates a new GuestService.
func NewGuestService(guests guestDomain.Repository, logger *zap.Logger) *GuestService {
	return &GuestService{guests: guests, logger: logger}
}

// CreateGuest registers a guest profile. Emails are unique across the directory.
func (s *GuestService) CreateGuest(ctx context.Context, req CreateGuestRequest) (*GuestDTO, error) {
	existing, err := s.guests.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewConflictError("guest with this email already exists")
	}

	g, err := guestDomain.NewGuest(req.FirstName, req.LastName, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}

	if err := s.guests.Save(ctx, g); err != nil {
		return nil, err
	}

	result := toGuestDTO(g)
	return &result, nil
}

// UpdateGuestProfile replaces a guest's contact and extended profile fields.
// The email is identity and never changes.
func (s *GuestService) UpdateGuestProfile(ctx context.Context, guestID uuid.UUID, req UpdateGuestProfileRequest) (*GuestDTO, error) {
	g, err := s.guests.FindByID(ctx, guestID)
	if err != nil {
		return nil, err
	}

	if err := g.UpdateContact(req.FirstName, req.LastName, req.Phone); err != nil {
		return nil, err
	}

	prefs := guestDomain.Preferences{
		SmokingPreference:   req.SmokingPreference,
		FloorPreference:     req.FloorPreference,
		DietaryRestrictions: req.DietaryRestrictions,
		SpecialRequests:     req.SpecialRequests,
	}
	if req.PreferredRoomType != "" {
		roomType, err := roomDomain.ParseRoomType(req.PreferredRoomType)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		prefs.PreferredRoomType = roomType
	}

	g.UpdateProfile(req.DateOfBirth, req.Nationality, req.PassportNumber, req.IDNumber, req.Address, prefs)

	if err := s.guests.Update(ctx, g); err != nil {
		return nil, err
	}

	result := toGuestDTO(g)
	return &result, nil
}

// GetGuest retrieves a single guest by ID.
func (s *GuestService) GetGuest(ctx context.Context, guestID uuid.UUID) (*GuestDTO, error) {
	g, err := s.guests.FindByID(ctx, guestID)
	if err != nil {
		return nil, err
	}
	result := toGuestDTO(g)
	return &result, nil
}

// GetGuestByEmail retrieves a single guest by email.
func (s *GuestService) GetGuestByEmail(ctx context.Context, email string) (*GuestDTO, error) {
	g, err := s.guests.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, domain.NewNotFoundError("Guest", email)
	}
	result := toGuestDTO(g)
	return &result, nil
}

// ListGuests returns a paginated list of all guests.
func (s *GuestService) ListGuests(ctx context.Context, page, limit int) (*domain.PaginatedResult[GuestDTO], error) {
	guests, total, err := s.guests.ListAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]GuestDTO, len(guests))
	for i, g := range guests {
		dtos[i] = toGuestDTO(g)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// --- Helpers ---

func toGuestDTO(g *guestDomain.Guest) GuestDTO {
	return GuestDTO{
		ID:             g.ID(),
		FirstName:      g.FirstName(),
		LastName:       g.LastName(),
		FullName:       g.FullName(),
		Email:          g.Email(),
		Phone:          g.Phone(),
		DateOfBirth:    g.DateOfBirth(),
		Nationality:    g.Nationality(),
		Address:        g.Address(),
		Preferences:    g.Preferences(),
		LoyaltyPoints:  g.LoyaltyPoints(),
		MembershipTier: string(g.MembershipTier()),
		TotalBookings:  g.TotalBookings(),
		CreatedAt:      g.CreatedAt(),
		UpdatedAt:      g.UpdatedAt(),
	}
}
