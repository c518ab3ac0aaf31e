package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
	guestDomain "github.com/harborview-hospitality/service-reservation/internal/domain/guest"
)

// GuestModel is the GORM model for the guests table.
type GuestModel struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	FirstName      string         `gorm:"not null;size:100"`
	LastName       string         `gorm:"size:100"`
	Email          string         `gorm:"uniqueIndex;not null;size:200"`
	Phone          string         `gorm:"size:50"`
	DateOfBirth    *time.Time     `gorm:"type:date"`
	Nationality    string         `gorm:"size:100"`
	PassportNumber string         `gorm:"size:50"`
	IDNumber       string         `gorm:"size:50"`
	Address        datatypes.JSON `gorm:"type:jsonb"`
	Preferences    datatypes.JSON `gorm:"type:jsonb"`
	LoyaltyPoints  int            `gorm:"not null;default:0"`
	MembershipTier string         `gorm:"not null;size:20"`
	TotalBookings  int            `gorm:"not null;default:0"`
	CreatedAt      time.Time      `gorm:"not null"`
	UpdatedAt      time.Time      `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (GuestModel) TableName() string {
	return "guests"
}

// GormGuestRepository is the GORM-based implementation of guest.Repository.
type GormGuestRepository struct {
	db *gorm.DB
}

// NewGormGuestRepository creates a new GormGuestRepository.
func NewGormGuestRepository(db *gorm.DB) *GormGuestRepository {
	return &GormGuestRepository{db: db}
}

// FindByID retrieves a guest by its unique identifier.
func (r *GormGuestRepository) FindByID(ctx context.Context, id uuid.UUID) (*guestDomain.Guest, error) {
	var model GuestModel
	if err := dbFor(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Guest", id.String())
		}
		return nil, fmt.Errorf("failed to find guest by ID: %w", err)
	}
	return toDomainGuest(&model)
}

// FindByEmail retrieves a guest by email. A missing guest is not an error:
// the result is (nil, nil) so callers can branch into lookup-or-create.
func (r *GormGuestRepository) FindByEmail(ctx context.Context, email string) (*guestDomain.Guest, error) {
	var model GuestModel
	if err := dbFor(ctx, r.db).WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find guest by email: %w", err)
	}
	return toDomainGuest(&model)
}

// ListAll retrieves all guests with pagination, newest first.
func (r *GormGuestRepository) ListAll(ctx context.Context, page, limit int) ([]*guestDomain.Guest, int64, error) {
	var total int64
	if err := dbFor(ctx, r.db).WithContext(ctx).Model(&GuestModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count guests: %w", err)
	}

	var models []GuestModel
	offset := (page - 1) * limit
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list guests: %w", err)
	}

	guests := make([]*guestDomain.Guest, len(models))
	for i, m := range models {
		g, err := toDomainGuest(&m)
		if err != nil {
			return nil, 0, err
		}
		guests[i] = g
	}
	return guests, total, nil
}

// Save persists a new guest.
func (r *GormGuestRepository) Save(ctx context.Context, g *guestDomain.Guest) error {
	model, err := toGuestModel(g)
	if err != nil {
		return err
	}
	if err := dbFor(ctx, r.db).WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save guest: %w", err)
	}
	return nil
}

// Update persists changes to an existing guest.
func (r *GormGuestRepository) Update(ctx context.Context, g *guestDomain.Guest) error {
	model, err := toGuestModel(g)
	if err != nil {
		return err
	}
	result := dbFor(ctx, r.db).WithContext(ctx).Where("id = ?", model.ID).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update guest: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Guest", model.ID.String())
	}
	return nil
}

// --- Conversion helpers ---

func toGuestModel(g *guestDomain.Guest) (*GuestModel, error) {
	address, err := json.Marshal(g.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal guest address: %w", err)
	}
	preferences, err := json.Marshal(g.Preferences())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal guest preferences: %w", err)
	}

	return &GuestModel{
		ID:             g.ID(),
		FirstName:      g.FirstName(),
		LastName:       g.LastName(),
		Email:          g.Email(),
		Phone:          g.Phone(),
		DateOfBirth:    g.DateOfBirth(),
		Nationality:    g.Nationality(),
		PassportNumber: g.PassportNumber(),
		IDNumber:       g.IDNumber(),
		Address:        datatypes.JSON(address),
		Preferences:    datatypes.JSON(preferences),
		LoyaltyPoints:  g.LoyaltyPoints(),
		MembershipTier: string(g.MembershipTier()),
		TotalBookings:  g.TotalBookings(),
		CreatedAt:      g.CreatedAt(),
		UpdatedAt:      g.UpdatedAt(),
	}, nil
}

func toDomainGuest(m *GuestModel) (*guestDomain.Guest, error) {
	tier, err := guestDomain.ParseMembershipTier(m.MembershipTier)
	if err != nil {
		return nil, err
	}

	var address guestDomain.Address
	if len(m.Address) > 0 {
		if err := json.Unmarshal(m.Address, &address); err != nil {
			return nil, fmt.Errorf("failed to unmarshal guest address: %w", err)
		}
	}
	var preferences guestDomain.Preferences
	if len(m.Preferences) > 0 {
		if err := json.Unmarshal(m.Preferences, &preferences); err != nil {
			return nil, fmt.Errorf("failed to unmarshal guest preferences: %w", err)
		}
	}

	return guestDomain.Reconstruct(
		m.ID,
		m.FirstName,
		m.LastName,
		m.Email,
		m.Phone,
		m.DateOfBirth,
		m.Nationality,
		m.PassportNumber,
		m.IDNumber,
		address,
		preferences,
		m.LoyaltyPoints,
		tier,
		m.TotalBookings,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
