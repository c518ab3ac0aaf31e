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
	roomDomain "github.com/harborview-hospitality/service-reservation/internal/domain/room"
)

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	RoomNumber     string         `gorm:"uniqueIndex;not null;size:20"`
	Type           string         `gorm:"not null;size:20;index"`
	PricePerNight  float64        `gorm:"not null"`
	Capacity       int            `gorm:"not null"`
	SizeSqm        float64        `gorm:"not null;default:0"`
	BedType        string         `gorm:"size:50"`
	Description    string         `gorm:"size:1000"`
	Amenities      datatypes.JSON `gorm:"type:jsonb"`
	Images         datatypes.JSON `gorm:"type:jsonb"`
	Floor          int            `gorm:"not null;default:0"`
	View           string         `gorm:"size:50"`
	SmokingAllowed bool           `gorm:"not null;default:false"`
	PetFriendly    bool           `gorm:"not null;default:false"`

	IsAvailable       bool    `gorm:"not null;default:true;index"`
	MaintenanceStatus string  `gorm:"not null;size:20"`
	Rating            float64 `gorm:"not null;default:0"`
	ReviewCount       int     `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RoomModel) TableName() string {
	return "rooms"
}

// GormRoomRepository is the GORM-based implementation of room.Repository.
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository.
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// FindByID retrieves a room by its unique identifier.
func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	var model RoomModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Room", id.String())
		}
		return nil, fmt.Errorf("failed to find room by ID: %w", err)
	}
	return toDomainRoom(&model)
}

// ExistsByRoomNumber reports whether a room with the given number exists.
func (r *GormRoomRepository) ExistsByRoomNumber(ctx context.Context, roomNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&RoomModel{}).
		Where("room_number = ?", roomNumber).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check room number: %w", err)
	}
	return count > 0, nil
}

// ListAll retrieves every room ordered by room number.
func (r *GormRoomRepository) ListAll(ctx context.Context) ([]*roomDomain.Room, error) {
	var models []RoomModel
	if err := r.db.WithContext(ctx).Order("room_number ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return toDomainRooms(models)
}

// ListAvailableBetween retrieves the rooms that are listed, operational and
// free of active bookings overlapping the given range. The overlap test uses
// the same inclusive boundaries as the conflict check.
func (r *GormRoomRepository) ListAvailableBetween(ctx context.Context, checkIn, checkOut time.Time) ([]*roomDomain.Room, error) {
	sub := r.db.Model(&BookingModel{}).
		Select("room_id").
		Where("status NOT IN ?", bookingInactiveStatuses).
		Where("check_in_date <= ? AND check_out_date >= ?", checkOut, checkIn)

	var models []RoomModel
	if err := r.db.WithContext(ctx).
		Where("is_available = ?", true).
		Where("maintenance_status = ?", string(roomDomain.MaintenanceAvailable)).
		Where("id NOT IN (?)", sub).
		Order("room_number ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list available rooms: %w", err)
	}
	return toDomainRooms(models)
}

// Save persists a new room.
func (r *GormRoomRepository) Save(ctx context.Context, rm *roomDomain.Room) error {
	model, err := toRoomModel(rm)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

// Update persists changes to an existing room.
func (r *GormRoomRepository) Update(ctx context.Context, rm *roomDomain.Room) error {
	model, err := toRoomModel(rm)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Where("id = ?", model.ID).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Room", model.ID.String())
	}
	return nil
}

// Delete removes a room. The service layer refuses deletion while active
// bookings reference the room.
func (r *GormRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&RoomModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Room", id.String())
	}
	return nil
}

// --- Conversion helpers ---

func toRoomModel(rm *roomDomain.Room) (*RoomModel, error) {
	attrs := rm.Attributes()

	amenities, err := marshalStringList(attrs.Amenities)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal amenities: %w", err)
	}
	images, err := marshalStringList(attrs.Images)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal images: %w", err)
	}

	return &RoomModel{
		ID:                rm.ID(),
		RoomNumber:        attrs.RoomNumber,
		Type:              string(attrs.Type),
		PricePerNight:     attrs.PricePerNight,
		Capacity:          attrs.Capacity,
		SizeSqm:           attrs.SizeSqm,
		BedType:           attrs.BedType,
		Description:       attrs.Description,
		Amenities:         amenities,
		Images:            images,
		Floor:             attrs.Floor,
		View:              attrs.View,
		SmokingAllowed:    attrs.SmokingAllowed,
		PetFriendly:       attrs.PetFriendly,
		IsAvailable:       rm.IsAvailable(),
		MaintenanceStatus: string(rm.MaintenanceStatus()),
		Rating:            rm.Rating(),
		ReviewCount:       rm.ReviewCount(),
		CreatedAt:         rm.CreatedAt(),
		UpdatedAt:         rm.UpdatedAt(),
	}, nil
}

func toDomainRoom(m *RoomModel) (*roomDomain.Room, error) {
	roomType, err := roomDomain.ParseRoomType(m.Type)
	if err != nil {
		return nil, err
	}
	maintenance, err := roomDomain.ParseMaintenanceStatus(m.MaintenanceStatus)
	if err != nil {
		return nil, err
	}

	amenities, err := unmarshalStringList(m.Amenities)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal amenities: %w", err)
	}
	images, err := unmarshalStringList(m.Images)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal images: %w", err)
	}

	return roomDomain.Reconstruct(
		m.ID,
		roomDomain.Attributes{
			RoomNumber:     m.RoomNumber,
			Type:           roomType,
			PricePerNight:  m.PricePerNight,
			Capacity:       m.Capacity,
			SizeSqm:        m.SizeSqm,
			BedType:        m.BedType,
			Description:    m.Description,
			Amenities:      amenities,
			Images:         images,
			Floor:          m.Floor,
			View:           m.View,
			SmokingAllowed: m.SmokingAllowed,
			PetFriendly:    m.PetFriendly,
		},
		m.IsAvailable,
		maintenance,
		m.Rating,
		m.ReviewCount,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainRooms(models []RoomModel) ([]*roomDomain.Room, error) {
	rooms := make([]*roomDomain.Room, len(models))
	for i, m := range models {
		rm, err := toDomainRoom(&m)
		if err != nil {
			return nil, err
		}
		rooms[i] = rm
	}
	return rooms, nil
}

func marshalStringList(values []string) (datatypes.JSON, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func unmarshalStringList(data datatypes.JSON) ([]string, error) {
	if len(data) == 0 {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}
