package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
	bookingDomain "github.com/harborview-hospitality/service-reservation/internal/domain/booking"
	roomDomain "github.com/harborview-hospitality/service-reservation/internal/domain/room"
)

// CreateRoomRequest holds the data needed to register a new room.
type CreateRoomRequest struct {
	RoomNumber     string   `json:"room_number" binding:"required"`
	Type           string   `json:"type" binding:"required"`
	PricePerNight  float64  `json:"price_per_night" binding:"required,gt=0"`
	Capacity       int      `json:"capacity" binding:"required,min=1"`
	SizeSqm        float64  `json:"size_sqm"`
	BedType        string   `json:"bed_type"`
	Description    string   `json:"description"`
	Amenities      []string `json:"amenities"`
	Images         []string `json:"images"`
	Floor          int      `json:"floor"`
	View           string   `json:"view"`
	SmokingAllowed bool     `json:"smoking_allowed"`
	PetFriendly    bool     `json:"pet_friendly"`
}

// UpdateRoomRequest holds the data for updating a room's attributes and state.
type UpdateRoomRequest struct {
	CreateRoomRequest
	IsAvailable       *bool  `json:"is_available"`
	MaintenanceStatus string `json:"maintenance_status"`
}

// RoomDTO is the response representation of a room.
type RoomDTO struct {
	ID                uuid.UUID `json:"id"`
	RoomNumber        string    `json:"room_number"`
	Type              string    `json:"type"`
	PricePerNight     float64   `json:"price_per_night"`
	Capacity          int       `json:"capacity"`
	SizeSqm           float64   `json:"size_sqm,omitempty"`
	BedType           string    `json:"bed_type,omitempty"`
	Description       string    `json:"description,omitempty"`
	Amenities         []string  `json:"amenities"`
	Images            []string  `json:"images"`
	Floor             int       `json:"floor"`
	View              string    `json:"view,omitempty"`
	SmokingAllowed    bool      `json:"smoking_allowed"`
	PetFriendly       bool      `json:"pet_friendly"`
	IsAvailable       bool      `json:"is_available"`
	MaintenanceStatus string    `json:"maintenance_status"`
	Rating            float64   `json:"rating"`
	ReviewCount       int       `json:"review_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// RoomService is the application service for room inventory management.
type RoomService struct {
	rooms    roomDomain.Repository
	bookings bookingDomain.Repository
	logger   *zap.Logger
}

// NewRoomService creates a new RoomService.
func NewRoomService(rooms roomDomain.Repository, bookings bookingDomain.Repository, logger *zap.Logger) *RoomService {
	return &RoomService{rooms: rooms, bookings: bookings, logger: logger}
}

// CreateRoom registers a new room. Room numbers are unique across the hotel.
func (s *RoomService) CreateRoom(ctx context.Context, req CreateRoomRequest) (*RoomDTO, error) {
	exists, err := s.rooms.ExistsByRoomNumber(ctx, req.RoomNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewConflictError("room number already exists")
	}

	attrs, err := buildRoomAttributes(req)
	if err != nil {
		return nil, err
	}

	rm, err := roomDomain.NewRoom(attrs)
	if err != nil {
		return nil, err
	}

	if err := s.rooms.Save(ctx, rm); err != nil {
		return nil, err
	}

	s.logger.Info("room created",
		zap.String("room_id", rm.ID().String()),
		zap.String("room_number", rm.RoomNumber()),
	)

	result := toRoomDTO(rm)
	return &result, nil
}

// UpdateRoom replaces a room's attributes and optionally its availability
// flag and maintenance status. Existing bookings keep their agreed price.
func (s *RoomService) UpdateRoom(ctx context.Context, roomID uuid.UUID, req UpdateRoomRequest) (*RoomDTO, error) {
	rm, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if req.RoomNumber != rm.RoomNumber() {
		exists, err := s.rooms.ExistsByRoomNumber(ctx, req.RoomNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.NewConflictError("room number already exists")
		}
	}

	attrs, err := buildRoomAttributes(req.CreateRoomRequest)
	if err != nil {
		return nil, err
	}
	if err := rm.UpdateAttributes(attrs); err != nil {
		return nil, err
	}

	if req.IsAvailable != nil {
		rm.SetAvailability(*req.IsAvailable)
	}
	if req.MaintenanceStatus != "" {
		status, err := roomDomain.ParseMaintenanceStatus(req.MaintenanceStatus)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		if err := rm.SetMaintenanceStatus(status); err != nil {
			return nil, err
		}
	}

	if err := s.rooms.Update(ctx, rm); err != nil {
		return nil, err
	}

	result := toRoomDTO(rm)
	return &result, nil
}

// DeleteRoom removes a room that has no active bookings.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
		return err
	}

	active, err := s.bookings.ExistsActiveForRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if active {
		return domain.NewValidationError("room has active bookings and cannot be deleted")
	}

	return s.rooms.Delete(ctx, roomID)
}

// GetRoom retrieves a single room by ID.
func (s *RoomService) GetRoom(ctx context.Context, roomID uuid.UUID) (*RoomDTO, error) {
	rm, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	result := toRoomDTO(rm)
	return &result, nil
}

// ListRooms retrieves every room ordered by room number.
func (s *RoomService) ListRooms(ctx context.Context) ([]RoomDTO, error) {
	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toRoomDTOs(rooms), nil
}

// ListAvailableRooms retrieves the rooms free over the given date range. The
// range rules match booking creation so a room returned here is accepted by a
// create issued immediately afterwards, absent a concurrent booking.
func (s *RoomService) ListAvailableRooms(ctx context.Context, checkIn, checkOut string) ([]RoomDTO, error) {
	in, out, err := parseStayDates(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	in, out = bookingDomain.DateOnly(in), bookingDomain.DateOnly(out)
	if !in.Before(out) {
		return nil, domain.NewValidationError("check-in date must be before check-out date")
	}

	rooms, err := s.rooms.ListAvailableBetween(ctx, in, out)
	if err != nil {
		return nil, err
	}
	return toRoomDTOs(rooms), nil
}

// --- Helpers ---

func buildRoomAttributes(req CreateRoomRequest) (roomDomain.Attributes, error) {
	roomType, err := roomDomain.ParseRoomType(req.Type)
	if err != nil {
		return roomDomain.Attributes{}, domain.NewValidationError(err.Error())
	}
	return roomDomain.Attributes{
		RoomNumber:     req.RoomNumber,
		Type:           roomType,
		PricePerNight:  req.PricePerNight,
		Capacity:       req.Capacity,
		SizeSqm:        req.SizeSqm,
		BedType:        req.BedType,
		Description:    req.Description,
		Amenities:      req.Amenities,
		Images:         req.Images,
		Floor:          req.Floor,
		View:           req.View,
		SmokingAllowed: req.SmokingAllowed,
		PetFriendly:    req.PetFriendly,
	}, nil
}

func toRoomDTO(rm *roomDomain.Room) RoomDTO {
	attrs := rm.Attributes()
	amenities := attrs.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	images := attrs.Images
	if images == nil {
		images = []string{}
	}
	return RoomDTO{
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
	}
}

func toRoomDTOs(rooms []*roomDomain.Room) []RoomDTO {
	dtos := make([]RoomDTO, len(rooms))
	for i, rm := range rooms {
		dtos[i] = toRoomDTO(rm)
	}
	return dtos
}
