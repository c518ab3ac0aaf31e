package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
	bookingDomain "github.com/harborview-hospitality/service-reservation/internal/domain/booking"
)

// bookingActiveStatuses is the NOT IN set for the availability conflict
// query: cancelled and completed bookings release their dates.
var bookingInactiveStatuses = []string{
	string(bookingDomain.StatusCancelled),
	string(bookingDomain.StatusCompleted),
}

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BookingNumber string     `gorm:"uniqueIndex;not null;size:32"`
	RoomID        uuid.UUID  `gorm:"type:uuid;index;not null"`
	GuestID       *uuid.UUID `gorm:"type:uuid;index"`

	GuestName  string `gorm:"not null;size:200"`
	GuestEmail string `gorm:"not null;size:200;index"`
	GuestPhone string `gorm:"size:50"`

	CheckInDate    time.Time `gorm:"type:date;not null;index"`
	CheckOutDate   time.Time `gorm:"type:date;not null;index"`
	NumberOfGuests int       `gorm:"not null"`
	NumberOfNights int       `gorm:"not null"`

	TotalPrice      float64 `gorm:"not null"`
	DepositAmount   float64 `gorm:"not null;default:0"`
	RemainingAmount float64 `gorm:"not null;default:0"`

	Status          string `gorm:"not null;size:20;index"`
	PaymentStatus   string `gorm:"not null;size:20"`
	SpecialRequests string `gorm:"size:500"`

	ConfirmationCode *string    `gorm:"uniqueIndex;size:20"`
	ConfirmedAt      *time.Time `gorm:""`

	CancelledAt        *time.Time `gorm:""`
	CancelledBy        string     `gorm:"size:100"`
	CancellationReason string     `gorm:"size:500"`
	CancellationFee    float64    `gorm:"not null;default:0"`
	RefundAmount       float64    `gorm:"not null;default:0"`

	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := dbFor(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByNumber retrieves a booking by its booking number.
func (r *GormBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := dbFor(ctx, r.db).WithContext(ctx).Where("booking_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", number)
		}
		return nil, fmt.Errorf("failed to find booking by number: %w", err)
	}
	return toDomainBooking(&model)
}

// ListAll retrieves all bookings with pagination, newest first.
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := dbFor(ctx, r.db).WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}

// FindByGuestEmail retrieves bookings whose contact snapshot carries the email.
func (r *GormBookingRepository) FindByGuestEmail(ctx context.Context, email string) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("guest_email = ?", email).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by guest email: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}

// HasConflict reports whether any active booking for the room overlaps the
// given range. The boundary test is inclusive on both ends, so back-to-back
// stays sharing a date count as conflicting.
func (r *GormBookingRepository) HasConflict(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, excludeID *uuid.UUID) (bool, error) {
	query := dbFor(ctx, r.db).WithContext(ctx).Model(&BookingModel{}).
		Where("room_id = ?", roomID).
		Where("status NOT IN ?", bookingInactiveStatuses).
		Where("check_in_date <= ? AND check_out_date >= ?", checkOut, checkIn)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check booking conflicts: %w", err)
	}
	return count > 0, nil
}

// ExistsActiveForRoom reports whether the room has any non-terminal booking.
func (r *GormBookingRepository) ExistsActiveForRoom(ctx context.Context, roomID uuid.UUID) (bool, error) {
	var count int64
	if err := dbFor(ctx, r.db).WithContext(ctx).Model(&BookingModel{}).
		Where("room_id = ?", roomID).
		Where("status NOT IN ?", bookingInactiveStatuses).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check active bookings for room: %w", err)
	}
	return count > 0, nil
}

// CountByStatus returns booking counts grouped by status.
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := dbFor(ctx, r.db).WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	if err := dbFor(ctx, r.db).WithContext(ctx).Create(toBookingModel(bk)).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// Only update if the version matches (current version - 1, since the
	// service bumps the version before calling Update).
	expectedVersion := bk.Version() - 1
	result := dbFor(ctx, r.db).WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"room_id":             model.RoomID,
			"guest_id":            model.GuestID,
			"guest_name":          model.GuestName,
			"guest_email":         model.GuestEmail,
			"guest_phone":         model.GuestPhone,
			"check_in_date":       model.CheckInDate,
			"check_out_date":      model.CheckOutDate,
			"number_of_guests":    model.NumberOfGuests,
			"number_of_nights":    model.NumberOfNights,
			"total_price":         model.TotalPrice,
			"deposit_amount":      model.DepositAmount,
			"remaining_amount":    model.RemainingAmount,
			"status":              model.Status,
			"payment_status":      model.PaymentStatus,
			"special_requests":    model.SpecialRequests,
			"confirmation_code":   model.ConfirmationCode,
			"confirmed_at":        model.ConfirmedAt,
			"cancelled_at":        model.CancelledAt,
			"cancelled_by":        model.CancelledBy,
			"cancellation_reason": model.CancellationReason,
			"cancellation_fee":    model.CancellationFee,
			"refund_amount":       model.RefundAmount,
			"version":             model.Version,
			"updated_at":          model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// Delete hard-deletes a booking and its payments in one transaction, payments
// first so a payment never outlives its booking.
func (r *GormBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFor(ctx, r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", id).Delete(&PaymentModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete booking payments: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&BookingModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete booking: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("Booking", id.String())
		}
		return nil
	})
}

// --- Conversion helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	var confirmationCode *string
	if code := bk.ConfirmationCode(); code != "" {
		confirmationCode = &code
	}

	cancellation := bk.Cancellation()
	contact := bk.Contact()

	return &BookingModel{
		ID:                 bk.ID(),
		BookingNumber:      bk.BookingNumber(),
		RoomID:             bk.RoomID(),
		GuestID:            bk.GuestID(),
		GuestName:          contact.Name,
		GuestEmail:         contact.Email,
		GuestPhone:         contact.Phone,
		CheckInDate:        bk.CheckInDate(),
		CheckOutDate:       bk.CheckOutDate(),
		NumberOfGuests:     bk.NumberOfGuests(),
		NumberOfNights:     bk.NumberOfNights(),
		TotalPrice:         bk.TotalPrice(),
		DepositAmount:      bk.DepositAmount(),
		RemainingAmount:    bk.RemainingAmount(),
		Status:             string(bk.Status()),
		PaymentStatus:      string(bk.PaymentStatus()),
		SpecialRequests:    bk.SpecialRequests(),
		ConfirmationCode:   confirmationCode,
		ConfirmedAt:        bk.ConfirmedAt(),
		CancelledAt:        cancellation.CancelledAt,
		CancelledBy:        cancellation.CancelledBy,
		CancellationReason: cancellation.Reason,
		CancellationFee:    cancellation.Fee,
		RefundAmount:       cancellation.RefundAmount,
		Version:            bk.Version(),
		CreatedAt:          bk.CreatedAt(),
		UpdatedAt:          bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := bookingDomain.ParsePaymentStatus(m.PaymentStatus)
	if err != nil {
		return nil, err
	}

	confirmationCode := ""
	if m.ConfirmationCode != nil {
		confirmationCode = *m.ConfirmationCode
	}

	return bookingDomain.Reconstruct(
		m.ID,
		m.BookingNumber,
		m.RoomID,
		m.GuestID,
		bookingDomain.GuestContact{Name: m.GuestName, Email: m.GuestEmail, Phone: m.GuestPhone},
		m.CheckInDate,
		m.CheckOutDate,
		m.NumberOfGuests,
		m.NumberOfNights,
		m.TotalPrice,
		m.DepositAmount,
		m.RemainingAmount,
		status,
		paymentStatus,
		m.SpecialRequests,
		confirmationCode,
		m.ConfirmedAt,
		bookingDomain.Cancellation{
			Reason:       m.CancellationReason,
			CancelledBy:  m.CancelledBy,
			CancelledAt:  m.CancelledAt,
			Fee:          m.CancellationFee,
			RefundAmount: m.RefundAmount,
		},
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
