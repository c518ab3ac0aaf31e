package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
)

// GuestContact is the guest contact snapshot stored on a booking. It is
// copied from the guest profile at creation time and never re-synced.
type GuestContact struct {
	Name  string
	Email string
	Phone string
}

// Cancellation holds the details recorded when a booking is cancelled.
type Cancellation struct {
	Reason       string
	CancelledBy  string
	CancelledAt  *time.Time
	Fee          float64
	RefundAmount float64
}

// Booking is the aggregate root for a room reservation.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	roomID        uuid.UUID
	guestID       *uuid.UUID
	contact       GuestContact

	checkInDate    time.Time
	checkOutDate   time.Time
	numberOfGuests int
	numberOfNights int

	totalPrice      float64
	depositAmount   float64
	remainingAmount float64

	status          Status
	paymentStatus   PaymentStatus
	specialRequests string

	confirmationCode string
	confirmedAt      *time.Time
	cancellation     Cancellation

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// DateOnly truncates t to midnight UTC, the granularity at which stays are booked.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights returns the number of nights between two calendar dates.
func Nights(checkIn, checkOut time.Time) int {
	return int(DateOnly(checkOut).Sub(DateOnly(checkIn)) / (24 * time.Hour))
}

// ValidateStayDates checks the date-range rules for a new booking: check-in
// must precede check-out and must be strictly after today (today excluded).
func ValidateStayDates(checkIn, checkOut, now time.Time) error {
	in, out := DateOnly(checkIn), DateOnly(checkOut)
	if !in.Before(out) {
		return domain.NewValidationError("check-in date must be before check-out date")
	}
	if !in.After(DateOnly(now)) {
		return domain.NewValidationError("check-in date must be in the future")
	}
	return nil
}

// NewBooking creates a new Booking aggregate with status PENDING. The caller
// is responsible for the availability check and the capacity check, both of
// which need the room.
func NewBooking(
	bookingNumber string,
	roomID uuid.UUID,
	guestID *uuid.UUID,
	contact GuestContact,
	checkIn, checkOut time.Time,
	numberOfGuests int,
	totalPrice float64,
	specialRequests string,
	now time.Time,
) (*Booking, error) {
	if bookingNumber == "" {
		return nil, domain.NewValidationError("booking number is required")
	}
	if roomID == uuid.Nil {
		return nil, domain.NewValidationError("room ID is required")
	}
	if contact.Name == "" {
		return nil, domain.NewValidationError("guest name is required")
	}
	if contact.Email == "" {
		return nil, domain.NewValidationError("guest email is required")
	}
	if numberOfGuests <= 0 {
		return nil, domain.NewValidationError("number of guests must be positive")
	}
	if err := ValidateStayDates(checkIn, checkOut, now); err != nil {
		return nil, err
	}

	return &Booking{
		id:              uuid.New(),
		bookingNumber:   bookingNumber,
		roomID:          roomID,
		guestID:         guestID,
		contact:         contact,
		checkInDate:     DateOnly(checkIn),
		checkOutDate:    DateOnly(checkOut),
		numberOfGuests:  numberOfGuests,
		numberOfNights:  Nights(checkIn, checkOut),
		totalPrice:      totalPrice,
		remainingAmount: totalPrice,
		status:          StatusPending,
		paymentStatus:   PaymentPending,
		specialRequests: specialRequests,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	bookingNumber string,
	roomID uuid.UUID,
	guestID *uuid.UUID,
	contact GuestContact,
	checkIn, checkOut time.Time,
	numberOfGuests, numberOfNights int,
	totalPrice, depositAmount, remainingAmount float64,
	status Status,
	paymentStatus PaymentStatus,
	specialRequests string,
	confirmationCode string,
	confirmedAt *time.Time,
	cancellation Cancellation,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:               id,
		bookingNumber:    bookingNumber,
		roomID:           roomID,
		guestID:          guestID,
		contact:          contact,
		checkInDate:      checkIn,
		checkOutDate:     checkOut,
		numberOfGuests:   numberOfGuests,
		numberOfNights:   numberOfNights,
		totalPrice:       totalPrice,
		depositAmount:    depositAmount,
		remainingAmount:  remainingAmount,
		status:           status,
		paymentStatus:    paymentStatus,
		specialRequests:  specialRequests,
		confirmationCode: confirmationCode,
		confirmedAt:      confirmedAt,
		cancellation:     cancellation,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// RoomID returns the booked room's identifier.
func (b *Booking) RoomID() uuid.UUID { return b.roomID }

// GuestID returns the guest's identifier, or nil when the booking was made
// without a guest profile.
func (b *Booking) GuestID() *uuid.UUID { return b.guestID }

// Contact returns the guest contact snapshot taken at creation time.
func (b *Booking) Contact() GuestContact { return b.contact }

// CheckInDate returns the check-in calendar date.
func (b *Booking) CheckInDate() time.Time { return b.checkInDate }

// CheckOutDate returns the check-out calendar date.
func (b *Booking) CheckOutDate() time.Time { return b.checkOutDate }

// NumberOfGuests returns the number of guests staying.
func (b *Booking) NumberOfGuests() int { return b.numberOfGuests }

// NumberOfNights returns the derived number of nights.
func (b *Booking) NumberOfNights() int { return b.numberOfNights }

// TotalPrice returns the total price for the stay.
func (b *Booking) TotalPrice() float64 { return b.totalPrice }

// DepositAmount returns the deposit recorded against the booking.
func (b *Booking) DepositAmount() float64 { return b.depositAmount }

// RemainingAmount returns the amount outstanding after the deposit.
func (b *Booking) RemainingAmount() float64 { return b.remainingAmount }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// PaymentStatus returns the booking-level payment status.
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }

// SpecialRequests returns the free-form special requests text.
func (b *Booking) SpecialRequests() string { return b.specialRequests }

// ConfirmationCode returns the confirmation code, empty until confirmed.
func (b *Booking) ConfirmationCode() string { return b.confirmationCode }

// ConfirmedAt returns the confirmation timestamp, or nil if never confirmed.
func (b *Booking) ConfirmedAt() *time.Time { return b.confirmedAt }

// Cancellation returns the cancellation details.
func (b *Booking) Cancellation() Cancellation { return b.cancellation }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Confirm transitions the booking from PENDING to CONFIRMED and stamps the
// confirmation code.
func (b *Booking) Confirm(confirmationCode string, now time.Time) error {
	if b.status != StatusPending {
		return domain.NewValidationError("can only confirm pending bookings")
	}
	b.status = StatusConfirmed
	b.confirmationCode = confirmationCode
	b.confirmedAt = &now
	b.updatedAt = now
	return nil
}

// Cancel transitions the booking to CANCELLED. Cancellation is accepted from
// every status except CANCELLED itself.
func (b *Booking) Cancel(reason, cancelledBy string, now time.Time) error {
	if !b.status.CanBeCancelled() {
		return domain.NewValidationError("booking is already cancelled")
	}
	b.status = StatusCancelled
	b.cancellation.Reason = reason
	b.cancellation.CancelledBy = cancelledBy
	b.cancellation.CancelledAt = &now
	b.updatedAt = now
	return nil
}

// CanBeDeleted reports whether the booking may be hard-deleted. Confirmed and
// later bookings must be cancelled first.
func (b *Booking) CanBeDeleted() bool {
	return b.status == StatusPending || b.status == StatusCancelled
}

// UpdateDetails overwrites the stay details of a pending booking. The caller
// enforces the pending-only rule, the availability re-check and the capacity
// check before applying.
func (b *Booking) UpdateDetails(
	roomID uuid.UUID,
	contact GuestContact,
	checkIn, checkOut time.Time,
	numberOfGuests int,
	totalPrice float64,
	specialRequests string,
	now time.Time,
) error {
	if roomID == uuid.Nil {
		return domain.NewValidationError("room ID is required")
	}
	if numberOfGuests <= 0 {
		return domain.NewValidationError("number of guests must be positive")
	}
	in, out := DateOnly(checkIn), DateOnly(checkOut)
	if !in.Before(out) {
		return domain.NewValidationError("check-in date must be before check-out date")
	}
	b.roomID = roomID
	b.contact = contact
	b.checkInDate = in
	b.checkOutDate = out
	b.numberOfGuests = numberOfGuests
	b.numberOfNights = Nights(in, out)
	b.totalPrice = totalPrice
	b.remainingAmount = totalPrice - b.depositAmount
	b.specialRequests = specialRequests
	b.updatedAt = now
	return nil
}

// CheckIn transitions the booking from CONFIRMED to CHECKED_IN. Part of the
// operational front-desk workflow, not reachable through the public booking
// transition operations.
func (b *Booking) CheckIn(now time.Time) error {
	if !b.status.CanTransitionTo(StatusCheckedIn) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCheckedIn))
	}
	b.status = StatusCheckedIn
	b.updatedAt = now
	return nil
}

// CheckOut transitions the booking from CHECKED_IN to CHECKED_OUT.
func (b *Booking) CheckOut(now time.Time) error {
	if !b.status.CanTransitionTo(StatusCheckedOut) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCheckedOut))
	}
	b.status = StatusCheckedOut
	b.updatedAt = now
	return nil
}

// Complete transitions the booking from CHECKED_OUT to COMPLETED.
func (b *Booking) Complete(now time.Time) error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	b.status = StatusCompleted
	b.updatedAt = now
	return nil
}

// MarkNoShow transitions the booking from CONFIRMED to NO_SHOW.
func (b *Booking) MarkNoShow(now time.Time) error {
	if !b.status.CanTransitionTo(StatusNoShow) {
		return domain.NewInvalidStateError(string(b.status), string(StatusNoShow))
	}
	b.status = StatusNoShow
	b.updatedAt = now
	return nil
}

// SetPaymentStatus moves the booking-level payment status along its own state
// machine. It never touches the booking status: joining the two machines is
// left to an external workflow.
func (b *Booking) SetPaymentStatus(target PaymentStatus, now time.Time) error {
	if !target.IsValid() {
		return domain.NewValidationError("invalid payment status: " + string(target))
	}
	if !b.paymentStatus.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.paymentStatus), string(target))
	}
	b.paymentStatus = target
	b.updatedAt = now
	return nil
}

// RecordDeposit records a deposit against the booking and recomputes the
// remaining amount.
func (b *Booking) RecordDeposit(amount float64, now time.Time) error {
	if amount < 0 {
		return domain.NewValidationError("deposit amount cannot be negative")
	}
	if amount > b.totalPrice {
		return domain.NewValidationError("deposit amount cannot exceed total price")
	}
	b.depositAmount = amount
	b.remainingAmount = b.totalPrice - amount
	b.updatedAt = now
	return nil
}

// RecordCancellationSettlement records the fee charged and amount refunded
// for a cancelled booking.
func (b *Booking) RecordCancellationSettlement(fee, refund float64, now time.Time) error {
	if b.status != StatusCancelled {
		return domain.NewValidationError("booking is not cancelled")
	}
	if fee < 0 || refund < 0 {
		return domain.NewValidationError("cancellation amounts cannot be negative")
	}
	b.cancellation.Fee = fee
	b.cancellation.RefundAmount = refund
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
}
