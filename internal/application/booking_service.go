package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
	bookingDomain "github.com/harborview-hospitality/service-reservation/internal/domain/booking"
	guestDomain "github.com/harborview-hospitality/service-reservation/internal/domain/guest"
	"github.com/harborview-hospitality/service-reservation/internal/domain/identity"
	roomDomain "github.com/harborview-hospitality/service-reservation/internal/domain/room"
	"github.com/harborview-hospitality/service-reservation/internal/events"
)

// eventSource identifies this service in published CloudEvents.
const eventSource = "service-reservation"

const dateLayout = "2006-01-02"

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	RoomID          uuid.UUID  `json:"room_id" binding:"required"`
	GuestID         *uuid.UUID `json:"guest_id"`
	GuestName       string     `json:"guest_name" binding:"required"`
	GuestEmail      string     `json:"guest_email" binding:"required,email"`
	GuestPhone      string     `json:"guest_phone"`
	CheckInDate     string     `json:"check_in_date" binding:"required"`
	CheckOutDate    string     `json:"check_out_date" binding:"required"`
	NumberOfGuests  int        `json:"number_of_guests" binding:"required,min=1"`
	SpecialRequests string     `json:"special_requests"`
}

// UpdateBookingRequest holds the data for rewriting a pending booking's stay.
type UpdateBookingRequest struct {
	RoomID          uuid.UUID `json:"room_id" binding:"required"`
	GuestName       string    `json:"guest_name" binding:"required"`
	GuestEmail      string    `json:"guest_email" binding:"required,email"`
	GuestPhone      string    `json:"guest_phone"`
	CheckInDate     string    `json:"check_in_date" binding:"required"`
	CheckOutDate    string    `json:"check_out_date" binding:"required"`
	NumberOfGuests  int       `json:"number_of_guests" binding:"required,min=1"`
	SpecialRequests string    `json:"special_requests"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID               uuid.UUID  `json:"id"`
	BookingNumber    string     `json:"booking_number"`
	RoomID           uuid.UUID  `json:"room_id"`
	GuestID          *uuid.UUID `json:"guest_id,omitempty"`
	GuestName        string     `json:"guest_name"`
	GuestEmail       string     `json:"guest_email"`
	GuestPhone       string     `json:"guest_phone,omitempty"`
	CheckInDate      string     `json:"check_in_date"`
	CheckOutDate     string     `json:"check_out_date"`
	NumberOfGuests   int        `json:"number_of_guests"`
	NumberOfNights   int        `json:"number_of_nights"`
	TotalPrice       float64    `json:"total_price"`
	DepositAmount    float64    `json:"deposit_amount"`
	RemainingAmount  float64    `json:"remaining_amount"`
	Status           string     `json:"status"`
	PaymentStatus    string     `json:"payment_status"`
	SpecialRequests  string     `json:"special_requests,omitempty"`
	ConfirmationCode string     `json:"confirmation_code,omitempty"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy      string     `json:"cancelled_by,omitempty"`
	CancelReason     string     `json:"cancel_reason,omitempty"`
	Version          int64      `json:"version"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// BookingService is the application service orchestrating the booking lifecycle.
type BookingService struct {
	bookings bookingDomain.Repository
	rooms    roomDomain.Repository
	guests   guestDomain.Repository
	tx       domain.Transactor
	locks    *roomLocks
	producer events.Publisher
	clock    identity.Clock
	gen      identity.Generator
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.Repository,
	rooms roomDomain.Repository,
	guests guestDomain.Repository,
	tx domain.Transactor,
	producer events.Publisher,
	clock identity.Clock,
	gen identity.Generator,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		rooms:    rooms,
		guests:   guests,
		tx:       tx,
		locks:    newRoomLocks(),
		producer: producer,
		clock:    clock,
		gen:      gen,
		logger:   logger,
	}
}

// CreateBooking creates a new booking. The room's lock is held across the
// conflict check and the insert so two concurrent requests for the same room
// cannot both pass the check. Availability is verified before capacity and
// before any guest record is created or updated.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingDTO, error) {
	checkIn, checkOut, err := parseStayDates(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := bookingDomain.ValidateStayDates(checkIn, checkOut, now); err != nil {
		return nil, err
	}

	rm, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if !rm.IsBookable() {
		return nil, domain.NewValidationError("room is not available for booking")
	}

	unlock := s.locks.Lock(rm.ID())
	defer unlock()

	// Availability is checked before capacity and before the guest is
	// resolved, so a rejected request leaves the guest directory untouched.
	conflict, err := s.bookings.HasConflict(ctx, rm.ID(), bookingDomain.DateOnly(checkIn), bookingDomain.DateOnly(checkOut), nil)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, domain.NewValidationError("room is not available for the selected dates")
	}
	if req.NumberOfGuests > rm.Capacity() {
		return nil, domain.NewValidationError(
			fmt.Sprintf("room capacity is %d guests", rm.Capacity()))
	}

	totalPrice := float64(bookingDomain.Nights(checkIn, checkOut)) * rm.PricePerNight()

	// Guest resolution and the booking insert commit or roll back together.
	var bk *bookingDomain.Booking
	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		guestID, err := s.resolveGuest(ctx, req.GuestID, req.GuestName, req.GuestEmail, req.GuestPhone)
		if err != nil {
			return err
		}

		bk, err = bookingDomain.NewBooking(
			s.gen.BookingNumber(),
			rm.ID(),
			guestID,
			bookingDomain.GuestContact{Name: req.GuestName, Email: req.GuestEmail, Phone: req.GuestPhone},
			checkIn,
			checkOut,
			req.NumberOfGuests,
			totalPrice,
			req.SpecialRequests,
			now,
		)
		if err != nil {
			return err
		}

		return s.bookings.Save(ctx, bk)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("booking_number", bk.BookingNumber()),
		zap.String("room_id", rm.ID().String()),
	)

	evt := events.BookingCreatedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		RoomID:        bk.RoomID(),
		GuestID:       bk.GuestID(),
		GuestEmail:    bk.Contact().Email,
		CheckInDate:   bk.CheckInDate(),
		CheckOutDate:  bk.CheckOutDate(),
		TotalPrice:    bk.TotalPrice(),
		OccurredAt:    now,
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCreated, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// UpdateBooking rewrites the stay details of a pending booking. The new range
// is re-checked for conflicts with the booking itself excluded, so keeping the
// original dates never self-conflicts.
func (s *BookingService) UpdateBooking(ctx context.Context, bookingID uuid.UUID, req UpdateBookingRequest) (*BookingDTO, error) {
	checkIn, checkOut, err := parseStayDates(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}

	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.Status() != bookingDomain.StatusPending {
		return nil, domain.NewValidationError("can only modify pending bookings")
	}

	rm, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if !rm.IsBookable() {
		return nil, domain.NewValidationError("room is not available for booking")
	}

	unlock := s.locks.Lock(rm.ID())
	defer unlock()

	excludeID := bk.ID()
	conflict, err := s.bookings.HasConflict(ctx, rm.ID(), bookingDomain.DateOnly(checkIn), bookingDomain.DateOnly(checkOut), &excludeID)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, domain.NewValidationError("room is not available for the selected dates")
	}
	if req.NumberOfGuests > rm.Capacity() {
		return nil, domain.NewValidationError(
			fmt.Sprintf("room capacity is %d guests", rm.Capacity()))
	}

	totalPrice := float64(bookingDomain.Nights(checkIn, checkOut)) * rm.PricePerNight()

	if err := bk.UpdateDetails(
		rm.ID(),
		bookingDomain.GuestContact{Name: req.GuestName, Email: req.GuestEmail, Phone: req.GuestPhone},
		checkIn,
		checkOut,
		req.NumberOfGuests,
		totalPrice,
		req.SpecialRequests,
		s.clock.Now(),
	); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// ConfirmBooking transitions a pending booking to CONFIRMED and stamps a
// freshly generated confirmation code.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	code, err := s.gen.ConfirmationCode()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := bk.Confirm(code, now); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingConfirmedEvent{
		BookingID:        bk.ID(),
		BookingNumber:    bk.BookingNumber(),
		ConfirmationCode: bk.ConfirmationCode(),
		OccurredAt:       now,
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingConfirmed, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a booking. Cancellation is accepted from every status
// except CANCELLED itself, which frees the room's dates immediately.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uuid.UUID, reason, cancelledBy string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := bk.Cancel(reason, cancelledBy, now); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled",
		zap.String("booking_id", bk.ID().String()),
		zap.String("booking_number", bk.BookingNumber()),
		zap.String("reason", reason),
	)

	evt := events.BookingCancelledEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		Reason:        reason,
		OccurredAt:    now,
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCancelled, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// DeleteBooking hard-deletes a pending or cancelled booking together with its
// payments. Confirmed and later bookings must be cancelled first.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID uuid.UUID) error {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if !bk.CanBeDeleted() {
		return domain.NewValidationError("only pending or cancelled bookings can be deleted")
	}
	return s.bookings.Delete(ctx, bookingID)
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetBookingByNumber retrieves a single booking by its booking number.
func (s *BookingService) GetBookingByNumber(ctx context.Context, number string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// ListBookings returns a paginated list of all bookings, newest first.
func (s *BookingService) ListBookings(ctx context.Context, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetBookingsByGuestEmail retrieves the bookings whose contact snapshot
// carries the given email.
func (s *BookingService) GetBookingsByGuestEmail(ctx context.Context, email string) ([]BookingDTO, error) {
	bookings, err := s.bookings.FindByGuestEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, nil
}

// SetBookingPaymentStatus moves the booking-level payment status along its own
// state machine. The booking status is never touched.
func (s *BookingService) SetBookingPaymentStatus(ctx context.Context, bookingID uuid.UUID, status string) (*BookingDTO, error) {
	target, err := bookingDomain.ParsePaymentStatus(status)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := bk.SetPaymentStatus(target, now); err != nil {
		return nil, err
	}
	// A booking marked fully paid has nothing outstanding.
	if target == bookingDomain.PaymentPaid {
		if err := bk.RecordDeposit(bk.TotalPrice(), now); err != nil {
			return nil, err
		}
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// CheckInBooking marks a confirmed booking as checked in (front desk).
func (s *BookingService) CheckInBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.transition(ctx, bookingID, (*bookingDomain.Booking).CheckIn)
}

// CheckOutBooking marks a checked-in booking as checked out (front desk).
func (s *BookingService) CheckOutBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.transition(ctx, bookingID, (*bookingDomain.Booking).CheckOut)
}

// CompleteBooking finalizes a checked-out booking.
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.transition(ctx, bookingID, (*bookingDomain.Booking).Complete)
}

// MarkNoShow marks a confirmed booking whose guest never arrived.
func (s *BookingService) MarkNoShow(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.transition(ctx, bookingID, (*bookingDomain.Booking).MarkNoShow)
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

// resolveGuest links the booking to a guest profile. An explicit guest id must
// exist; otherwise the email is looked up and a new profile is created on
// first contact.
func (s *BookingService) resolveGuest(ctx context.Context, guestID *uuid.UUID, name, email, phone string) (*uuid.UUID, error) {
	if guestID != nil {
		g, err := s.guests.FindByID(ctx, *guestID)
		if err != nil {
			return nil, err
		}
		g.RecordBooking()
		if err := s.guests.Update(ctx, g); err != nil {
			return nil, err
		}
		id := g.ID()
		return &id, nil
	}

	g, err := s.guests.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if g == nil {
		g, err = guestDomain.NewGuestFromFullName(name, email, phone)
		if err != nil {
			return nil, err
		}
		g.RecordBooking()
		if err := s.guests.Save(ctx, g); err != nil {
			return nil, err
		}
	} else {
		g.RecordBooking()
		if err := s.guests.Update(ctx, g); err != nil {
			return nil, err
		}
	}

	id := g.ID()
	return &id, nil
}

func (s *BookingService) transition(ctx context.Context, bookingID uuid.UUID, apply func(*bookingDomain.Booking, time.Time) error) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := apply(bk, s.clock.Now()); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	result := toBookingDTO(bk)
	return &result, nil
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
	cloudEvent, err := events.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.Publish(ctx, topic, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func parseStayDates(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewValidationError("check-in date must be formatted as YYYY-MM-DD")
	}
	out, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewValidationError("check-out date must be formatted as YYYY-MM-DD")
	}
	return in, out, nil
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	contact := bk.Contact()
	cancellation := bk.Cancellation()
	return BookingDTO{
		ID:               bk.ID(),
		BookingNumber:    bk.BookingNumber(),
		RoomID:           bk.RoomID(),
		GuestID:          bk.GuestID(),
		GuestName:        contact.Name,
		GuestEmail:       contact.Email,
		GuestPhone:       contact.Phone,
		CheckInDate:      bk.CheckInDate().Format(dateLayout),
		CheckOutDate:     bk.CheckOutDate().Format(dateLayout),
		NumberOfGuests:   bk.NumberOfGuests(),
		NumberOfNights:   bk.NumberOfNights(),
		TotalPrice:       bk.TotalPrice(),
		DepositAmount:    bk.DepositAmount(),
		RemainingAmount:  bk.RemainingAmount(),
		Status:           string(bk.Status()),
		PaymentStatus:    string(bk.PaymentStatus()),
		SpecialRequests:  bk.SpecialRequests(),
		ConfirmationCode: bk.ConfirmationCode(),
		ConfirmedAt:      bk.ConfirmedAt(),
		CancelledAt:      cancellation.CancelledAt,
		CancelledBy:      cancellation.CancelledBy,
		CancelReason:     cancellation.Reason,
		Version:          bk.Version(),
		CreatedAt:        bk.CreatedAt(),
		UpdatedAt:        bk.UpdatedAt(),
	}
}
