//go:build integration

package main_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview-hospitality/service-reservation/internal/application"
	"github.com/harborview-hospitality/service-reservation/internal/domain"
	"github.com/harborview-hospitality/service-reservation/internal/events"
	"github.com/harborview-hospitality/service-reservation/internal/repository"
)

// TestConcurrentBookings_OnlyOneWins fires ten concurrent create requests for
// the same room and dates and verifies exactly one is accepted. The room lock
// serializes the availability check against the insert, so the database never
// ends up with overlapping active bookings.
func TestConcurrentBookings_OnlyOneWins(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupReservationStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	roomID := seedRoom(t, infra.DB, "101", 100.0, 2)
	checkIn, checkOut := stayDates(30, 4)

	var wg sync.WaitGroup
	results := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Distinct guests so only the room itself is contended.
			_, results[i] = stack.Bookings.CreateBooking(context.Background(), application.CreateBookingRequest{
				RoomID:         roomID,
				GuestName:      "Alice Tan",
				GuestEmail:     fmt.Sprintf("alice+%d@example.com", i),
				CheckInDate:    checkIn,
				CheckOutDate:   checkOut,
				NumberOfGuests: 2,
			})
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range results {
		if err == nil {
			accepted++
		} else {
			assert.True(t, domain.IsValidation(err), "losers must fail the availability check, got: %v", err)
		}
	}
	assert.Equal(t, 1, accepted, "exactly one concurrent booking may win")

	var count int64
	require.NoError(t, infra.DB.Model(&repository.BookingModel{}).
		Where("room_id = ? AND status NOT IN ?", roomID, []string{"CANCELLED", "COMPLETED"}).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestSharedBoundary_RejectedUntilCancelled walks the inclusive-boundary rule
// end to end: a stay starting on an existing stay's check-out date is
// rejected, and accepted once the blocking booking is cancelled.
func TestSharedBoundary_RejectedUntilCancelled(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupReservationStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	roomID := seedRoom(t, infra.DB, "201", 150.0, 2)
	checkIn, checkOut := stayDates(30, 4)

	first, err := stack.Bookings.CreateBooking(context.Background(), application.CreateBookingRequest{
		RoomID:         roomID,
		GuestName:      "Alice Tan",
		GuestEmail:     "alice@example.com",
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		NumberOfGuests: 2,
	})
	require.NoError(t, err)

	// Back-to-back stay sharing the turnover day.
	nextIn, nextOut := stayDates(34, 3)
	req := application.CreateBookingRequest{
		RoomID:         roomID,
		GuestName:      "Bob Lee",
		GuestEmail:     "bob@example.com",
		CheckInDate:    nextIn,
		CheckOutDate:   nextOut,
		NumberOfGuests: 1,
	}
	_, err = stack.Bookings.CreateBooking(context.Background(), req)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.ErrorContains(t, err, "not available for the selected dates")

	// The rejected create must not have touched the guest directory.
	var guestCount int64
	require.NoError(t, infra.DB.Model(&repository.GuestModel{}).
		Where("email = ?", "bob@example.com").Count(&guestCount).Error)
	assert.Equal(t, int64(0), guestCount)

	_, err = stack.Bookings.CancelBooking(context.Background(), first.ID, "plans changed", "guest")
	require.NoError(t, err)

	second, err := stack.Bookings.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", second.Status)
}

// TestPaymentSettlement takes a full payment against a booking and verifies
// the settlement lands on the payment row and the payment.events topic while
// the booking row stays untouched, until the explicit payment-status update
// joins the two.
func TestPaymentSettlement(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupReservationStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	roomID := seedRoom(t, infra.DB, "301", 300.0, 4)
	checkIn, checkOut := stayDates(30, 2)

	bk, err := stack.Bookings.CreateBooking(context.Background(), application.CreateBookingRequest{
		RoomID:         roomID,
		GuestName:      "Alice Tan",
		GuestEmail:     "alice@example.com",
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		NumberOfGuests: 2,
	})
	require.NoError(t, err)
	require.Equal(t, 600.0, bk.TotalPrice)

	p, err := stack.Payments.CreatePayment(context.Background(), application.CreatePaymentRequest{
		BookingID: bk.ID,
		Amount:    600.0,
		Method:    "CREDIT_CARD",
	})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", p.Status)

	// Settlement never touches the booking row.
	var model repository.BookingModel
	require.NoError(t, infra.DB.Where("id = ?", bk.ID).First(&model).Error)
	assert.Equal(t, "PENDING", model.PaymentStatus)
	assert.Equal(t, "PENDING", model.Status)

	// The explicit payment-status update is the seam that joins the machines.
	updated, err := stack.Bookings.SetBookingPaymentStatus(context.Background(), bk.ID, "PAID")
	require.NoError(t, err)
	assert.Equal(t, "PAID", updated.PaymentStatus)
	assert.Equal(t, "PENDING", updated.Status)

	require.NoError(t, infra.DB.Where("id = ?", bk.ID).First(&model).Error)
	assert.Equal(t, "PAID", model.PaymentStatus)
	assert.Equal(t, 600.0, model.DepositAmount)
	assert.Equal(t, 0.0, model.RemainingAmount)

	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicPaymentEvents,
		events.PaymentCompleted, 15*time.Second)

	var settled events.PaymentSettledEvent
	require.NoError(t, ce.ParseData(&settled))
	assert.Equal(t, bk.ID, settled.BookingID)
	assert.Equal(t, 600.0, settled.Amount)
}

// TestDeleteBooking_CascadesPayments verifies deleting a booking removes its
// payment rows in the same transaction.
func TestDeleteBooking_CascadesPayments(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupReservationStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	roomID := seedRoom(t, infra.DB, "401", 450.0, 4)
	checkIn, checkOut := stayDates(30, 2)

	bk, err := stack.Bookings.CreateBooking(context.Background(), application.CreateBookingRequest{
		RoomID:         roomID,
		GuestName:      "Alice Tan",
		GuestEmail:     "alice@example.com",
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		NumberOfGuests: 2,
	})
	require.NoError(t, err)

	_, err = stack.Payments.CreatePayment(context.Background(), application.CreatePaymentRequest{
		BookingID: bk.ID,
		Amount:    bk.TotalPrice,
		Method:    "CASH",
	})
	require.NoError(t, err)

	require.NoError(t, stack.Bookings.DeleteBooking(context.Background(), bk.ID))

	var bookings, payments int64
	require.NoError(t, infra.DB.Model(&repository.BookingModel{}).Where("id = ?", bk.ID).Count(&bookings).Error)
	require.NoError(t, infra.DB.Model(&repository.PaymentModel{}).Where("booking_id = ?", bk.ID).Count(&payments).Error)
	assert.Zero(t, bookings)
	assert.Zero(t, payments)
}

// TestAvailabilitySearch_ExcludesBookedRooms seeds two rooms, books one, and
// verifies the availability search over the same dates returns only the free
// room.
func TestAvailabilitySearch_ExcludesBookedRooms(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupReservationStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	bookedID := seedRoom(t, infra.DB, "501", 100.0, 2)
	freeID := seedRoom(t, infra.DB, "502", 100.0, 2)
	checkIn, checkOut := stayDates(30, 3)

	_, err := stack.Bookings.CreateBooking(context.Background(), application.CreateBookingRequest{
		RoomID:         bookedID,
		GuestName:      "Alice Tan",
		GuestEmail:     "alice@example.com",
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		NumberOfGuests: 2,
	})
	require.NoError(t, err)

	rooms, err := stack.Rooms.ListAvailableRooms(context.Background(), checkIn, checkOut)
	require.NoError(t, err)

	require.Len(t, rooms, 1)
	assert.Equal(t, freeID, rooms[0].ID)
}
