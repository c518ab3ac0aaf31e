package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
)

var testNow = time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	bk, err := NewBooking(
		"BK-20240515103000",
		uuid.New(),
		nil,
		GuestContact{Name: "Alice Tan", Email: "alice@example.com", Phone: "+60123456789"},
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		2,
		600.0,
		"late check-in",
		testNow,
	)
	require.NoError(t, err)
	return bk
}

func TestNewBooking(t *testing.T) {
	bk := newTestBooking(t)

	assert.Equal(t, StatusPending, bk.Status())
	assert.Equal(t, PaymentPending, bk.PaymentStatus())
	assert.Equal(t, 4, bk.NumberOfNights())
	assert.Equal(t, 600.0, bk.TotalPrice())
	assert.Equal(t, 600.0, bk.RemainingAmount())
	assert.Equal(t, 0.0, bk.DepositAmount())
	assert.Empty(t, bk.ConfirmationCode())
	assert.Equal(t, int64(1), bk.Version())
}

func TestNewBooking_Validation(t *testing.T) {
	roomID := uuid.New()
	contact := GuestContact{Name: "Alice Tan", Email: "alice@example.com"}
	checkIn := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		fn   func() (*Booking, error)
	}{
		{"missing booking number", func() (*Booking, error) {
			return NewBooking("", roomID, nil, contact, checkIn, checkOut, 2, 600, "", testNow)
		}},
		{"missing room", func() (*Booking, error) {
			return NewBooking("BK-1", uuid.Nil, nil, contact, checkIn, checkOut, 2, 600, "", testNow)
		}},
		{"missing guest name", func() (*Booking, error) {
			return NewBooking("BK-1", roomID, nil, GuestContact{Email: "a@b.c"}, checkIn, checkOut, 2, 600, "", testNow)
		}},
		{"missing guest email", func() (*Booking, error) {
			return NewBooking("BK-1", roomID, nil, GuestContact{Name: "A"}, checkIn, checkOut, 2, 600, "", testNow)
		}},
		{"zero guests", func() (*Booking, error) {
			return NewBooking("BK-1", roomID, nil, contact, checkIn, checkOut, 0, 600, "", testNow)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestValidateStayDates(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

	// Check-in must precede check-out.
	err := ValidateStayDates(day(5), day(5), testNow)
	assert.True(t, domain.IsValidation(err))
	err = ValidateStayDates(day(6), day(5), testNow)
	assert.True(t, domain.IsValidation(err))

	// Check-in must be strictly after today; booking for today is rejected.
	err = ValidateStayDates(testNow, testNow.AddDate(0, 0, 2), testNow)
	assert.True(t, domain.IsValidation(err))

	// Tomorrow is the earliest acceptable check-in.
	assert.NoError(t, ValidateStayDates(testNow.AddDate(0, 0, 1), testNow.AddDate(0, 0, 3), testNow))
}

func TestNights(t *testing.T) {
	in := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	out := time.Date(2024, 6, 5, 11, 0, 0, 0, time.UTC)
	assert.Equal(t, 4, Nights(in, out))
	assert.Equal(t, 1, Nights(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)))
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusCheckedIn))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusNoShow))
	assert.True(t, StatusCheckedIn.CanTransitionTo(StatusCheckedOut))
	assert.True(t, StatusCheckedOut.CanTransitionTo(StatusCompleted))

	assert.False(t, StatusPending.CanTransitionTo(StatusCheckedIn))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusConfirmed))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusPending))
	assert.False(t, StatusNoShow.CanTransitionTo(StatusCheckedIn))
}

func TestStatusIsActive(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusConfirmed.IsActive())
	assert.True(t, StatusCheckedIn.IsActive())
	assert.False(t, StatusCancelled.IsActive())
	assert.False(t, StatusCompleted.IsActive())
}

func TestConfirm(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.Confirm("CNF-A1B2C3", testNow))
	assert.Equal(t, StatusConfirmed, bk.Status())
	assert.Equal(t, "CNF-A1B2C3", bk.ConfirmationCode())
	require.NotNil(t, bk.ConfirmedAt())

	// Confirming twice is rejected.
	err := bk.Confirm("CNF-XXXXXX", testNow)
	assert.True(t, domain.IsValidation(err))
}

func TestCancel_FromAnyStatusExceptCancelled(t *testing.T) {
	// A checked-in booking can still be cancelled.
	bk := newTestBooking(t)
	require.NoError(t, bk.Confirm("CNF-A1B2C3", testNow))
	require.NoError(t, bk.CheckIn(testNow))

	require.NoError(t, bk.Cancel("guest emergency", "frontdesk", testNow))
	assert.Equal(t, StatusCancelled, bk.Status())
	assert.Equal(t, "guest emergency", bk.Cancellation().Reason)
	assert.Equal(t, "frontdesk", bk.Cancellation().CancelledBy)

	// Cancelling twice is rejected.
	err := bk.Cancel("again", "frontdesk", testNow)
	assert.True(t, domain.IsValidation(err))
}

func TestCanBeDeleted(t *testing.T) {
	bk := newTestBooking(t)
	assert.True(t, bk.CanBeDeleted())

	require.NoError(t, bk.Confirm("CNF-A1B2C3", testNow))
	assert.False(t, bk.CanBeDeleted())

	require.NoError(t, bk.Cancel("changed plans", "guest", testNow))
	assert.True(t, bk.CanBeDeleted())
}

func TestUpdateDetails_RecomputesDerivedFields(t *testing.T) {
	bk := newTestBooking(t)
	newRoom := uuid.New()

	err := bk.UpdateDetails(
		newRoom,
		bk.Contact(),
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC),
		1,
		300.0,
		"",
		testNow,
	)
	require.NoError(t, err)
	assert.Equal(t, newRoom, bk.RoomID())
	assert.Equal(t, 2, bk.NumberOfNights())
	assert.Equal(t, 300.0, bk.TotalPrice())
	assert.Equal(t, 300.0, bk.RemainingAmount())
}

func TestOperationalTransitions(t *testing.T) {
	bk := newTestBooking(t)

	// Check-in requires a confirmed booking.
	err := bk.CheckIn(testNow)
	assert.Error(t, err)
	var ise *domain.InvalidStateError
	assert.ErrorAs(t, err, &ise)

	require.NoError(t, bk.Confirm("CNF-A1B2C3", testNow))
	require.NoError(t, bk.CheckIn(testNow))
	require.NoError(t, bk.CheckOut(testNow))
	require.NoError(t, bk.Complete(testNow))
	assert.Equal(t, StatusCompleted, bk.Status())
}

func TestMarkNoShow(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Confirm("CNF-A1B2C3", testNow))
	require.NoError(t, bk.MarkNoShow(testNow))
	assert.Equal(t, StatusNoShow, bk.Status())
}

func TestSetPaymentStatus_IndependentOfBookingStatus(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.SetPaymentStatus(PaymentPaid, testNow))
	assert.Equal(t, PaymentPaid, bk.PaymentStatus())
	// Paying never advances the booking status.
	assert.Equal(t, StatusPending, bk.Status())

	// PAID cannot go back to PENDING.
	err := bk.SetPaymentStatus(PaymentPending, testNow)
	assert.Error(t, err)
}

func TestPaymentStatusTransitions(t *testing.T) {
	assert.True(t, PaymentPending.CanTransitionTo(PaymentPartial))
	assert.True(t, PaymentPending.CanTransitionTo(PaymentPaid))
	assert.True(t, PaymentPartial.CanTransitionTo(PaymentPaid))
	assert.True(t, PaymentPaid.CanTransitionTo(PaymentRefunded))

	// FAILED is reachable from everywhere.
	assert.True(t, PaymentPending.CanTransitionTo(PaymentFailed))
	assert.True(t, PaymentPartial.CanTransitionTo(PaymentFailed))

	assert.False(t, PaymentRefunded.CanTransitionTo(PaymentPaid))
	assert.False(t, PaymentPaid.CanTransitionTo(PaymentPartial))
}

func TestRecordDeposit(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.RecordDeposit(200, testNow))
	assert.Equal(t, 200.0, bk.DepositAmount())
	assert.Equal(t, 400.0, bk.RemainingAmount())

	assert.Error(t, bk.RecordDeposit(-1, testNow))
	assert.Error(t, bk.RecordDeposit(700, testNow))
}

func TestRecordCancellationSettlement(t *testing.T) {
	bk := newTestBooking(t)

	// Only cancelled bookings carry settlement amounts.
	assert.Error(t, bk.RecordCancellationSettlement(50, 550, testNow))

	require.NoError(t, bk.Cancel("changed plans", "guest", testNow))
	require.NoError(t, bk.RecordCancellationSettlement(50, 550, testNow))
	assert.Equal(t, 50.0, bk.Cancellation().Fee)
	assert.Equal(t, 550.0, bk.Cancellation().RefundAmount)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("CONFIRMED")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseStatus("confirmed")
	assert.Error(t, err)
	_, err = ParseStatus("BOGUS")
	assert.Error(t, err)
}
