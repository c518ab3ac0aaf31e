package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
	bookingDomain "github.com/harborview-hospitality/service-reservation/internal/domain/booking"
	paymentDomain "github.com/harborview-hospitality/service-reservation/internal/domain/payment"
	"github.com/harborview-hospitality/service-reservation/internal/events"
)

type paymentFixture struct {
	payments  *mockPaymentRepo
	bookings  *mockBookingRepo
	processor *mockProcessor
	publisher *mockPublisher
	service   *PaymentService
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		payments:  &mockPaymentRepo{},
		bookings:  &mockBookingRepo{},
		processor: &mockProcessor{},
		publisher: &mockPublisher{},
	}
	f.service = NewPaymentService(
		f.payments, f.bookings, f.processor, f.publisher,
		testClock{now: fixedNow}, &testGenerator{}, testLogger(),
	)
	return f
}

func paymentReq(bookingID uuid.UUID, amount float64) CreatePaymentRequest {
	return CreatePaymentRequest{
		BookingID:    bookingID,
		Amount:       amount,
		Method:       "CREDIT_CARD",
		CardLastFour: "4242",
		CardBrand:    "VISA",
	}
}

func makeCompletedPayment(t *testing.T, bookingID uuid.UUID, amount float64) *paymentDomain.Payment {
	t.Helper()
	p, err := paymentDomain.NewPayment(
		"TXN-1715769000000-TESTOK", bookingID, amount, "USD",
		paymentDomain.MethodCreditCard,
		paymentDomain.CardDetails{LastFourDigits: "4242", Brand: "VISA"},
		paymentDomain.BillingAddress{},
		"",
		fixedNow,
	)
	require.NoError(t, err)
	p.MarkCompleted(fixedNow)
	return p
}

func TestCreatePayment_Settles(t *testing.T) {
	f := newPaymentFixture()
	bk := makeBooking(uuid.New(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), 400)

	f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)
	f.payments.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.processor.On("Process", mock.Anything, mock.Anything).Return(nil)
	f.payments.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, events.TopicPaymentEvents, mock.Anything, mock.Anything).Return(nil)

	dto, err := f.service.CreatePayment(context.Background(), paymentReq(bk.ID(), 400))
	require.NoError(t, err)

	assert.Equal(t, "COMPLETED", dto.Status)
	assert.Equal(t, "TXN-1715769000000-TESTOK", dto.TransactionID)
	require.NotNil(t, dto.ProcessedAt)

	// The booking is never mutated by a payment; its own payment status is
	// driven by a separate workflow.
	assert.Equal(t, bookingDomain.PaymentPending, bk.PaymentStatus())
	assert.Equal(t, bookingDomain.StatusPending, bk.Status())
	f.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.PaymentCompleted, f.publisher.published[0].Type)
}

func TestCreatePayment_DeclinedIsRecordedNotReturned(t *testing.T) {
	f := newPaymentFixture()
	bk := makeBooking(uuid.New(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), 400)

	f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)
	f.payments.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.processor.On("Process", mock.Anything, mock.Anything).Return(assert.AnError)
	f.payments.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	dto, err := f.service.CreatePayment(context.Background(), paymentReq(bk.ID(), 400))
	require.NoError(t, err, "a declined settlement is data, not an error")

	assert.Equal(t, "FAILED", dto.Status)
	assert.Equal(t, bookingDomain.PaymentPending, bk.PaymentStatus())

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.PaymentFailed, f.publisher.published[0].Type)
}

func TestCreatePayment_AmountMustMatchTotal(t *testing.T) {
	f := newPaymentFixture()
	bk := makeBooking(uuid.New(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), 400)
	f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)

	for _, amount := range []float64{150, 399.99, 400.01} {
		_, err := f.service.CreatePayment(context.Background(), paymentReq(bk.ID(), amount))
		assert.True(t, domain.IsValidation(err), "amount %v must be rejected", amount)
	}
	f.payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreatePayment_CancelledBookingRejected(t *testing.T) {
	f := newPaymentFixture()
	bk := makeBooking(uuid.New(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), 400)
	require.NoError(t, bk.Cancel("no longer travelling", "guest", fixedNow))

	f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)

	_, err := f.service.CreatePayment(context.Background(), paymentReq(bk.ID(), 400))
	assert.True(t, domain.IsValidation(err))
}

func TestCreatePayment_UnknownMethodRejected(t *testing.T) {
	f := newPaymentFixture()
	bk := makeBooking(uuid.New(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), 400)
	f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)

	req := paymentReq(bk.ID(), 400)
	req.Method = "BARTER"
	_, err := f.service.CreatePayment(context.Background(), req)
	assert.True(t, domain.IsValidation(err))
}

func TestRefundPayment_FullRefund(t *testing.T) {
	f := newPaymentFixture()
	p := makeCompletedPayment(t, uuid.New(), 400)

	f.payments.On("FindByID", mock.Anything, p.ID()).Return(p, nil)
	f.payments.On("Update", mock.Anything, p).Return(nil)
	f.publisher.On("Publish", mock.Anything, events.TopicPaymentEvents, mock.Anything, mock.Anything).Return(nil)

	dto, err := f.service.RefundPayment(context.Background(), p.ID(), RefundPaymentRequest{Reason: "stay cancelled"})
	require.NoError(t, err)

	assert.Equal(t, "REFUNDED", dto.Status)
	assert.Equal(t, 400.0, dto.RefundAmount, "nil amount defaults to a full refund")
	assert.Equal(t, "stay cancelled", dto.RefundReason)
	require.NotNil(t, dto.RefundedAt)

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.PaymentRefunded, f.publisher.published[0].Type)
}

func TestRefundPayment_Partial(t *testing.T) {
	f := newPaymentFixture()
	p := makeCompletedPayment(t, uuid.New(), 400)

	f.payments.On("FindByID", mock.Anything, p.ID()).Return(p, nil)
	f.payments.On("Update", mock.Anything, p).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	amount := 150.0
	dto, err := f.service.RefundPayment(context.Background(), p.ID(), RefundPaymentRequest{Amount: &amount, Reason: "late check-in"})
	require.NoError(t, err)
	assert.Equal(t, 150.0, dto.RefundAmount)
}

func TestRefundPayment_PendingRejected(t *testing.T) {
	f := newPaymentFixture()
	p, err := paymentDomain.NewPayment(
		"TXN-1715769000000-TESTOK", uuid.New(), 400, "USD",
		paymentDomain.MethodCreditCard, paymentDomain.CardDetails{}, paymentDomain.BillingAddress{}, "", fixedNow,
	)
	require.NoError(t, err)

	f.payments.On("FindByID", mock.Anything, p.ID()).Return(p, nil)

	_, err = f.service.RefundPayment(context.Background(), p.ID(), RefundPaymentRequest{Reason: "test"})
	assert.True(t, domain.IsValidation(err))
	f.payments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestGetPaymentsByBooking_RequiresBooking(t *testing.T) {
	f := newPaymentFixture()
	bookingID := uuid.New()
	f.bookings.On("FindByID", mock.Anything, bookingID).Return(nil, domain.NewNotFoundError("Booking", bookingID.String()))

	_, err := f.service.GetPaymentsByBooking(context.Background(), bookingID)
	assert.True(t, domain.IsNotFound(err))
	f.payments.AssertNotCalled(t, "FindByBookingID", mock.Anything, mock.Anything)
}

func TestGetPaymentsByBooking_EmptyList(t *testing.T) {
	f := newPaymentFixture()
	bk := makeBooking(uuid.New(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), 400)

	f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)
	f.payments.On("FindByBookingID", mock.Anything, bk.ID()).Return([]*paymentDomain.Payment{}, nil)

	dtos, err := f.service.GetPaymentsByBooking(context.Background(), bk.ID())
	require.NoError(t, err)
	assert.Empty(t, dtos)
}

func TestListPaymentsByStatus_UnknownStatus(t *testing.T) {
	f := newPaymentFixture()
	_, err := f.service.ListPaymentsByStatus(context.Background(), "SETTLED")
	assert.True(t, domain.IsValidation(err))
}
