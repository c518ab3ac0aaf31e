package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
	bookingDomain "github.com/harborview-hospitality/service-reservation/internal/domain/booking"
	"github.com/harborview-hospitality/service-reservation/internal/domain/identity"
	paymentDomain "github.com/harborview-hospitality/service-reservation/internal/domain/payment"
	"github.com/harborview-hospitality/service-reservation/internal/events"
)

// CreatePaymentRequest holds the data needed to take a payment on a booking.
type CreatePaymentRequest struct {
	BookingID      uuid.UUID `json:"booking_id" binding:"required"`
	Amount         float64   `json:"amount" binding:"required,gt=0"`
	Currency       string    `json:"currency"`
	Method         string    `json:"method" binding:"required"`
	CardLastFour   string    `json:"card_last_four"`
	CardBrand      string    `json:"card_brand"`
	BillingStreet  string    `json:"billing_street"`
	BillingCity    string    `json:"billing_city"`
	BillingState   string    `json:"billing_state"`
	BillingZip     string    `json:"billing_zip"`
	BillingCountry string    `json:"billing_country"`
	Notes          string    `json:"notes"`
}

// RefundPaymentRequest holds the data for refunding a completed payment.
type RefundPaymentRequest struct {
	Amount *float64 `json:"amount"`
	Reason string   `json:"reason"`
}

// PaymentDTO is the response representation of a payment.
type PaymentDTO struct {
	ID            uuid.UUID  `json:"id"`
	BookingID     uuid.UUID  `json:"booking_id"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transaction_id"`
	CardLastFour  string     `json:"card_last_four,omitempty"`
	CardBrand     string     `json:"card_brand,omitempty"`
	RefundAmount  float64    `json:"refund_amount,omitempty"`
	RefundReason  string     `json:"refund_reason,omitempty"`
	RefundedAt    *time.Time `json:"refunded_at,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// PaymentService is the application service coordinating payments against
// bookings. Settlement runs synchronously through the SettlementProcessor; a
// declined settlement is recorded as a FAILED payment, not returned as an
// error.
type PaymentService struct {
	payments  paymentDomain.Repository
	bookings  bookingDomain.Repository
	processor paymentDomain.SettlementProcessor
	producer  events.Publisher
	clock     identity.Clock
	gen       identity.Generator
	logger    *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	payments paymentDomain.Repository,
	bookings bookingDomain.Repository,
	processor paymentDomain.SettlementProcessor,
	producer events.Publisher,
	clock identity.Clock,
	gen identity.Generator,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		payments:  payments,
		bookings:  bookings,
		processor: processor,
		producer:  producer,
		clock:     clock,
		gen:       gen,
		logger:    logger,
	}
}

// CreatePayment takes a payment for a booking and settles it synchronously.
// The amount must equal the booking total exactly; partial amounts and
// overpayments are both rejected. The booking itself is never mutated here,
// its payment status is driven separately by SetBookingPaymentStatus.
func (s *PaymentService) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*PaymentDTO, error) {
	bk, err := s.bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if bk.Status() == bookingDomain.StatusCancelled {
		return nil, domain.NewValidationError("cannot take a payment for a cancelled booking")
	}
	if req.Amount != bk.TotalPrice() {
		return nil, domain.NewValidationError("payment amount does not match the booking total")
	}

	method, err := paymentDomain.ParseMethod(req.Method)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	transactionID, err := s.gen.TransactionID()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	p, err := paymentDomain.NewPayment(
		transactionID,
		bk.ID(),
		req.Amount,
		req.Currency,
		method,
		paymentDomain.CardDetails{LastFourDigits: req.CardLastFour, Brand: req.CardBrand},
		paymentDomain.BillingAddress{
			Street:     req.BillingStreet,
			City:       req.BillingCity,
			State:      req.BillingState,
			PostalCode: req.BillingZip,
			Country:    req.BillingCountry,
		},
		req.Notes,
		now,
	)
	if err != nil {
		return nil, err
	}

	if err := s.payments.Save(ctx, p); err != nil {
		return nil, err
	}

	settledAt := s.clock.Now()
	if err := s.processor.Process(ctx, p); err != nil {
		p.MarkFailed(settledAt)
		s.logger.Warn("payment settlement declined",
			zap.String("payment_id", p.ID().String()),
			zap.String("transaction_id", p.TransactionID()),
			zap.Error(err),
		)
	} else {
		p.MarkCompleted(settledAt)
	}

	if err := s.payments.Update(ctx, p); err != nil {
		return nil, err
	}

	eventType := events.PaymentCompleted
	if p.Status() == paymentDomain.StatusFailed {
		eventType = events.PaymentFailed
	}
	evt := events.PaymentSettledEvent{
		PaymentID:     p.ID(),
		BookingID:     p.BookingID(),
		TransactionID: p.TransactionID(),
		Amount:        p.Amount(),
		Currency:      p.Currency(),
		Status:        string(p.Status()),
		OccurredAt:    settledAt,
	}
	s.publishEvent(ctx, events.TopicPaymentEvents, eventType, p.ID().String(), evt)

	result := toPaymentDTO(p)
	return &result, nil
}

// RefundPayment refunds a completed payment, fully or partially.
func (s *PaymentService) RefundPayment(ctx context.Context, paymentID uuid.UUID, req RefundPaymentRequest) (*PaymentDTO, error) {
	p, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := p.RefundPayment(req.Amount, req.Reason, now); err != nil {
		return nil, err
	}

	if err := s.payments.Update(ctx, p); err != nil {
		return nil, err
	}

	refund := p.RefundDetails()
	evt := events.PaymentRefundedEvent{
		PaymentID:    p.ID(),
		BookingID:    p.BookingID(),
		RefundAmount: refund.Amount,
		Reason:       refund.Reason,
		OccurredAt:   now,
	}
	s.publishEvent(ctx, events.TopicPaymentEvents, events.PaymentRefunded, p.ID().String(), evt)

	result := toPaymentDTO(p)
	return &result, nil
}

// GetPayment retrieves a single payment by ID.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID uuid.UUID) (*PaymentDTO, error) {
	p, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	result := toPaymentDTO(p)
	return &result, nil
}

// GetPaymentsByBooking retrieves all payments for a booking. The booking
// itself must exist; a booking with no payments yields an empty list.
func (s *PaymentService) GetPaymentsByBooking(ctx context.Context, bookingID uuid.UUID) ([]PaymentDTO, error) {
	if _, err := s.bookings.FindByID(ctx, bookingID); err != nil {
		return nil, err
	}

	payments, err := s.payments.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return toPaymentDTOs(payments), nil
}

// ListPayments returns a paginated list of all payments, newest first.
func (s *PaymentService) ListPayments(ctx context.Context, page, limit int) (*domain.PaginatedResult[PaymentDTO], error) {
	payments, total, err := s.payments.ListAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	result := domain.NewPaginatedResult(toPaymentDTOs(payments), total, page, limit)
	return &result, nil
}

// ListPaymentsByStatus retrieves payments in the given settlement status.
func (s *PaymentService) ListPaymentsByStatus(ctx context.Context, status string) ([]PaymentDTO, error) {
	st, err := paymentDomain.ParseStatus(status)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	payments, err := s.payments.FindByStatus(ctx, st)
	if err != nil {
		return nil, err
	}
	return toPaymentDTOs(payments), nil
}

// --- Helpers ---

func (s *PaymentService) publishEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
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

func toPaymentDTO(p *paymentDomain.Payment) PaymentDTO {
	card := p.Card()
	refund := p.RefundDetails()
	return PaymentDTO{
		ID:            p.ID(),
		BookingID:     p.BookingID(),
		Amount:        p.Amount(),
		Currency:      p.Currency(),
		Method:        string(p.Method()),
		Status:        string(p.Status()),
		TransactionID: p.TransactionID(),
		CardLastFour:  card.LastFourDigits,
		CardBrand:     card.Brand,
		RefundAmount:  refund.Amount,
		RefundReason:  refund.Reason,
		RefundedAt:    refund.RefundedAt,
		Notes:         p.Notes(),
		ProcessedAt:   p.ProcessedAt(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

func toPaymentDTOs(payments []*paymentDomain.Payment) []PaymentDTO {
	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	return dtos
}
