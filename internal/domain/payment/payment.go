package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
)

// Method represents how a payment was made.
type Method string

const (
	MethodCreditCard   Method = "CREDIT_CARD"
	MethodDebitCard    Method = "DEBIT_CARD"
	MethodPayPal       Method = "PAYPAL"
	MethodBankTransfer Method = "BANK_TRANSFER"
	MethodCash         Method = "CASH"
)

// IsValid returns true if the payment method is recognized.
func (m Method) IsValid() bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodPayPal, MethodBankTransfer, MethodCash:
		return true
	}
	return false
}

// ParseMethod converts a string to a Method.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if !m.IsValid() {
		return "", fmt.Errorf("invalid payment method: %s", s)
	}
	return m, nil
}

// Status represents the settlement state of a payment record.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusRefunded   Status = "REFUNDED"
	StatusCancelled  Status = "CANCELLED"
)

// IsValid returns true if the payment status is recognized.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusRefunded, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus converts a string to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid payment status: %s", s)
	}
	return st, nil
}

// CardDetails holds the card information safe to persist.
type CardDetails struct {
	LastFourDigits string `json:"last_four_digits,omitempty"`
	Brand          string `json:"brand,omitempty"`
}

// BillingAddress holds the billing address supplied with a payment.
type BillingAddress struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Refund holds the details recorded when a payment is refunded.
type Refund struct {
	Amount     float64
	Reason     string
	RefundedAt *time.Time
}

// Payment is the aggregate root for a payment attempt against a booking.
// A payment is exclusively owned by its booking and cannot outlive it.
type Payment struct {
	id            uuid.UUID
	bookingID     uuid.UUID
	amount        float64
	currency      string
	method        Method
	status        Status
	transactionID string
	card          CardDetails
	billing       BillingAddress
	refund        Refund
	notes         string
	processedAt   *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

// NewPayment creates a new pending payment attempt.
func NewPayment(
	transactionID string,
	bookingID uuid.UUID,
	amount float64,
	currency string,
	method Method,
	card CardDetails,
	billing BillingAddress,
	notes string,
	now time.Time,
) (*Payment, error) {
	if transactionID == "" {
		return nil, domain.NewValidationError("transaction id is required")
	}
	if bookingID == uuid.Nil {
		return nil, domain.NewValidationError("booking ID is required")
	}
	if amount <= 0 {
		return nil, domain.NewValidationError("payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid payment method: %s", method))
	}
	if currency == "" {
		currency = "USD"
	}

	return &Payment{
		id:            uuid.New(),
		bookingID:     bookingID,
		amount:        amount,
		currency:      currency,
		method:        method,
		status:        StatusPending,
		transactionID: transactionID,
		card:          card,
		billing:       billing,
		notes:         notes,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Reconstruct rebuilds a Payment from persistence data (no validation).
func Reconstruct(
	id, bookingID uuid.UUID,
	amount float64,
	currency string,
	method Method,
	status Status,
	transactionID string,
	card CardDetails,
	billing BillingAddress,
	refund Refund,
	notes string,
	processedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Payment {
	return &Payment{
		id:            id,
		bookingID:     bookingID,
		amount:        amount,
		currency:      currency,
		method:        method,
		status:        status,
		transactionID: transactionID,
		card:          card,
		billing:       billing,
		refund:        refund,
		notes:         notes,
		processedAt:   processedAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ID returns the payment's unique identifier.
func (p *Payment) ID() uuid.UUID { return p.id }

// BookingID returns the owning booking's identifier.
func (p *Payment) BookingID() uuid.UUID { return p.bookingID }

// Amount returns the payment amount.
func (p *Payment) Amount() float64 { return p.amount }

// Currency returns the currency code.
func (p *Payment) Currency() string { return p.currency }

// Method returns the payment method.
func (p *Payment) Method() Method { return p.method }

// Status returns the settlement status.
func (p *Payment) Status() Status { return p.status }

// TransactionID returns the generated transaction id.
func (p *Payment) TransactionID() string { return p.transactionID }

// Card returns the persisted card details.
func (p *Payment) Card() CardDetails { return p.card }

// Billing returns the billing address.
func (p *Payment) Billing() BillingAddress { return p.billing }

// RefundDetails returns the refund details, zero-valued until refunded.
func (p *Payment) RefundDetails() Refund { return p.refund }

// Notes returns free-form notes attached to the payment.
func (p *Payment) Notes() string { return p.notes }

// ProcessedAt returns the settlement timestamp, or nil if never settled.
func (p *Payment) ProcessedAt() *time.Time { return p.processedAt }

// CreatedAt returns the creation timestamp.
func (p *Payment) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (p *Payment) UpdatedAt() time.Time { return p.updatedAt }

// MarkCompleted records a successful settlement.
func (p *Payment) MarkCompleted(now time.Time) {
	p.status = StatusCompleted
	p.processedAt = &now
	p.updatedAt = now
}

// MarkFailed records a failed settlement attempt. Failure is data, not an
// error: the payment record itself communicates the outcome.
func (p *Payment) MarkFailed(now time.Time) {
	p.status = StatusFailed
	p.updatedAt = now
}

// RefundPayment refunds a completed payment. amount, when nil, defaults to the
// full original amount; it must never exceed it.
func (p *Payment) RefundPayment(amount *float64, reason string, now time.Time) error {
	if p.status != StatusCompleted {
		return domain.NewValidationError("can only refund completed payments")
	}
	refundAmount := p.amount
	if amount != nil {
		if *amount > p.amount {
			return domain.NewValidationError("refund amount cannot exceed original payment amount")
		}
		if *amount <= 0 {
			return domain.NewValidationError("refund amount must be positive")
		}
		refundAmount = *amount
	}
	p.status = StatusRefunded
	p.refund = Refund{Amount: refundAmount, Reason: reason, RefundedAt: &now}
	p.updatedAt = now
	return nil
}
