package events

import (
	"time"

	"github.com/google/uuid"
)

// Kafka topics.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Event types.
const (
	BookingCreated   = "reservation.booking.created"
	BookingConfirmed = "reservation.booking.confirmed"
	BookingCancelled = "reservation.booking.cancelled"
	PaymentCompleted = "reservation.payment.completed"
	PaymentFailed    = "reservation.payment.failed"
	PaymentRefunded  = "reservation.payment.refunded"
)

// BookingCreatedEvent is published when a booking is accepted.
type BookingCreatedEvent struct {
	BookingID     uuid.UUID  `json:"booking_id"`
	BookingNumber string     `json:"booking_number"`
	RoomID        uuid.UUID  `json:"room_id"`
	GuestID       *uuid.UUID `json:"guest_id,omitempty"`
	GuestEmail    string     `json:"guest_email"`
	CheckInDate   time.Time  `json:"check_in_date"`
	CheckOutDate  time.Time  `json:"check_out_date"`
	TotalPrice    float64    `json:"total_price"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// BookingConfirmedEvent is published when a pending booking is confirmed.
type BookingConfirmedEvent struct {
	BookingID        uuid.UUID `json:"booking_id"`
	BookingNumber    string    `json:"booking_number"`
	ConfirmationCode string    `json:"confirmation_code"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published when a booking is cancelled.
type BookingCancelledEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	Reason        string    `json:"reason"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PaymentSettledEvent is published when a payment attempt completes or fails.
type PaymentSettledEvent struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	BookingID     uuid.UUID `json:"booking_id"`
	TransactionID string    `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PaymentRefundedEvent is published when a completed payment is refunded.
type PaymentRefundedEvent struct {
	PaymentID    uuid.UUID `json:"payment_id"`
	BookingID    uuid.UUID `json:"booking_id"`
	RefundAmount float64   `json:"refund_amount"`
	Reason       string    `json:"reason"`
	OccurredAt   time.Time `json:"occurred_at"`
}
