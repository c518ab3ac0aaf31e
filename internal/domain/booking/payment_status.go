package booking

import "fmt"

// PaymentStatus tracks how much of a booking has been settled. It is a state
// machine independent of the booking status; completing a payment never
// advances the booking status automatically.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPartial  PaymentStatus = "PARTIAL"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
	PaymentFailed   PaymentStatus = "FAILED"
)

// paymentTransitions defines the payment-status state machine. FAILED is
// reachable from every state and is handled separately in CanTransitionTo.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:  {PaymentPartial, PaymentPaid},
	PaymentPartial:  {PaymentPaid},
	PaymentPaid:     {PaymentRefunded},
	PaymentRefunded: {},
	PaymentFailed:   {},
}

// IsValid returns true if the payment status is recognized.
func (s PaymentStatus) IsValid() bool {
	_, exists := paymentTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this payment status to
// the target is allowed.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	if !s.IsValid() {
		return false
	}
	if target == PaymentFailed {
		return true
	}
	for _, t := range paymentTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// String returns the string representation of the payment status.
func (s PaymentStatus) String() string {
	return string(s)
}

// ParsePaymentStatus converts a string to a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid payment status: %s", s)
	}
	return status, nil
}
