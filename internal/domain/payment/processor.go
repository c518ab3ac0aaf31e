package payment

import (
	"context"
	"time"
)

// SettlementProcessor decides synchronously whether a payment attempt
// succeeds. The decision is known before createPayment returns; there is no
// asynchronous callback.
type SettlementProcessor interface {
	// Process attempts to settle the payment. A nil return means the charge
	// went through; any error means the attempt failed and the payment is
	// recorded as FAILED. There is no retry.
	Process(ctx context.Context, p *Payment) error
}

// SimulatedProcessor is the default processor. It stands in for a real
// gateway integration and approves every charge after a short delay.
type SimulatedProcessor struct {
	Delay time.Duration
}

// NewSimulatedProcessor creates a SimulatedProcessor with the given
// processing delay.
func NewSimulatedProcessor(delay time.Duration) *SimulatedProcessor {
	return &SimulatedProcessor{Delay: delay}
}

// Process simulates settlement. It honors context cancellation so an
// interrupted attempt surfaces as a failure.
func (s *SimulatedProcessor) Process(ctx context.Context, _ *Payment) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(s.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
