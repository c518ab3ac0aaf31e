// Package identity provides the clock and reference-number generation ports
// used by the booking and payment aggregates, so tests can supply
// deterministic values and generated numbers stay unique within a process.
package identity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

const referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock implementation of Clock.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Generator produces the human-facing reference numbers used across the system.
type Generator interface {
	// BookingNumber returns a unique booking number ("BK-" + timestamp to
	// second precision).
	BookingNumber() string

	// ConfirmationCode returns a random confirmation code ("CNF-" + 6 chars).
	ConfirmationCode() (string, error)

	// TransactionID returns a unique payment transaction id
	// ("TXN-" + millisecond timestamp + "-" + 6 random chars).
	TransactionID() (string, error)
}

// ReferenceGenerator is the default Generator. Booking numbers are derived
// from the clock; when two calls land in the same second the timestamp is
// bumped forward so the generated number stays unique within the process.
type ReferenceGenerator struct {
	clock Clock

	mu   sync.Mutex
	last time.Time
}

// NewReferenceGenerator creates a ReferenceGenerator backed by the given clock.
func NewReferenceGenerator(clock Clock) *ReferenceGenerator {
	return &ReferenceGenerator{clock: clock}
}

// BookingNumber returns a booking number in the format "BK-20240115093012".
func (g *ReferenceGenerator) BookingNumber() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now().Truncate(time.Second)
	if !now.After(g.last) {
		now = g.last.Add(time.Second)
	}
	g.last = now

	return "BK-" + now.Format("20060102150405")
}

// ConfirmationCode returns a confirmation code in the format "CNF-XXXXXX".
func (g *ReferenceGenerator) ConfirmationCode() (string, error) {
	suffix, err := randomChars(6)
	if err != nil {
		return "", fmt.Errorf("failed to generate confirmation code: %w", err)
	}
	return "CNF-" + suffix, nil
}

// TransactionID returns a transaction id in the format "TXN-<millis>-XXXXXX".
func (g *ReferenceGenerator) TransactionID() (string, error) {
	suffix, err := randomChars(6)
	if err != nil {
		return "", fmt.Errorf("failed to generate transaction id: %w", err)
	}
	return fmt.Sprintf("TXN-%d-%s", g.clock.Now().UnixMilli(), suffix), nil
}

func randomChars(n int) (string, error) {
	result := make([]byte, n)
	for i := range result {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceChars))))
		if err != nil {
			return "", err
		}
		result[i] = referenceChars[idx.Int64()]
	}
	return string(result), nil
}
