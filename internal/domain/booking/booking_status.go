package booking

import "fmt"

// Status represents the current state of a booking in its lifecycle.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusNoShow     Status = "NO_SHOW"
)

// validTransitions defines the state machine for booking status transitions.
// Cancellation is intentionally not modelled here: a booking may be cancelled
// from any state except CANCELLED itself (see CanBeCancelled).
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed},
	StatusConfirmed:  {StatusCheckedIn, StatusNoShow},
	StatusCheckedIn:  {StatusCheckedOut},
	StatusCheckedOut: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusNoShow:     {},
}

// IsValid returns true if the status is a recognized booking status.
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsActive reports whether a booking in this status counts toward
// room-availability conflicts. CANCELLED and COMPLETED bookings do not.
func (s Status) IsActive() bool {
	return s != StatusCancelled && s != StatusCompleted
}

// CanBeCancelled returns true if the booking can be cancelled from this
// status. Every status except CANCELLED itself accepts cancellation.
func (s Status) CanBeCancelled() bool {
	return s != StatusCancelled
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
