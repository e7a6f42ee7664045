package booking

import (
	"context"
	"time"
)

// CheckResult is the outcome of a real-time availability check.
type CheckResult struct {
	Available bool
	// Alternatives holds same-day options to offer when the slot is taken,
	// preformatted as "HH:MM (мастер)".
	Alternatives []string
}

// SlotChecker verifies one concrete slot against the live schedule.
type SlotChecker interface {
	CheckSlot(ctx context.Context, serviceID int64, masterID *int64, at time.Time) (CheckResult, error)
}

// CreateRequest carries the data required to create a booking.
type CreateRequest struct {
	ServiceID   int64
	MasterID    *int64
	MasterName  string
	ClientName  string
	ClientPhone string
	At          time.Time
}

// Confirmation describes a successfully created booking.
type Confirmation struct {
	BookingID   int64
	ServiceName string
	MasterName  string
	At          time.Time
}

// BookingCreator creates the appointment once every field is collected and
// verified. Only the finalizer node calls it.
type BookingCreator interface {
	Create(ctx context.Context, req CreateRequest) (Confirmation, error)
}
