package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleanhome/CH-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a cleaning service booking.
// The reference and the price fields are immutable after creation;
// status changes only through the transitions allowed by CanTransitionTo.
type Booking struct {
	ID        int64
	Reference string

	CustomerID int64
	ServiceID  int64
	AddressID  int64

	ScheduledDate   time.Time
	StartTime       types.TimeString
	DurationMinutes int
	TimeBand        TimeBand

	Bedrooms  int
	Bathrooms int

	// Price is locked at booking time, never recomputed
	BedroomSubtotal  decimal.Decimal
	BathroomSubtotal decimal.Decimal
	Subtotal         decimal.Decimal
	TaxAmount        decimal.Decimal
	TotalAmount      decimal.Decimal

	Status            BookingStatus
	AssignedCleanerID *int64

	SpecialInstructions *string
	CancellationReason  *string

	ConfirmedAt *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time

	CustomerNotified bool
	AdminNotified    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its slot
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true if the booking reached a final state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return CanTransitionTo(b.Status, StatusCancelled)
}

// CanTransitionTo reports whether a status transition is allowed:
//
//	pending   -> confirmed, cancelled
//	confirmed -> completed, cancelled
//	completed, cancelled -> (terminal)
func CanTransitionTo(from, to BookingStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled
	default:
		return false
	}
}

// ParseBookingStatus converts a raw string into a BookingStatus
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}
