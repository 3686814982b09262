package domain

import "time"

// Actor recorded for transitions performed by the system itself
const ActorSystem = "system"

// StatusHistoryEntry is an append-only audit record of one status transition.
// FromStatus is nil for the initial entry written at booking creation.
type StatusHistoryEntry struct {
	ID        int64
	BookingID int64

	FromStatus *BookingStatus
	ToStatus   BookingStatus

	ChangedBy string
	Note      *string

	CreatedAt time.Time
}
