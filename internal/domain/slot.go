package domain

import (
	"time"

	"github.com/cleanhome/CH-BookingService/pkg/types"
)

// TimeBand is a coarse classification of the slot start time,
// used for reporting and cleaner matching
type TimeBand string

const (
	BandMorning   TimeBand = "morning"   // before 12:00
	BandAfternoon TimeBand = "afternoon" // 12:00 - 16:59
	BandEvening   TimeBand = "evening"   // 17:00 and later
)

// Time band hour boundaries
const (
	AfternoonStartHour = 12
	EveningStartHour   = 17
)

// Slot is a normalized bookable instant produced by the schedule validator
type Slot struct {
	Date      time.Time // date part only, midnight in the service location
	StartTime types.TimeString
	Band      TimeBand
}

// Instant combines the slot date and start time into a single time.Time
func (s *Slot) Instant() time.Time {
	return time.Date(
		s.Date.Year(), s.Date.Month(), s.Date.Day(),
		s.StartTime.Hour(), s.StartTime.Minute(), 0, 0,
		s.Date.Location(),
	)
}

// BandForTime classifies a start time into its time band
func BandForTime(t types.TimeString) TimeBand {
	switch hour := t.Hour(); {
	case hour < AfternoonStartHour:
		return BandMorning
	case hour < EveningStartHour:
		return BandAfternoon
	default:
		return BandEvening
	}
}
