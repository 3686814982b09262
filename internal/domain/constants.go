package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MaxSpecialInstructionsLength = 1000
	MaxCancellationReasonLength  = 500
	DefaultCountry               = "US"
)

// ActiveStatuses статусы бронирований, занимающих слот
// Используется при подсчёте занятости слота
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
