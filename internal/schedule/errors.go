package schedule

import "errors"

var (
	// ErrMalformedInput возвращается при нераспознаваемом формате даты или времени
	ErrMalformedInput = errors.New("schedule: malformed date or time")

	// ErrTooSoon возвращается, когда до слота меньше минимального срока
	ErrTooSoon = errors.New("schedule: booking is too soon")

	// ErrTooFar возвращается, когда слот дальше максимального срока
	ErrTooFar = errors.New("schedule: booking is too far in the future")

	// ErrOutsideBusinessHours возвращается, когда время вне рабочих часов
	ErrOutsideBusinessHours = errors.New("schedule: time is outside business hours")

	// ErrInvalidGranularity возвращается, когда минуты не попадают на границу слота
	ErrInvalidGranularity = errors.New("schedule: time is not on a slot boundary")
)
