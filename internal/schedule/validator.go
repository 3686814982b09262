package schedule

import (
	"fmt"
	"time"

	"github.com/cleanhome/CH-BookingService/internal/config"
	"github.com/cleanhome/CH-BookingService/internal/domain"
	"github.com/cleanhome/CH-BookingService/pkg/types"
)

// Validator проверяет запрошенные дату и время по правилам расписания
// и нормализует их в domain.Slot. Чистый компонент: не делает I/O,
// текущее время передаётся вызывающей стороной.
type Validator struct {
	minLeadDays int
	maxLeadDays int
	open        types.TimeString
	close       types.TimeString
	granularity int
}

// NewValidator создает валидатор из иммутабельной конфигурации бронирования
func NewValidator(cfg config.BookingConfig) *Validator {
	return &Validator{
		minLeadDays: cfg.MinLeadDays,
		maxLeadDays: cfg.MaxLeadDays,
		open:        types.TimeString(cfg.BusinessOpen),
		close:       types.TimeString(cfg.BusinessClose),
		granularity: cfg.SlotGranularityMinutes,
	}
}

// Validate применяет правила в фиксированном порядке, первая ошибка выигрывает:
// формат -> слишком рано -> слишком поздно -> рабочие часы -> гранулярность.
// Все отказы детерминированы и не устраняются повтором запроса.
func (v *Validator) Validate(date string, startTime string, now time.Time) (*domain.Slot, error) {
	// 1. Парсинг даты и времени
	day, err := time.ParseInLocation(domain.DateFormat, date, now.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: date %q, expected YYYY-MM-DD", ErrMalformedInput, date)
	}

	start, err := types.NewTimeStringFromString(startTime)
	if err != nil {
		return nil, fmt.Errorf("%w: time %q, expected HH:MM", ErrMalformedInput, startTime)
	}

	slot := &domain.Slot{
		Date:      day,
		StartTime: start,
		Band:      domain.BandForTime(start),
	}
	instant := slot.Instant()

	// 2. Минимальный срок до бронирования
	if instant.Before(now.AddDate(0, 0, v.minLeadDays)) {
		return nil, fmt.Errorf("%w: must book at least %d day(s) in advance", ErrTooSoon, v.minLeadDays)
	}

	// 3. Максимальный срок
	if instant.After(now.AddDate(0, 0, v.maxLeadDays)) {
		return nil, fmt.Errorf("%w: can only book up to %d days in advance", ErrTooFar, v.maxLeadDays)
	}

	// 4. Рабочие часы: верхняя граница не включается
	if start.IsBefore(v.open) || !start.IsBefore(v.close) {
		return nil, fmt.Errorf("%w: available between %s and %s", ErrOutsideBusinessHours, v.open, v.close)
	}

	// 5. Время должно попадать на границу слота
	if start.Minute()%v.granularity != 0 {
		return nil, fmt.Errorf("%w: minutes must be a multiple of %d", ErrInvalidGranularity, v.granularity)
	}

	return slot, nil
}
