package availability

import (
	"context"
	"fmt"

	"github.com/cleanhome/CH-BookingService/internal/domain"
)

// Reservation подтверждение, что на момент проверки слот вмещает бронирование
// Клинер на этом этапе не назначается, фиксируются только кандидаты
type Reservation struct {
	Slot              *domain.Slot
	SpotsTaken        int
	Capacity          int
	CandidateCleaners []int64
}

// Engine проверяет и резервирует ёмкость слота.
// Оба условия независимы и обязательны: счётчик активных бронирований
// на точный момент строго меньше ёмкости И есть хотя бы один клинер,
// доступный на всю длительность. Последовательность check-then-reserve
// атомарна только внутри сериализуемой транзакции координатора -
// вне транзакции результат лишь информативен.
type Engine struct {
	bookings BookingCounter
	cleaners CleanerFinder
	capacity int
	logger   Logger
}

// NewEngine создает движок резервации слотов
func NewEngine(bookings BookingCounter, cleaners CleanerFinder, capacity int, logger Logger) *Engine {
	return &Engine{
		bookings: bookings,
		cleaners: cleaners,
		capacity: capacity,
		logger:   logger,
	}
}

// Reserve сертифицирует наличие ёмкости для слота
// Отказы ErrSlotUnavailable и ErrNoCleanerAvailable ожидаемы и не
// устраняются повтором - вызывающий должен выбрать другой слот
func (e *Engine) Reserve(ctx context.Context, slot *domain.Slot, durationMinutes int) (*Reservation, error) {
	taken, err := e.bookings.CountActiveAtSlot(ctx, slot.Date, slot.StartTime)
	if err != nil {
		e.logger.Error("Reserve: failed to count bookings at %s %s: %v",
			slot.Date.Format(domain.DateFormat), slot.StartTime, err)
		return nil, fmt.Errorf("%w: failed to count bookings at slot: %v", ErrInternal, err)
	}

	if taken >= e.capacity {
		e.logger.Warn("Reserve: slot %s %s is full, %d/%d spots taken",
			slot.Date.Format(domain.DateFormat), slot.StartTime, taken, e.capacity)
		return nil, ErrSlotUnavailable
	}

	cleaners, err := e.cleaners.FindAvailable(ctx, slot.Date, slot.StartTime, durationMinutes)
	if err != nil {
		e.logger.Error("Reserve: failed to find cleaners at %s %s: %v",
			slot.Date.Format(domain.DateFormat), slot.StartTime, err)
		return nil, fmt.Errorf("%w: failed to find available cleaners: %v", ErrInternal, err)
	}

	if len(cleaners) == 0 {
		e.logger.Warn("Reserve: no cleaner available at %s %s for %d min",
			slot.Date.Format(domain.DateFormat), slot.StartTime, durationMinutes)
		return nil, ErrNoCleanerAvailable
	}

	e.logger.Info("Reserve: slot %s %s available, %d/%d spots taken, %d candidate cleaner(s)",
		slot.Date.Format(domain.DateFormat), slot.StartTime, taken, e.capacity, len(cleaners))

	return &Reservation{
		Slot:              slot,
		SpotsTaken:        taken,
		Capacity:          e.capacity,
		CandidateCleaners: cleaners,
	}, nil
}
