package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/cleanhome/CH-BookingService/internal/config"
	"github.com/cleanhome/CH-BookingService/internal/domain"
	"github.com/cleanhome/CH-BookingService/pkg/types"
)

// UseCase use case для получения слотов дня со свободными местами
type UseCase struct {
	bookingRepo  BookingRepository
	cfg          config.BookingConfig
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	cfg config.BookingConfig,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		cfg:          cfg,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute возвращает все слоты запрошенной даты с количеством свободных мест.
// Для дат вне окна бронирования возвращается пустой список - это
// информационная ручка, отказ здесь не нужен
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s", req.Date)

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid date format: %v", err)
		return nil, fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	if !uc.isBookable(date, now) {
		uc.logger.Info("GetAvailableSlots: date=%s is outside the booking window", req.Date)
		return &Response{Date: date, Slots: []Slot{}}, nil
	}

	starts, err := uc.generateSlotStarts()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	counts, err := uc.bookingRepo.CountActiveByDate(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to count bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to count bookings: %v", ErrInternal, err)
	}

	slots := make([]Slot, 0, len(starts))
	for _, start := range starts {
		available := uc.cfg.SlotCapacity - counts[start]
		if available < 0 {
			available = 0
		}

		slots = append(slots, Slot{
			StartTime:      start,
			Band:           domain.BandForTime(start),
			AvailableSpots: available,
			TotalSpots:     uc.cfg.SlotCapacity,
		})
	}

	uc.logger.Info("GetAvailableSlots: date=%s, %d slots returned", req.Date, len(slots))
	return &Response{Date: date, Slots: slots}, nil
}

// isBookable проверяет, что дата попадает в окно бронирования
func (uc *UseCase) isBookable(date, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	minDate := today.AddDate(0, 0, uc.cfg.MinLeadDays)
	maxDate := today.AddDate(0, 0, uc.cfg.MaxLeadDays)

	return !dateOnly.Before(minDate) && !dateOnly.After(maxDate)
}

// generateSlotStarts перечисляет времена начала слотов внутри рабочих часов
// с шагом гранулярности. Время закрытия не включается
func (uc *UseCase) generateSlotStarts() ([]types.TimeString, error) {
	open, err := types.NewTimeStringFromString(uc.cfg.BusinessOpen)
	if err != nil {
		return nil, err
	}

	close, err := types.NewTimeStringFromString(uc.cfg.BusinessClose)
	if err != nil {
		return nil, err
	}

	starts := make([]types.TimeString, 0)
	current := open

	for current.IsBefore(close) {
		starts = append(starts, current)

		next, err := current.AddMinutes(uc.cfg.SlotGranularityMinutes)
		if err != nil {
			// Дошли до конца суток
			break
		}
		current = next
	}

	return starts, nil
}
