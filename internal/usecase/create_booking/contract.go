package create_booking

import (
	"context"
	"time"

	"github.com/cleanhome/CH-BookingService/internal/availability"
	"github.com/cleanhome/CH-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// CustomerRepository интерфейс репозитория клиентов и адресов
type CustomerRepository interface {
	UpsertByEmail(ctx context.Context, email, firstName, lastName, phone string) (*domain.Customer, error)
	CreateAddress(ctx context.Context, address *domain.Address) (*domain.Address, error)
}

// CatalogRepository интерфейс каталога услуг
type CatalogRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.CleaningService, error)
}

// HistoryRepository интерфейс репозитория истории статусов
type HistoryRepository interface {
	Create(ctx context.Context, entry *domain.StatusHistoryEntry) (*domain.StatusHistoryEntry, error)
}

// ScheduleValidator интерфейс валидатора расписания
type ScheduleValidator interface {
	Validate(date string, startTime string, now time.Time) (*domain.Slot, error)
}

// PricingEngine интерфейс движка расчета стоимости
type PricingEngine interface {
	Price(tier domain.ServiceTier, bedrooms, bathrooms int) (*domain.PriceBreakdown, error)
}

// AvailabilityEngine интерфейс движка резервирования слотов
type AvailabilityEngine interface {
	Reserve(ctx context.Context, slot *domain.Slot, durationMinutes int) (*availability.Reservation, error)
}

// ReferenceGenerator интерфейс генератора номеров бронирований
type ReferenceGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс диспетчера уведомлений.
// Вызывается после коммита транзакции, ошибки доставки не влияют на результат
type Notifier interface {
	Dispatch(booking *domain.Booking, customer *domain.Customer, service *domain.CleaningService)
}

// MetricsCollector интерфейс бизнес-метрик бронирований.
// HTTP middleware видит только коды ответов, исход бронирования фиксируется здесь
type MetricsCollector interface {
	IncBookingCreated()
	IncBookingRejected(reason string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
