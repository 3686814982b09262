package bookings

import (
	"context"

	"github.com/cleanhome/CH-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
	AssignCleaner(ctx context.Context, id int64, cleanerID int64) error
}

// HistoryRepository интерфейс репозитория истории статусов
type HistoryRepository interface {
	Create(ctx context.Context, entry *domain.StatusHistoryEntry) (*domain.StatusHistoryEntry, error)
	ListByBookingID(ctx context.Context, bookingID int64) ([]*domain.StatusHistoryEntry, error)
}

// CleanerRepository интерфейс репозитория клинеров
type CleanerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Cleaner, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
