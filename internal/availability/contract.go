package availability

import (
	"context"
	"time"

	"github.com/cleanhome/CH-BookingService/pkg/types"
)

// BookingCounter интерфейс подсчёта активных бронирований на слот
// Внутри транзакции реализация обязана брать блокировку (FOR UPDATE),
// чтобы конкурентные резервации одного слота сериализовались
type BookingCounter interface {
	CountActiveAtSlot(ctx context.Context, date time.Time, startTime types.TimeString) (int, error)
}

// CleanerFinder интерфейс поиска доступных клинеров
type CleanerFinder interface {
	FindAvailable(ctx context.Context, date time.Time, startTime types.TimeString, durationMinutes int) ([]int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
