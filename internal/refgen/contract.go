package refgen

import (
	"context"
	"time"
)

// BookingProber интерфейс чтения хранилища для генерации референсов
type BookingProber interface {
	CountInYear(ctx context.Context, year int) (int, error)
	ExistsByReference(ctx context.Context, reference string) (bool, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
