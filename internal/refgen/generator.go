package refgen

import (
	"context"
	"fmt"
	"math/rand"
)

// suffixRange диапазон случайного суффикса при коллизии (000-999)
const suffixRange = 1000

// Generator генерирует человекочитаемые референсы бронирований
// в формате PREFIX-YYYY-NNNNNN, где NNNNNN - порядковый номер в году.
//
// Подсчёт и проверка кандидата - это эвристика с низкой вероятностью
// коллизий, а не гарантия: при гонке двух запросов оба могут получить
// одинаковый счётчик. Финальную уникальность обеспечивает уникальный
// индекс по reference в БД; координатор повторяет попытку один раз,
// если вставка всё же упёрлась в дубликат.
type Generator struct {
	prefix       string
	prober       BookingProber
	timeProvider TimeProvider
}

// NewGenerator создает генератор референсов
func NewGenerator(prefix string, prober BookingProber) *Generator {
	return &Generator{
		prefix:       prefix,
		prober:       prober,
		timeProvider: &RealTimeProvider{},
	}
}

// Generate возвращает кандидата референса для нового бронирования
func (g *Generator) Generate(ctx context.Context) (string, error) {
	year := g.timeProvider.Now().Year()

	count, err := g.prober.CountInYear(ctx, year)
	if err != nil {
		return "", fmt.Errorf("%w: failed to count bookings for year %d: %v", ErrInternal, year, err)
	}

	candidate := fmt.Sprintf("%s-%d-%06d", g.prefix, year, count+1)

	exists, err := g.prober.ExistsByReference(ctx, candidate)
	if err != nil {
		return "", fmt.Errorf("%w: failed to probe reference %s: %v", ErrInternal, candidate, err)
	}

	if !exists {
		return candidate, nil
	}

	// Коллизия счётчика: добавляем случайный трёхзначный суффикс
	return fmt.Sprintf("%s-%03d", candidate, rand.Intn(suffixRange)), nil
}
