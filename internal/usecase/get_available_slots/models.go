package get_available_slots

import (
	"time"

	"github.com/cleanhome/CH-BookingService/internal/domain"
	"github.com/cleanhome/CH-BookingService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Date string // Дата для получения слотов ("2006-01-02")
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date  time.Time // Дата, на которую запрашивались слоты
	Slots []Slot    // Список слотов дня
}

// Slot модель временного слота
type Slot struct {
	StartTime      types.TimeString // Время начала слота (например, "10:00")
	Band           domain.TimeBand  // Часть дня
	AvailableSpots int              // Количество свободных мест
	TotalSpots     int              // Общее количество мест
}
