package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleanhome/CH-BookingService/pkg/types"
)

// CustomerInput данные клиента из запроса
type CustomerInput struct {
	Email     string // Email клиента (идентификатор для upsert)
	FirstName string // Имя
	LastName  string // Фамилия
	Phone     string // Телефон
}

// AddressInput адрес уборки из запроса
type AddressInput struct {
	StreetAddress string  // Улица и дом
	ApartmentUnit *string // Квартира/офис (опционально)
	City          string  // Город
	StateProvince string  // Штат/регион
	PostalCode    string  // Почтовый индекс
	Country       string  // Страна (опционально, по умолчанию "US")
}

// Request модель запроса на создание бронирования
type Request struct {
	Customer            CustomerInput // Данные клиента
	Address             AddressInput  // Адрес уборки
	ServiceID           int64         // ID услуги из каталога
	Date                string        // Дата уборки ("2006-01-02")
	StartTime           string        // Время начала ("15:04")
	Bedrooms            int           // Количество спален
	Bathrooms           int           // Количество санузлов
	SpecialInstructions *string       // Пожелания клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64            // ID созданного бронирования
	Reference       string           // Номер бронирования (например, "CLN-2025-000042")
	CustomerID      int64            // ID клиента
	ServiceID       int64            // ID услуги
	AddressID       int64            // ID адреса
	ScheduledDate   time.Time        // Дата уборки
	StartTime       types.TimeString // Время начала
	DurationMinutes int              // Длительность в минутах
	TimeBand        string           // Часть дня (morning/afternoon/evening)
	Bedrooms        int              // Количество спален
	Bathrooms       int              // Количество санузлов
	Status          string           // Статус бронирования

	// Расчет стоимости
	BedroomSubtotal  decimal.Decimal // Стоимость за спальни
	BathroomSubtotal decimal.Decimal // Стоимость за санузлы
	Subtotal         decimal.Decimal // Сумма без налога
	TaxAmount        decimal.Decimal // Налог
	TotalAmount      decimal.Decimal // Итоговая сумма

	SpecialInstructions *string   // Пожелания клиента
	CreatedAt           time.Time // Время создания
}
