package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrCleanerNotFound возвращается, когда клинер не найден
	ErrCleanerNotFound = errors.New("cleaner not found")

	// ErrCleanerInactive возвращается при попытке назначить неактивного клинера
	ErrCleanerInactive = errors.New("cleaner is inactive")

	// ErrInvalidStatusTransition возвращается при недопустимом переходе статуса
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
