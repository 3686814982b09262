package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrDuplicateReference возвращается при нарушении уникального индекса
	// по референсу - финальный рубеж защиты от гонки генератора референсов
	ErrDuplicateReference = errors.New("booking.repository: duplicate booking reference")

	// ErrSlotTaken возвращается при нарушении уникального индекса по слоту -
	// финальный рубеж защиты от гонки резервации при ёмкости 1
	ErrSlotTaken = errors.New("booking.repository: slot already taken")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
