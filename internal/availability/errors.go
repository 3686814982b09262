package availability

import "errors"

var (
	// ErrSlotUnavailable возвращается, когда ёмкость слота исчерпана
	ErrSlotUnavailable = errors.New("availability: slot is not available")

	// ErrNoCleanerAvailable возвращается, когда нет свободного клинера на слот
	ErrNoCleanerAvailable = errors.New("availability: no cleaner available for this slot")

	// ErrInternal возвращается при ошибках работы с хранилищем
	ErrInternal = errors.New("availability: internal error")
)
