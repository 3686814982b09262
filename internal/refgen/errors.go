package refgen

import "errors"

var (
	// ErrInternal возвращается при ошибках чтения хранилища
	ErrInternal = errors.New("refgen: internal error")
)
