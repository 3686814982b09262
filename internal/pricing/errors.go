package pricing

import "errors"

var (
	// ErrUnknownServiceTier возвращается, когда для типа уборки нет тарифа
	ErrUnknownServiceTier = errors.New("pricing: unknown service tier")
)
