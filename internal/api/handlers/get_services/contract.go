package get_services

import (
	"context"

	"github.com/cleanhome/CH-BookingService/internal/domain"
)

type CatalogRepository interface {
	ListActive(ctx context.Context) ([]*domain.CleaningService, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
