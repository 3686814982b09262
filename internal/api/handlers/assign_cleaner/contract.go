package assign_cleaner

import (
	"context"

	"github.com/cleanhome/CH-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	AssignCleaner(ctx context.Context, reference string, req *models.AssignCleanerRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
