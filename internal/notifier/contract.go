package notifier

import (
	"context"

	"github.com/cleanhome/CH-BookingService/internal/integrations/mailservice"
)

// MailSender интерфейс почтового клиента
type MailSender interface {
	Send(ctx context.Context, msg *mailservice.Message) (string, error)
}

// BookingFlagSetter интерфейс для отметки факта отправки уведомлений
type BookingFlagSetter interface {
	SetNotificationFlags(ctx context.Context, id int64, customerNotified, adminNotified bool) error
}

// MetricsCollector интерфейс для метрик уведомлений
type MetricsCollector interface {
	IncNotificationSent(kind string, err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
