package notifier

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cleanhome/CH-BookingService/internal/domain"
	"github.com/cleanhome/CH-BookingService/internal/integrations/mailservice"
)

const (
	queueSize    = 256
	sendAttempts = 3
	sendTimeout  = 10 * time.Second
	flagsTimeout = 5 * time.Second
	backoffBase  = time.Second
)

// task единица работы: одно созданное бронирование
type task struct {
	booking  *domain.Booking
	customer *domain.Customer
	service  *domain.CleaningService
}

// Dispatcher асинхронный диспетчер уведомлений о созданных бронированиях.
// Задачи принимаются без блокировки вызывающего; отправка идет в фоновом
// воркере с повторами. Ошибки доставки логируются и никогда не всплывают
type Dispatcher struct {
	sender     MailSender
	flags      BookingFlagSetter
	metrics    MetricsCollector
	from       string
	adminEmail string
	logger     Logger

	queue     chan task
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewDispatcher создает диспетчер и запускает фоновый воркер
func NewDispatcher(
	sender MailSender,
	flags BookingFlagSetter,
	metrics MetricsCollector,
	from string,
	adminEmail string,
	logger Logger,
) *Dispatcher {
	d := &Dispatcher{
		sender:     sender,
		flags:      flags,
		metrics:    metrics,
		from:       from,
		adminEmail: adminEmail,
		logger:     logger,
		queue:      make(chan task, queueSize),
	}

	d.wg.Add(1)
	go d.worker()

	return d
}

// Dispatch ставит уведомления в очередь. Не блокирует вызывающего:
// при переполнении очереди задача отбрасывается с записью в лог
func (d *Dispatcher) Dispatch(booking *domain.Booking, customer *domain.Customer, service *domain.CleaningService) {
	select {
	case d.queue <- task{booking: booking, customer: customer, service: service}:
	default:
		d.logger.Warn("Notifier: queue is full, dropping notifications for booking reference=%s",
			booking.Reference)
	}
}

// Close останавливает прием задач и дожидается отправки оставшихся
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for t := range d.queue {
		d.process(t)
	}
}

func (d *Dispatcher) process(t task) {
	customerErr := d.sendWithRetry(buildCustomerMessage(d.from, t.booking, t.customer, t.service))
	d.metrics.IncNotificationSent("customer", customerErr)
	if customerErr != nil {
		d.logger.Error("Notifier: failed to notify customer for booking reference=%s: %v",
			t.booking.Reference, customerErr)
	}

	adminErr := d.sendWithRetry(buildAdminMessage(d.from, d.adminEmail, t.booking, t.customer, t.service))
	d.metrics.IncNotificationSent("admin", adminErr)
	if adminErr != nil {
		d.logger.Error("Notifier: failed to notify admin for booking reference=%s: %v",
			t.booking.Reference, adminErr)
	}

	// Флаги отправки обновляются по принципу best-effort
	ctx, cancel := context.WithTimeout(context.Background(), flagsTimeout)
	defer cancel()

	if err := d.flags.SetNotificationFlags(ctx, t.booking.ID, customerErr == nil, adminErr == nil); err != nil {
		d.logger.Error("Notifier: failed to set notification flags for booking id=%d: %v",
			t.booking.ID, err)
		return
	}

	d.logger.Info("Notifier: booking reference=%s processed, customer=%t, admin=%t",
		t.booking.Reference, customerErr == nil, adminErr == nil)
}

// sendWithRetry отправляет письмо с повторами и линейным backoff.
// Отклоненные сервисом письма (4xx) не повторяются
func (d *Dispatcher) sendWithRetry(msg *mailservice.Message) error {
	var lastErr error

	for attempt := 1; attempt <= sendAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		_, err := d.sender.Send(ctx, msg)
		cancel()

		if err == nil {
			return nil
		}
		lastErr = err

		if errors.Is(err, mailservice.ErrRejected) {
			return err
		}

		if attempt < sendAttempts {
			d.logger.Warn("Notifier: send attempt %d/%d failed, retrying: %v", attempt, sendAttempts, err)
			time.Sleep(backoffBase * time.Duration(attempt))
		}
	}

	return lastErr
}
