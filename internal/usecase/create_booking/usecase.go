package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cleanhome/CH-BookingService/internal/availability"
	"github.com/cleanhome/CH-BookingService/internal/config"
	"github.com/cleanhome/CH-BookingService/internal/domain"
	bookingStore "github.com/cleanhome/CH-BookingService/internal/infra/storage/booking"
	catalogRepo "github.com/cleanhome/CH-BookingService/internal/infra/storage/catalog"
	"github.com/cleanhome/CH-BookingService/internal/schedule"
	"github.com/cleanhome/CH-BookingService/pkg/ptr"
)

// Таймаут всей единицы работы создания бронирования
const operationTimeout = 10 * time.Second

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	customerRepo CustomerRepository
	catalogRepo  CatalogRepository
	historyRepo  HistoryRepository
	schedule     ScheduleValidator
	pricing      PricingEngine
	availability AvailabilityEngine
	refGenerator ReferenceGenerator
	txManager    TransactionManager
	notifier     Notifier
	metrics      MetricsCollector
	timeProvider TimeProvider
	cfg          config.BookingConfig
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	customerRepo CustomerRepository,
	catalogRepo CatalogRepository,
	historyRepo HistoryRepository,
	schedule ScheduleValidator,
	pricing PricingEngine,
	availability AvailabilityEngine,
	refGenerator ReferenceGenerator,
	txManager TransactionManager,
	notifier Notifier,
	metrics MetricsCollector,
	cfg config.BookingConfig,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		customerRepo: customerRepo,
		catalogRepo:  catalogRepo,
		historyRepo:  historyRepo,
		schedule:     schedule,
		pricing:      pricing,
		availability: availability,
		refGenerator: refGenerator,
		txManager:    txManager,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		cfg:          cfg,
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Все операции с БД идут в одной сериализуемой транзакции;
// уведомления отправляются после коммита и не влияют на результат
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	if err != nil {
		uc.metrics.IncBookingRejected(rejectReason(err))
		return nil, err
	}

	uc.metrics.IncBookingCreated()
	return resp, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: email=%s, service=%d, date=%s, time=%s, bedrooms=%d, bathrooms=%d",
		req.Customer.Email, req.ServiceID, req.Date, req.StartTime, req.Bedrooms, req.Bathrooms)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.cfg.MinBedrooms, uc.cfg.MinBathrooms); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Валидация даты и времени слота
	slot, err := uc.schedule.Validate(req.Date, req.StartTime, now)
	if err != nil {
		uc.logger.Warn("CreateBooking: schedule validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем услугу из каталога
	service, err := uc.catalogRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 5. Рассчитываем стоимость
	price, err := uc.pricing.Price(service.Tier, req.Bedrooms, req.Bathrooms)
	if err != nil {
		uc.logger.Error("CreateBooking: pricing failed for tier=%s: %v", service.Tier, err)
		return nil, fmt.Errorf("%w: failed to price booking: %v", ErrInternal, err)
	}

	duration := service.DurationMinutes
	if duration <= 0 {
		duration = uc.cfg.DefaultDurationMinutes
	}

	// 6. Ограничиваем время выполнения транзакции
	txCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	var (
		result   *domain.Booking
		customer *domain.Customer
	)

	// 7. Выполняем операции с БД в сериализуемой транзакции.
	// При коллизии номера бронирования повторяем транзакцию целиком один раз:
	// после нарушения уникального индекса PostgreSQL откатывает транзакцию
	for attempt := 0; ; attempt++ {
		err = uc.txManager.DoSerializable(txCtx, func(ctx context.Context) error {
			var txErr error
			result, customer, txErr = uc.createInTx(ctx, req, slot, service, price, duration)
			return txErr
		})

		if errors.Is(err, bookingStore.ErrDuplicateReference) && attempt == 0 {
			uc.logger.Warn("CreateBooking: reference collision, retrying transaction")
			continue
		}
		break
	}

	if err != nil {
		switch {
		// Драйвер и репозитории не сохраняют причину в цепочке ошибок,
		// поэтому истечение дедлайна определяем по самому контексту
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(txCtx.Err(), context.DeadlineExceeded):
			uc.logger.Error("CreateBooking: transaction timed out after %s", operationTimeout)
			return nil, ErrOperationTimedOut
		case errors.Is(err, bookingStore.ErrDuplicateReference):
			uc.logger.Error("CreateBooking: reference collision persisted after retry: %v", err)
			return nil, fmt.Errorf("%w: reference collision persisted after retry", ErrInternal)
		case errors.Is(err, bookingStore.ErrSlotTaken):
			uc.logger.Error("CreateBooking: slot constraint violated at commit: %v", err)
			return nil, fmt.Errorf("%w: slot constraint violated at commit", ErrInternal)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, reference=%s",
		result.ID, result.Reference)

	// 8. Отдаем уведомления диспетчеру после коммита, ошибки доставки не всплывают
	uc.notifier.Dispatch(result, customer, service)

	return toResponse(result), nil
}

// rejectReason метка причины отказа для метрики bookings_rejected_total
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, schedule.ErrMalformedInput),
		errors.Is(err, schedule.ErrTooSoon),
		errors.Is(err, schedule.ErrTooFar),
		errors.Is(err, schedule.ErrOutsideBusinessHours),
		errors.Is(err, schedule.ErrInvalidGranularity):
		return "schedule"
	case errors.Is(err, ErrServiceNotFound):
		return "service_not_found"
	case errors.Is(err, ErrServiceInactive):
		return "service_inactive"
	case errors.Is(err, availability.ErrSlotUnavailable):
		return "slot_unavailable"
	case errors.Is(err, availability.ErrNoCleanerAvailable):
		return "no_cleaner"
	case errors.Is(err, ErrOperationTimedOut):
		return "timeout"
	default:
		return "internal"
	}
}

// createInTx выполняет шаги создания бронирования внутри транзакции
func (uc *UseCase) createInTx(
	ctx context.Context,
	req *Request,
	slot *domain.Slot,
	service *domain.CleaningService,
	price *domain.PriceBreakdown,
	duration int,
) (*domain.Booking, *domain.Customer, error) {
	// 1. Резервируем слот (проверка вместимости и подбор клинеров под блокировкой)
	reservation, err := uc.availability.Reserve(ctx, slot, duration)
	if err != nil {
		return nil, nil, err
	}

	uc.logger.Info("CreateBooking: slot reserved, %d/%d spots taken, %d candidate cleaners",
		reservation.SpotsTaken, reservation.Capacity, len(reservation.CandidateCleaners))

	// 2. Создаем или обновляем клиента по email
	customer, err := uc.customerRepo.UpsertByEmail(ctx,
		req.Customer.Email, req.Customer.FirstName, req.Customer.LastName, req.Customer.Phone)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to upsert customer: %v", err)
		return nil, nil, fmt.Errorf("%w: failed to upsert customer: %v", ErrInternal, err)
	}

	// 3. Создаем адрес уборки
	country := req.Address.Country
	if country == "" {
		country = domain.DefaultCountry
	}

	address, err := uc.customerRepo.CreateAddress(ctx, &domain.Address{
		CustomerID:    customer.ID,
		StreetAddress: req.Address.StreetAddress,
		ApartmentUnit: req.Address.ApartmentUnit,
		City:          req.Address.City,
		StateProvince: req.Address.StateProvince,
		PostalCode:    req.Address.PostalCode,
		Country:       country,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create address: %v", err)
		return nil, nil, fmt.Errorf("%w: failed to create address: %v", ErrInternal, err)
	}

	// 4. Генерируем номер бронирования
	reference, err := uc.refGenerator.Generate(ctx)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to generate reference: %v", err)
		return nil, nil, fmt.Errorf("%w: failed to generate reference: %v", ErrInternal, err)
	}

	// 5. Сохраняем бронирование со статусом pending
	booking := &domain.Booking{
		Reference:           reference,
		CustomerID:          customer.ID,
		ServiceID:           service.ID,
		AddressID:           address.ID,
		ScheduledDate:       slot.Date,
		StartTime:           slot.StartTime,
		DurationMinutes:     duration,
		TimeBand:            slot.Band,
		Bedrooms:            req.Bedrooms,
		Bathrooms:           req.Bathrooms,
		BedroomSubtotal:     price.BedroomSubtotal,
		BathroomSubtotal:    price.BathroomSubtotal,
		Subtotal:            price.Subtotal,
		TaxAmount:           price.TaxAmount,
		TotalAmount:         price.Total,
		Status:              domain.StatusPending,
		SpecialInstructions: req.SpecialInstructions,
	}

	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		// Коллизии номера и вместимости разбираются на уровне Execute
		if errors.Is(err, bookingStore.ErrDuplicateReference) || errors.Is(err, bookingStore.ErrSlotTaken) {
			return nil, nil, err
		}
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return nil, nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	// 6. Пишем первую запись истории статусов (null -> pending)
	_, err = uc.historyRepo.Create(ctx, &domain.StatusHistoryEntry{
		BookingID: created.ID,
		ToStatus:  domain.StatusPending,
		ChangedBy: domain.ActorSystem,
		Note:      ptr.Ptr("Booking created"),
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to write status history: %v", err)
		return nil, nil, fmt.Errorf("%w: failed to write status history: %v", ErrInternal, err)
	}

	return created, customer, nil
}

// toResponse конвертирует доменную модель в response
func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:                  b.ID,
		Reference:           b.Reference,
		CustomerID:          b.CustomerID,
		ServiceID:           b.ServiceID,
		AddressID:           b.AddressID,
		ScheduledDate:       b.ScheduledDate,
		StartTime:           b.StartTime,
		DurationMinutes:     b.DurationMinutes,
		TimeBand:            string(b.TimeBand),
		Bedrooms:            b.Bedrooms,
		Bathrooms:           b.Bathrooms,
		Status:              string(b.Status),
		BedroomSubtotal:     b.BedroomSubtotal,
		BathroomSubtotal:    b.BathroomSubtotal,
		Subtotal:            b.Subtotal,
		TaxAmount:           b.TaxAmount,
		TotalAmount:         b.TotalAmount,
		SpecialInstructions: b.SpecialInstructions,
		CreatedAt:           b.CreatedAt,
	}
}
