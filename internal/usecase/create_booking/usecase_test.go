package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanhome/CH-BookingService/internal/availability"
	"github.com/cleanhome/CH-BookingService/internal/config"
	"github.com/cleanhome/CH-BookingService/internal/domain"
	bookingStore "github.com/cleanhome/CH-BookingService/internal/infra/storage/booking"
	catalogRepo "github.com/cleanhome/CH-BookingService/internal/infra/storage/catalog"
	"github.com/cleanhome/CH-BookingService/internal/pricing"
	"github.com/cleanhome/CH-BookingService/internal/refgen"
	"github.com/cleanhome/CH-BookingService/internal/schedule"
	"github.com/cleanhome/CH-BookingService/pkg/ptr"
	"github.com/cleanhome/CH-BookingService/pkg/types"
)

// --- фейки ---

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct {
	t time.Time
}

func (f *fixedTime) Now() time.Time { return f.t }

// serialTxManager эмулирует сериализуемую изоляцию глобальной блокировкой
type serialTxManager struct {
	mu sync.Mutex
}

func (m *serialTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

// memStore общее in-memory хранилище для всех фейковых репозиториев
type memStore struct {
	mu sync.Mutex

	bookings         []*domain.Booking
	customersByEmail map[string]*domain.Customer
	history          []*domain.StatusHistoryEntry

	nextBookingID  int64
	nextCustomerID int64
	nextAddressID  int64
	nextHistoryID  int64

	createCalls    int
	dupRefFailures int // сколько первых Create завершить ErrDuplicateReference
}

func newMemStore() *memStore {
	return &memStore{customersByEmail: make(map[string]*domain.Customer)}
}

func (s *memStore) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.createCalls++
	if s.dupRefFailures > 0 {
		s.dupRefFailures--
		return nil, bookingStore.ErrDuplicateReference
	}

	for _, existing := range s.bookings {
		if existing.Reference == booking.Reference {
			return nil, bookingStore.ErrDuplicateReference
		}
	}

	s.nextBookingID++
	created := *booking
	created.ID = s.nextBookingID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.bookings = append(s.bookings, &created)
	return &created, nil
}

func (s *memStore) UpsertByEmail(_ context.Context, email, firstName, lastName, phone string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.customersByEmail[email]; ok {
		existing.FirstName = firstName
		existing.LastName = lastName
		existing.Phone = phone
		return existing, nil
	}

	s.nextCustomerID++
	customer := &domain.Customer{
		ID:        s.nextCustomerID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
	}
	s.customersByEmail[email] = customer
	return customer, nil
}

func (s *memStore) CreateAddress(_ context.Context, address *domain.Address) (*domain.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAddressID++
	created := *address
	created.ID = s.nextAddressID
	return &created, nil
}

func (s *memStore) CreateHistory(_ context.Context, entry *domain.StatusHistoryEntry) (*domain.StatusHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextHistoryID++
	created := *entry
	created.ID = s.nextHistoryID
	created.CreatedAt = time.Now()
	s.history = append(s.history, &created)
	return &created, nil
}

// CountActiveAtSlot считает активные бронирования на слот (контракт availability.BookingCounter)
func (s *memStore) CountActiveAtSlot(_ context.Context, date time.Time, startTime types.TimeString) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, b := range s.bookings {
		if b.IsActive() && b.ScheduledDate.Equal(date) && b.StartTime == startTime {
			count++
		}
	}
	return count, nil
}

// CountInYear и ExistsByReference реализуют контракт refgen.BookingProber
func (s *memStore) CountInYear(_ context.Context, year int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, b := range s.bookings {
		if b.CreatedAt.Year() == year {
			count++
		}
	}
	return count, nil
}

func (s *memStore) ExistsByReference(_ context.Context, reference string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bookings {
		if b.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

type fakeFinder struct {
	ids []int64
	err error
}

func (f *fakeFinder) FindAvailable(context.Context, time.Time, types.TimeString, int) ([]int64, error) {
	return f.ids, f.err
}

type fakeCatalog struct {
	services map[int64]*domain.CleaningService
}

func (f *fakeCatalog) GetByID(_ context.Context, id int64) (*domain.CleaningService, error) {
	service, ok := f.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return service, nil
}

type historyRepoAdapter struct {
	store *memStore
}

func (a *historyRepoAdapter) Create(ctx context.Context, entry *domain.StatusHistoryEntry) (*domain.StatusHistoryEntry, error) {
	return a.store.CreateHistory(ctx, entry)
}

type recordingMetrics struct {
	mu       sync.Mutex
	created  int
	rejected map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{rejected: make(map[string]int)}
}

func (m *recordingMetrics) IncBookingCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

func (m *recordingMetrics) IncBookingRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[reason]++
}

// deadlineStore имитирует поведение репозитория при истёкшем контексте:
// драйвер возвращает ошибку, причина теряется при оборачивании
type deadlineStore struct {
	*memStore
}

func (s *deadlineStore) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", bookingStore.ErrExecQuery, ctxErr)
	}
	return s.memStore.Create(ctx, booking)
}

type recordingNotifier struct {
	mu       sync.Mutex
	bookings []*domain.Booking
}

func (n *recordingNotifier) Dispatch(booking *domain.Booking, _ *domain.Customer, _ *domain.CleaningService) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bookings = append(n.bookings, booking)
}

// --- сборка тестового окружения ---

type env struct {
	uc       *UseCase
	store    *memStore
	notifier *recordingNotifier
	metrics  *recordingMetrics
	now      time.Time
}

func testConfig() config.BookingConfig {
	return config.BookingConfig{
		ReferencePrefix:        "CLN",
		MinLeadDays:            1,
		MaxLeadDays:            90,
		BusinessOpen:           "08:00",
		BusinessClose:          "20:00",
		SlotGranularityMinutes: 30,
		SlotCapacity:           1,
		DefaultDurationMinutes: 120,
		MinBedrooms:            1,
		MinBathrooms:           1,
		TaxRate:                0,
		Rates: map[string]config.TierRates{
			"standard":    {BedroomRate: 20, BathroomRate: 15},
			"deep":        {BedroomRate: 22, BathroomRate: 18},
			"move-in-out": {BedroomRate: 25, BathroomRate: 20},
		},
	}
}

func newEnv(t *testing.T, cfg config.BookingConfig) *env {
	t.Helper()

	store := newMemStore()
	notifier := &recordingNotifier{}
	metrics := newRecordingMetrics()
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	generator := refgen.NewGenerator(cfg.ReferencePrefix, store)

	catalog := &fakeCatalog{services: map[int64]*domain.CleaningService{
		1: {ID: 1, Name: "Standard Cleaning", Tier: domain.TierStandard, DurationMinutes: 120, IsActive: true},
		2: {ID: 2, Name: "Deep Cleaning", Tier: domain.TierDeep, DurationMinutes: 180, IsActive: true},
		3: {ID: 3, Name: "Retired Service", Tier: domain.TierStandard, DurationMinutes: 120, IsActive: false},
	}}

	uc := NewUseCase(
		store,
		store,
		catalog,
		&historyRepoAdapter{store: store},
		schedule.NewValidator(cfg),
		pricing.NewEngine(cfg),
		availability.NewEngine(store, &fakeFinder{ids: []int64{1, 2}}, cfg.SlotCapacity, nopLogger{}),
		generator,
		&serialTxManager{},
		notifier,
		metrics,
		cfg,
		nopLogger{},
	)
	uc.timeProvider = &fixedTime{t: now}

	return &env{uc: uc, store: store, notifier: notifier, metrics: metrics, now: now}
}

func validRequest() *Request {
	return &Request{
		Customer: CustomerInput{
			Email:     "jane.doe@example.com",
			FirstName: "Jane",
			LastName:  "Doe",
			Phone:     "+15550100",
		},
		Address: AddressInput{
			StreetAddress: "12 Main St",
			City:          "Springfield",
			StateProvince: "IL",
			PostalCode:    "62704",
		},
		ServiceID: 1,
		Date:      "2025-06-14",
		StartTime: "10:00",
		Bedrooms:  3,
		Bathrooms: 2,
	}
}

// --- тесты ---

func TestUseCase_Execute_Success(t *testing.T) {
	e := newEnv(t, testConfig())

	resp, err := e.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Regexp(t, `^CLN-\d{4}-000001$`, resp.Reference)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, string(domain.BandMorning), resp.TimeBand)
	assert.Equal(t, 120, resp.DurationMinutes)
	assert.Equal(t, "90", resp.Subtotal.String())
	assert.Equal(t, "90", resp.TotalAmount.String())
	assert.True(t, resp.TaxAmount.IsZero())

	// Первая запись истории: null -> pending, actor system
	require.Len(t, e.store.history, 1)
	entry := e.store.history[0]
	assert.Nil(t, entry.FromStatus)
	assert.Equal(t, domain.StatusPending, entry.ToStatus)
	assert.Equal(t, domain.ActorSystem, entry.ChangedBy)

	// Уведомление ушло диспетчеру после коммита
	require.Len(t, e.notifier.bookings, 1)
	assert.Equal(t, resp.ID, e.notifier.bookings[0].ID)
}

func TestUseCase_Execute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"empty email", func(req *Request) { req.Customer.Email = "" }},
		{"malformed email", func(req *Request) { req.Customer.Email = "not-an-email" }},
		{"missing street", func(req *Request) { req.Address.StreetAddress = "" }},
		{"zero bedrooms", func(req *Request) { req.Bedrooms = 0 }},
		{"zero bathrooms", func(req *Request) { req.Bathrooms = 0 }},
		{"instructions too long", func(req *Request) {
			req.SpecialInstructions = ptr.Ptr(strings.Repeat("a", domain.MaxSpecialInstructionsLength+1))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, testConfig())
			req := validRequest()
			tt.mutate(req)

			_, err := e.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, e.store.bookings)
		})
	}
}

func TestUseCase_Execute_ScheduleRejectionsPropagate(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		startTime string
		wantErr   error
	}{
		{"too soon", "2025-06-11", "14:00", schedule.ErrTooSoon},
		{"too far", "2025-09-10", "10:00", schedule.ErrTooFar},
		{"outside business hours", "2025-06-14", "07:30", schedule.ErrOutsideBusinessHours},
		{"bad granularity", "2025-06-14", "10:15", schedule.ErrInvalidGranularity},
		{"malformed date", "14-06-2025", "10:00", schedule.ErrMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, testConfig())
			req := validRequest()
			req.Date = tt.date
			req.StartTime = tt.startTime

			_, err := e.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUseCase_Execute_ServiceLookup(t *testing.T) {
	e := newEnv(t, testConfig())

	req := validRequest()
	req.ServiceID = 99
	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	req = validRequest()
	req.ServiceID = 3
	_, err = e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceInactive)

	assert.Empty(t, e.store.bookings)
}

func TestUseCase_Execute_SlotUnavailablePropagates(t *testing.T) {
	e := newEnv(t, testConfig())

	// Первое бронирование занимает слот целиком (capacity = 1)
	_, err := e.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Customer.Email = "other@example.com"
	_, err = e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, availability.ErrSlotUnavailable)

	assert.Len(t, e.store.bookings, 1)
}

func TestUseCase_Execute_NoCleanerAvailablePropagates(t *testing.T) {
	cfg := testConfig()
	e := newEnv(t, cfg)

	// Пересобираем движок доступности без свободных клинеров
	e.uc.availability = availability.NewEngine(e.store, &fakeFinder{ids: nil}, cfg.SlotCapacity, nopLogger{})

	_, err := e.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, availability.ErrNoCleanerAvailable)
	assert.Empty(t, e.store.bookings)
}

func TestUseCase_Execute_CustomerUpsertIdempotent(t *testing.T) {
	e := newEnv(t, testConfig())

	_, err := e.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Тот же email, другое имя и другой слот
	req := validRequest()
	req.Customer.FirstName = "Janet"
	req.StartTime = "14:00"
	_, err = e.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, e.store.customersByEmail, 1)
	customer := e.store.customersByEmail["jane.doe@example.com"]
	assert.Equal(t, "Janet", customer.FirstName)

	// Оба бронирования принадлежат одному клиенту
	require.Len(t, e.store.bookings, 2)
	assert.Equal(t, e.store.bookings[0].CustomerID, e.store.bookings[1].CustomerID)
}

func TestUseCase_Execute_ReferenceCollisionRetriesOnce(t *testing.T) {
	e := newEnv(t, testConfig())
	e.store.dupRefFailures = 1

	resp, err := e.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 2, e.store.createCalls)
	assert.NotEmpty(t, resp.Reference)
	assert.Len(t, e.store.bookings, 1)
}

func TestUseCase_Execute_ReferenceCollisionPersists(t *testing.T) {
	e := newEnv(t, testConfig())
	e.store.dupRefFailures = 2

	_, err := e.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 2, e.store.createCalls)
	assert.Empty(t, e.store.bookings)
}

func TestUseCase_Execute_OperationTimedOut(t *testing.T) {
	e := newEnv(t, testConfig())
	e.uc.bookingRepo = &deadlineStore{memStore: e.store}

	// Дедлайн уже истёк: репозиторий вернёт ошибку драйвера без причины
	// в цепочке, таймаут должен определиться по контексту
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := e.uc.Execute(ctx, validRequest())
	assert.ErrorIs(t, err, ErrOperationTimedOut)
	assert.NotErrorIs(t, err, ErrInternal)
	assert.Empty(t, e.store.bookings)
	assert.Equal(t, 1, e.metrics.rejected["timeout"])
}

func TestUseCase_Execute_BusinessMetrics(t *testing.T) {
	e := newEnv(t, testConfig())

	_, err := e.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, e.metrics.created)

	req := validRequest()
	req.Bedrooms = 0
	_, err = e.uc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, 1, e.metrics.rejected["invalid_input"])

	// Слот уже занят первым бронированием (capacity = 1)
	req = validRequest()
	req.Customer.Email = "other@example.com"
	_, err = e.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, availability.ErrSlotUnavailable)
	assert.Equal(t, 1, e.metrics.rejected["slot_unavailable"])

	req = validRequest()
	req.Date = "2025-06-11"
	_, err = e.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, schedule.ErrTooSoon)
	assert.Equal(t, 1, e.metrics.rejected["schedule"])

	assert.Equal(t, 1, e.metrics.created)
}

func TestUseCase_Execute_ConcurrentSameSlot(t *testing.T) {
	e := newEnv(t, testConfig())

	const workers = 25

	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			req := validRequest()
			req.Customer.Email = fmt.Sprintf("customer%d@example.com", n)
			_, err := e.uc.Execute(context.Background(), req)
			errs <- err
		}(i)
	}

	wg.Wait()
	close(errs)

	success, unavailable := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			success++
		case errors.Is(err, availability.ErrSlotUnavailable):
			unavailable++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, success)
	assert.Equal(t, workers-1, unavailable)
	assert.Len(t, e.store.bookings, 1)
}
