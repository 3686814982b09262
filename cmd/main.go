package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	assignCleanerHandler "github.com/cleanhome/CH-BookingService/internal/api/handlers/assign_cleaner"
	cancelBookingHandler "github.com/cleanhome/CH-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/cleanhome/CH-BookingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/cleanhome/CH-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/cleanhome/CH-BookingService/internal/api/handlers/get_booking"
	getServicesHandler "github.com/cleanhome/CH-BookingService/internal/api/handlers/get_services"
	updateStatusHandler "github.com/cleanhome/CH-BookingService/internal/api/handlers/update_status"
	"github.com/cleanhome/CH-BookingService/internal/api/middleware"
	"github.com/cleanhome/CH-BookingService/internal/availability"
	"github.com/cleanhome/CH-BookingService/internal/config"
	bookingRepo "github.com/cleanhome/CH-BookingService/internal/infra/storage/booking"
	catalogRepo "github.com/cleanhome/CH-BookingService/internal/infra/storage/catalog"
	cleanerRepo "github.com/cleanhome/CH-BookingService/internal/infra/storage/cleaner"
	customerRepo "github.com/cleanhome/CH-BookingService/internal/infra/storage/customer"
	statusHistoryRepo "github.com/cleanhome/CH-BookingService/internal/infra/storage/statushistory"
	mailServiceClient "github.com/cleanhome/CH-BookingService/internal/integrations/mailservice"
	"github.com/cleanhome/CH-BookingService/internal/notifier"
	"github.com/cleanhome/CH-BookingService/internal/pricing"
	"github.com/cleanhome/CH-BookingService/internal/refgen"
	"github.com/cleanhome/CH-BookingService/internal/schedule"
	bookingsService "github.com/cleanhome/CH-BookingService/internal/service/bookings"
	createBookingUC "github.com/cleanhome/CH-BookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/cleanhome/CH-BookingService/internal/usecase/get_available_slots"
	"github.com/cleanhome/CH-BookingService/pkg/dbmetrics"
	"github.com/cleanhome/CH-BookingService/pkg/logger"
	"github.com/cleanhome/CH-BookingService/pkg/metrics"
	"github.com/cleanhome/CH-BookingService/pkg/simpletxmanager"
	"github.com/cleanhome/CH-BookingService/pkg/txmanager"
)

// nopMetrics используется, когда метрики выключены в конфигурации
type nopMetrics struct{}

func (nopMetrics) IncNotificationSent(string, error) {}
func (nopMetrics) IncBookingCreated()                {}
func (nopMetrics) IncBookingRejected(string)         {}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting CH-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем почтового клиента
	mailClient := mailServiceClient.NewClient(
		cfg.MailService.URL,
		cfg.MailService.APIKey,
		time.Duration(cfg.MailService.Timeout)*time.Second,
		log,
	)
	log.Info("Mail client initialized (url=%s, timeout=%ds)",
		cfg.MailService.URL, cfg.MailService.Timeout)

	// Интерфейс для transaction manager: Do используется сервисами,
	// DoSerializable - сценарием создания бронирования
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		customerRepository *customerRepo.Repository
		catalogRepository  *catalogRepo.Repository
		cleanerRepository  *cleanerRepo.Repository
		historyRepository  *statusHistoryRepo.Repository
		txMgr              TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		customerRepository = customerRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		cleanerRepository = cleanerRepo.NewRepository(wrappedDB)
		historyRepository = statusHistoryRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		customerRepository = customerRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		cleanerRepository = cleanerRepo.NewRepository(db)
		historyRepository = statusHistoryRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем доменные движки
	scheduleValidator := schedule.NewValidator(cfg.Booking)
	pricingEngine := pricing.NewEngine(cfg.Booking)
	referenceGenerator := refgen.NewGenerator(cfg.Booking.ReferencePrefix, bookingRepository)
	availabilityEngine := availability.NewEngine(
		bookingRepository,
		cleanerRepository,
		cfg.Booking.SlotCapacity,
		log,
	)

	// Инициализируем диспетчер уведомлений
	var notifierMetrics notifier.MetricsCollector = nopMetrics{}
	var bookingMetrics createBookingUC.MetricsCollector = nopMetrics{}
	if cfg.Metrics.Enabled {
		notifierMetrics = metricsCollector
		bookingMetrics = metricsCollector
	}

	notificationDispatcher := notifier.NewDispatcher(
		mailClient,
		bookingRepository,
		notifierMetrics,
		cfg.MailService.From,
		cfg.MailService.AdminEmail,
		log,
	)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		historyRepository,
		cleanerRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		customerRepository,
		catalogRepository,
		historyRepository,
		scheduleValidator,
		pricingEngine,
		availabilityEngine,
		referenceGenerator,
		txMgr,
		notificationDispatcher,
		bookingMetrics,
		cfg.Booking,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		cfg.Booking,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateStatus := updateStatusHandler.NewHandler(bookingSvc, log)
	assignCleaner := assignCleanerHandler.NewHandler(bookingSvc, log)
	getServices := getServicesHandler.NewHandler(catalogRepository, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// Каталог активных услуг
	api.HandleFunc("/services", getServices.Handle).Methods(http.MethodGet)

	// Слоты дня с количеством свободных мест
	api.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по номеру
	api.HandleFunc("/bookings/{reference}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	api.HandleFunc("/bookings/{reference}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Перевод бронирования в новый статус
	api.HandleFunc("/bookings/{reference}/status", updateStatus.Handle).Methods(http.MethodPatch)

	// Назначение клинера на бронирование
	api.HandleFunc("/bookings/{reference}/cleaner", assignCleaner.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся отправки оставшихся уведомлений
	notificationDispatcher.Close()
	log.Info("Notification dispatcher stopped")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
