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

	"github.com/m04kA/BH-BookingService/internal/api"
	healthHandler "github.com/m04kA/BH-BookingService/internal/api/handlers/health"
	"github.com/m04kA/BH-BookingService/internal/api/middleware"
	"github.com/m04kA/BH-BookingService/internal/config"
	availabilityRepo "github.com/m04kA/BH-BookingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/BH-BookingService/internal/infra/storage/booking"
	requestRepo "github.com/m04kA/BH-BookingService/internal/infra/storage/booking_request"
	"github.com/m04kA/BH-BookingService/internal/integrations/notifier"
	paymentServiceClient "github.com/m04kA/BH-BookingService/internal/integrations/paymentservice"
	availabilityService "github.com/m04kA/BH-BookingService/internal/service/availability"
	bookingsService "github.com/m04kA/BH-BookingService/internal/service/bookings"
	requestsService "github.com/m04kA/BH-BookingService/internal/service/requests"
	acceptRequestUC "github.com/m04kA/BH-BookingService/internal/usecase/accept_request"
	cancelBookingUC "github.com/m04kA/BH-BookingService/internal/usecase/cancel_booking"
	expireRequestsUC "github.com/m04kA/BH-BookingService/internal/usecase/expire_requests"
	"github.com/m04kA/BH-BookingService/pkg/dbmetrics"
	"github.com/m04kA/BH-BookingService/pkg/logger"
	"github.com/m04kA/BH-BookingService/pkg/metrics"
	"github.com/m04kA/BH-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/BH-BookingService/pkg/txmanager"
)

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

	log.Info("Starting BH-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Фоновые задачи живут до сигнала завершения
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	// Инициализируем интеграционных клиентов
	paymentClient := paymentServiceClient.NewClient(
		cfg.PaymentService.URL,
		time.Duration(cfg.PaymentService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (PaymentService=%s timeout=%ds)",
		cfg.PaymentService.URL, cfg.PaymentService.Timeout)

	// Транспорт уведомлений
	sink, err := notifier.NewSink(appCtx, cfg.Notifications.SinkConfig(), log)
	if err != nil {
		log.Fatal("Failed to initialize notification sink: %v", err)
	}
	var notifyMetrics notifier.Metrics
	if cfg.Metrics.Enabled {
		notifyMetrics = metricsCollector
	}
	dispatcher := notifier.NewDispatcher(
		sink,
		notifyMetrics,
		time.Duration(cfg.Notifications.Timeout)*time.Second,
		log,
	)
	defer dispatcher.Close()
	log.Info("Notifications enabled (driver=%s)", cfg.Notifications.Driver)

	// Инициализируем репозитории (с метриками или без)
	var (
		availabilityRepository *availabilityRepo.Repository
		requestRepository      *requestRepo.Repository
		bookingRepository      *bookingRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		requestRepository = requestRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		availabilityRepository = availabilityRepo.NewRepository(db)
		requestRepository = requestRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(availabilityRepository, log)
	requestsSvc := requestsService.NewService(
		requestRepository,
		availabilityRepository,
		dispatcher,
		cfg.Booking.RequestTTL(),
		log,
	)
	bookingsSvc := bookingsService.NewService(bookingRepository, dispatcher, log)

	// Инициализируем use cases
	acceptRequestUseCase := acceptRequestUC.NewUseCase(
		requestRepository,
		bookingRepository,
		availabilityRepository,
		paymentClient,
		dispatcher,
		txMgr,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		dispatcher,
		txMgr,
		log,
	)
	expireRequestsUseCase := expireRequestsUC.NewUseCase(
		requestRepository,
		dispatcher,
		txMgr,
		uint64(cfg.Booking.ExpiryBatchSize),
		log,
	)

	// Фоновое истечение запросов; GET запроса все равно истекает его при чтении
	if interval := cfg.Booking.ExpirySweepInterval(); interval > 0 {
		go expireRequestsUseCase.Run(appCtx, interval)
		log.Info("Request expiry sweep started (interval=%s, batch=%d)", interval, cfg.Booking.ExpiryBatchSize)
	}

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", healthHandler.NewHandler(db, log).Handle).Methods(http.MethodGet)

	api.RegisterRoutes(r, api.Dependencies{
		Availability:  availabilitySvc,
		Requests:      requestsSvc,
		Bookings:      bookingsSvc,
		AcceptRequest: acceptRequestUseCase,
		CancelBooking: cancelBookingUseCase,
		Logger:        log,
	})

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
	stopApp()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
