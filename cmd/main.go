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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-ServiceBooking/internal/api/handlers/cancel_booking"
	cleanupHandler "github.com/m04kA/SMC-ServiceBooking/internal/api/handlers/cleanup_stale_bookings"
	createBookingHandler "github.com/m04kA/SMC-ServiceBooking/internal/api/handlers/create_booking"
	createPaymentOrderHandler "github.com/m04kA/SMC-ServiceBooking/internal/api/handlers/create_payment_order"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ServiceBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-ServiceBooking/internal/api/handlers/get_booking"
	"github.com/m04kA/SMC-ServiceBooking/internal/api/handlers/health"
	updateBookingHandler "github.com/m04kA/SMC-ServiceBooking/internal/api/handlers/update_booking"
	verifyPaymentHandler "github.com/m04kA/SMC-ServiceBooking/internal/api/handlers/verify_payment"
	"github.com/m04kA/SMC-ServiceBooking/internal/api/middleware"
	"github.com/m04kA/SMC-ServiceBooking/internal/config"
	bookingRepo "github.com/m04kA/SMC-ServiceBooking/internal/infra/storage/booking"
	orderRepo "github.com/m04kA/SMC-ServiceBooking/internal/infra/storage/order"
	policyRepo "github.com/m04kA/SMC-ServiceBooking/internal/infra/storage/policy"
	refundRepo "github.com/m04kA/SMC-ServiceBooking/internal/infra/storage/refund"
	serviceRepo "github.com/m04kA/SMC-ServiceBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-ServiceBooking/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-ServiceBooking/internal/policy"
	"github.com/m04kA/SMC-ServiceBooking/internal/scheduler"
	bookingsService "github.com/m04kA/SMC-ServiceBooking/internal/service/bookings"
	cleanupUC "github.com/m04kA/SMC-ServiceBooking/internal/usecase/cleanup_stale_bookings"
	createBookingUC "github.com/m04kA/SMC-ServiceBooking/internal/usecase/create_booking"
	createPaymentOrderUC "github.com/m04kA/SMC-ServiceBooking/internal/usecase/create_payment_order"
	getAvailableSlotsUC "github.com/m04kA/SMC-ServiceBooking/internal/usecase/get_available_slots"
	verifyPaymentUC "github.com/m04kA/SMC-ServiceBooking/internal/usecase/verify_payment"
	"github.com/m04kA/SMC-ServiceBooking/pkg/clock"
	"github.com/m04kA/SMC-ServiceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ServiceBooking/pkg/logger"
	"github.com/m04kA/SMC-ServiceBooking/pkg/metrics"
	"github.com/m04kA/SMC-ServiceBooking/pkg/txmanager"
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

	log.Info("Starting SMC-ServiceBooking...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики. При выключенных метриках счетчики пишутся в приватный реестр,
	// чтобы use cases не проверяли nil
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	} else {
		metricsCollector = metrics.NewWithRegistry(cfg.Metrics.ServiceName, prometheus.NewRegistry())
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

	// Репозитории и transaction manager (с метриками или без)
	var (
		executor dbmetrics.DBExecutor
		txMgr    *txmanager.TransactionManager
	)
	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
		executor = wrappedDB
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		executor = db
		txMgr = txmanager.NewFromSQL(db)
	}

	bookingRepository := bookingRepo.NewRepository(executor)
	policyRepository := policyRepo.NewRepository(executor)
	serviceRepository := serviceRepo.NewRepository(executor)
	orderRepository := orderRepo.NewRepository(executor)
	refundRepository := refundRepo.NewRepository(executor)

	// Часы сервиса
	serviceClock, err := clock.NewFromName(cfg.Booking.Timezone)
	if err != nil {
		log.Fatal("Failed to load timezone: %v", err)
	}
	log.Info("Service timezone: %s", cfg.Booking.Timezone)

	// Платежный шлюз
	var gateway createPaymentOrderUC.Gateway
	if cfg.Payment.IsBypass() {
		gateway = paymentgateway.NewBypassGateway(log)
	} else {
		gateway = paymentgateway.NewClient(
			cfg.Payment.BaseURL,
			cfg.Payment.KeyID,
			cfg.Payment.KeySecret,
			time.Duration(cfg.Payment.Timeout)*time.Second,
			log,
		)
		log.Info("Payment gateway client initialized (url=%s timeout=%ds)", cfg.Payment.BaseURL, cfg.Payment.Timeout)
	}
	signer := paymentgateway.NewSigner(cfg.Payment.KeySecret)

	// Rate limiter: redis для нескольких инстансов, в памяти только для одного
	var limiter middleware.Limiter
	if cfg.RateLimit.Enabled {
		window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
		if cfg.Redis.Enabled {
			opts, err := redis.ParseURL(cfg.Redis.URL)
			if err != nil {
				log.Fatal("Failed to parse redis url: %v", err)
			}
			redisClient := redis.NewClient(opts)
			defer redisClient.Close()

			if err := redisClient.Ping(context.Background()).Err(); err != nil {
				log.Fatal("Failed to ping redis: %v", err)
			}
			limiter = middleware.NewRedisLimiter(redisClient, cfg.RateLimit.Requests, window)
			log.Info("Rate limiting enabled via redis (%d requests per %ds)", cfg.RateLimit.Requests, cfg.RateLimit.WindowSeconds)
		} else {
			limiter = middleware.NewMemoryLimiter(cfg.RateLimit.Requests, window)
			log.Warn("Rate limiting uses in-memory counters, limits are per instance only")
		}
	}

	// Инициализируем сервисы
	policyValidator := policy.NewValidator(serviceClock, bookingRepository)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		policyRepository,
		txMgr,
		serviceClock,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		serviceRepository,
		policyRepository,
		bookingRepository,
		serviceClock,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		policyRepository,
		policyValidator,
		cfg.Booking,
		cfg.Booking.Enabled,
		log,
	)

	createPaymentOrderUseCase := createPaymentOrderUC.NewUseCase(
		bookingRepository,
		gateway,
		cfg.Payment.Currency,
		cfg.Payment.KeyID,
		log,
	)

	verifyPaymentUseCase := verifyPaymentUC.NewUseCase(
		bookingRepository,
		policyRepository,
		refundRepository,
		orderRepository,
		signer,
		txMgr,
		metricsCollector,
		cfg.Payment.Currency,
		log,
	)

	cleanupUseCase := cleanupUC.NewUseCase(
		bookingRepository,
		serviceClock,
		metricsCollector,
		cfg.Reaper.StaleAfterMinutes,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	createPaymentOrder := createPaymentOrderHandler.NewHandler(createPaymentOrderUseCase, log)
	verifyPayment := verifyPaymentHandler.NewHandler(verifyPaymentUseCase, log)
	cleanup := cleanupHandler.NewHandler(cleanupUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}
	identity, err := middleware.TrustedIdentity(cfg.Server.TrustedProxies)
	if err != nil {
		log.Fatal("Failed to configure identity middleware: %v", err)
	}
	if len(cfg.Server.TrustedProxies) == 0 {
		log.Warn("No trusted proxies configured, identity headers are ignored")
	}
	r.Use(identity)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// limited оборачивает публичные мутирующие маршруты лимитером
	limited := func(h http.HandlerFunc) http.Handler {
		if limiter == nil {
			return h
		}
		return middleware.RateLimit(limiter, log)(h)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// --- Витрина ---
	r.HandleFunc("/services/{slug}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	r.Handle("/services/{slug}/book", limited(createBooking.Handle)).Methods(http.MethodPost)

	// --- Бронирования ---
	r.HandleFunc("/bookings/{id}", getBooking.Handle).Methods(http.MethodGet)
	r.HandleFunc("/bookings/{id}", updateBooking.Handle).Methods(http.MethodPatch)
	r.HandleFunc("/bookings/{id}", cancelBooking.Handle).Methods(http.MethodDelete)

	// --- Оплата ---
	r.HandleFunc("/payments/booking/{id}/order", createPaymentOrder.Handle).Methods(http.MethodPost)
	r.Handle("/payments/booking/verify", limited(verifyPayment.Handle)).Methods(http.MethodPost)
	r.HandleFunc("/payments/cleanup", cleanup.Handle).Methods(http.MethodPost)

	// Фоновая очистка зависших pending бронирований
	var reaper *scheduler.Reaper
	if cfg.Reaper.Enabled {
		reaper, err = scheduler.NewReaper(
			cleanupUseCase,
			time.Duration(cfg.Reaper.IntervalSeconds)*time.Second,
			log,
		)
		if err != nil {
			log.Fatal("Failed to create reaper: %v", err)
		}
		reaper.Start()
		log.Info("Stale booking reaper started (interval=%ds, stale_after=%dm)",
			cfg.Reaper.IntervalSeconds, cfg.Reaper.StaleAfterMinutes)
	}

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

	if reaper != nil {
		if err := reaper.Shutdown(); err != nil {
			log.Error("Reaper shutdown failed: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

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
