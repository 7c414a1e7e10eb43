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

	cancelBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_booking"
	createSessionHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_session"
	deleteSessionsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_sessions"
	getBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_booking"
	getScheduleHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_schedule"
	getSessionsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_sessions"
	getUserBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_user_bookings"
	previewSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/preview_slots"
	transitionBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/transition_booking"
	updateSessionHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_session"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	refdataRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/refdata"
	sessionRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/session"
	staffServiceClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/staffservice"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	sessionsService "github.com/m04kA/SMC-AppointmentService/internal/service/sessions"
	createBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	generateSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/generate_slots"
	getScheduleUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/validation"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// realClock провайдер времени для production
type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

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

	log.Info("Starting SMC-AppointmentService...")
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

	// Инициализируем интеграционных клиентов
	staffClient := staffServiceClient.NewClient(
		cfg.StaffService.URL,
		time.Duration(cfg.StaffService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (StaffService=%s timeout=%ds)",
		cfg.StaffService.URL, cfg.StaffService.Timeout)

	// Инициализируем publisher событий бронирований
	var publisher events.Publisher
	if cfg.Events.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic, log)
		log.Info("Booking events publisher enabled (brokers=%v, topic=%s)", cfg.Events.Brokers, cfg.Events.Topic)
	} else {
		publisher = events.NoopPublisher{}
		log.Info("Booking events publisher disabled")
	}
	defer publisher.Close()

	// Интерфейс для transaction manager (используется в сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		sessionRepository *sessionRepo.Repository
		bookingRepository *bookingRepo.Repository
		refdataRepository *refdataRepo.Repository
		txMgr             TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		sessionRepository = sessionRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		refdataRepository = refdataRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		sessionRepository = sessionRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		refdataRepository = refdataRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Валидатор слотов и шаблонов
	validator := validation.New()
	clock := realClock{}

	// Инициализируем сервисы
	sessionSvc := sessionsService.NewService(
		sessionRepository,
		bookingRepository,
		refdataRepository,
		validator,
		txMgr,
		clock,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		sessionRepository,
		publisher,
		txMgr,
		clock,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		sessionRepository,
		sessionRepository,
		bookingRepository,
		publisher,
		log,
	)
	generateSlotsUseCase := generateSlotsUC.NewUseCase(validator, log)
	getScheduleUseCase := getScheduleUC.NewUseCase(sessionRepository, refdataRepository, log)

	// Инициализируем handlers
	createSession := createSessionHandler.NewHandler(sessionSvc, staffClient, log)
	updateSession := updateSessionHandler.NewHandler(sessionSvc, log)
	deleteSessions := deleteSessionsHandler.NewHandler(sessionSvc, staffClient, log)
	getSessions := getSessionsHandler.NewHandler(sessionSvc, log)
	getSchedule := getScheduleHandler.NewHandler(getScheduleUseCase, log)
	previewSlots := previewSlotsHandler.NewHandler(generateSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	transitionBooking := transitionBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Витрина расписания филиала на дату
	api.HandleFunc("/branches/{branchId}/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// Сессии филиала на дату
	api.HandleFunc("/branches/{branchId}/sessions", getSessions.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Сессии (операторские ручки) ---
	// Предпросмотр слотов по шаблону
	protected.HandleFunc("/sessions/preview-slots", previewSlots.Handle).Methods(http.MethodPost)

	// Создание сессии со слотами
	protected.HandleFunc("/sessions", createSession.Handle).Methods(http.MethodPost)

	// Редактирование сессии
	protected.HandleFunc("/sessions/{sessionId}", updateSession.Handle).Methods(http.MethodPut)

	// Массовое удаление сессий филиала на дату
	protected.HandleFunc("/sessions", deleteSessions.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Перевод бронирования по очереди обслуживания
	protected.HandleFunc("/bookings/{bookingId}/transition", transitionBooking.Handle).Methods(http.MethodPatch)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

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
