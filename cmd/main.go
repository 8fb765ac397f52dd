package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/m04kA/SMC-TurneroService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-TurneroService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-TurneroService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-TurneroService/internal/api/handlers/get_available_slots"
	listAppointmentsHandler "github.com/m04kA/SMC-TurneroService/internal/api/handlers/list_appointments"
	sendTestWebhookHandler "github.com/m04kA/SMC-TurneroService/internal/api/handlers/send_test_webhook"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-TurneroService/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/SMC-TurneroService/internal/api/middleware"
	"github.com/m04kA/SMC-TurneroService/internal/config"
	"github.com/m04kA/SMC-TurneroService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-TurneroService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-TurneroService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-TurneroService/internal/infra/storage/schedule"
	shopRepo "github.com/m04kA/SMC-TurneroService/internal/infra/storage/shop"
	webhookLogRepo "github.com/m04kA/SMC-TurneroService/internal/infra/storage/webhooklog"
	"github.com/m04kA/SMC-TurneroService/internal/integrations/webhook"
	appointmentsService "github.com/m04kA/SMC-TurneroService/internal/service/appointments"
	webhooksService "github.com/m04kA/SMC-TurneroService/internal/service/webhooks"
	cancelAppointmentUC "github.com/m04kA/SMC-TurneroService/internal/usecase/cancel_appointment"
	createAppointmentUC "github.com/m04kA/SMC-TurneroService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-TurneroService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-TurneroService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TurneroService/pkg/logger"
	"github.com/m04kA/SMC-TurneroService/pkg/metrics"
	"github.com/m04kA/SMC-TurneroService/pkg/ratelimit"
	"github.com/m04kA/SMC-TurneroService/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-TurneroService...")
	log.Info("Configuration loaded from %s", configPath)

	if err := domain.SetDefaultTimezone(cfg.Availability.DefaultTimezone); err != nil {
		log.Fatal("Invalid default timezone %q: %v", cfg.Availability.DefaultTimezone, err)
	}

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

	// Обертка считает латентность запросов; без метрик она прозрачна
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	shopRepository := shopRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	webhookLogRepository := webhookLogRepo.NewRepository(wrappedDB)

	// Инициализируем лимитер внешнего API
	limiter, rdb := newRateLimiter(cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}

	// Инициализируем клиента вебхуков
	webhookClient := webhook.NewClient(
		cfg.Webhooks.Timeout(),
		cfg.Webhooks.MaxAttempts,
		cfg.Webhooks.BackoffStep(),
		log,
	)
	log.Info("Webhook client initialized (timeout=%s, max_attempts=%d, backoff_step=%s)",
		cfg.Webhooks.Timeout(), cfg.Webhooks.MaxAttempts, cfg.Webhooks.BackoffStep())

	// Инициализируем сервисы
	webhookSvc := webhooksService.NewService(
		webhookClient,
		webhookLogRepository,
		metricsCollector,
		cfg.Webhooks.MasterSecret,
		cfg.Server.PublicBaseURL,
		log,
	)
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		shopRepository,
		catalogRepository,
		scheduleRepository,
		appointmentRepository,
		metricsCollector,
		getAvailableSlotsUC.Settings{
			SlotIntervalMinutes: cfg.Availability.SlotIntervalMinutes,
			MaxBookingDays:      cfg.Availability.MaxBookingDays,
			MinLeadTimeMinutes:  cfg.Availability.MinLeadTimeMinutes,
		},
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		shopRepository,
		catalogRepository,
		appointmentRepository,
		getAvailableSlotsUseCase,
		webhookSvc,
		txMgr,
		createAppointmentUC.Settings{
			PublicBaseURL:      cfg.Server.PublicBaseURL,
			CancellationSecret: cfg.Webhooks.CancellationSecret,
		},
		log,
	)

	cancelAppointmentUseCase := cancelAppointmentUC.NewUseCase(
		appointmentRepository,
		webhookSvc,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createWidgetAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, createAppointmentUC.SourceWidget, log)
	createExternalAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, createAppointmentUC.SourceExternal, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(cancelAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	sendTestWebhook := sendTestWebhookHandler.NewHandler(webhookSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// ============================================================
	// PUBLIC ROUTES (виджет и клиент по ссылке)
	// ============================================================

	api := r.PathPrefix("/api/v1").Subrouter()
	public := r.PathPrefix("/api/public").Subrouter()

	// Свободные слоты
	api.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)
	public.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Запись из виджета
	public.HandleFunc("/appointments", createWidgetAppointment.Handle).Methods(http.MethodPost)

	// Отмена по токену из ссылки
	api.HandleFunc("/appointments/cancel", cancelAppointment.HandleByToken).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют Authorization: Bearer <api key>)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.APIKeyAuth(shopRepository, log))

	// Запись из внешней автоматизации, с ограничением частоты
	rateLimited := middleware.RateLimit(limiter, cfg.RateLimit.FailOpen, metricsCollector, log)
	admin.Handle("/appointments/external",
		rateLimited(http.HandlerFunc(createExternalAppointment.Handle))).Methods(http.MethodPost)

	// Агенда и управление записями
	admin.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.HandleByAdmin).Methods(http.MethodPost)

	// Проверка вебхука
	admin.HandleFunc("/webhooks/test", sendTestWebhook.Handle).Methods(http.MethodPost)

	// Запускаем фоновое завершение прошедших записей
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	sweeperDone := make(chan struct{})
	if cfg.Sweeper.Enabled {
		go func() {
			defer close(sweeperDone)
			appointmentSvc.RunSweeper(sweeperCtx, cfg.Sweeper.Interval())
		}()
		log.Info("Appointment sweeper started (interval=%s)", cfg.Sweeper.Interval())
	} else {
		close(sweeperDone)
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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	// Останавливаем sweeper
	stopSweeper()
	<-sweeperDone

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся фоновых доставок вебхуков
	if err := webhookSvc.Wait(shutdownCtx); err != nil {
		log.Error("Webhook deliveries interrupted: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// newRateLimiter выбирает хранилище лимитера по конфигурации.
// Для redis возвращается и клиент, чтобы закрыть его при остановке.
func newRateLimiter(cfg *config.Config, log *logger.Logger) (ratelimit.Limiter, *redis.Client) {
	if strings.ToLower(cfg.RateLimit.Backend) != "redis" {
		log.Info("Rate limiter: memory (limit=%d, window=%s)", cfg.RateLimit.Limit, cfg.RateLimit.Window())
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window()), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		// Недоступный Redis обрабатывается лимитером по fail_open
		log.Warn("Redis is not reachable at %s: %v", cfg.Redis.Addr, err)
	}

	log.Info("Rate limiter: redis (addr=%s, limit=%d, window=%s)", cfg.Redis.Addr, cfg.RateLimit.Limit, cfg.RateLimit.Window())
	return ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window(), cfg.Redis.KeyPrefix), rdb
}
