package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	clearQueueHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/clear_queue"
	createAppointmentHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_available_slots"
	getCalendarHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_calendar"
	getDayQueueHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_day_queue"
	getPatientAppointmentsHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_patient_appointments"
	notificationsHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/notifications"
	slotLocksHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/slot_locks"
	transitionAppointmentHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/transition_appointment"
	treatmentsHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/treatments"
	updateCalendarHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/update_calendar"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/config"
	"github.com/m04kA/SMC-ClinicBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-ClinicBookingService/internal/integrations/userservice"
	appointmentsService "github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments"
	calendarService "github.com/m04kA/SMC-ClinicBookingService/internal/service/calendar"
	notificationsService "github.com/m04kA/SMC-ClinicBookingService/internal/service/notifications"
	slotLocksService "github.com/m04kA/SMC-ClinicBookingService/internal/service/slotlocks"
	treatmentsService "github.com/m04kA/SMC-ClinicBookingService/internal/service/treatments"
	bulkClearUC "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/bulk_clear"
	createAppointmentUC "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/get_available_slots"
	transitionAppointmentUC "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/transition_appointment"
	"github.com/m04kA/SMC-ClinicBookingService/internal/worker/missed"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/metrics"
)

func main() {
	configPath := "config.toml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
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

	log.Info("Starting SMC-ClinicBookingService...")
	log.Info("Configuration loaded from %s (storage=%s, timezone=%s)", configPath, cfg.Storage.Driver, cfg.Clinic.Timezone)

	location := cfg.Clinic.Location()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	store, err := openStorage(cfg, log, metricsCollector)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()

	// Провайдер идентичности
	var users createAppointmentUC.UserDirectory
	if cfg.UserService.URL != "" {
		users = userservice.NewClient(
			cfg.UserService.URL,
			time.Duration(cfg.UserService.Timeout)*time.Second,
			log,
		)
		log.Info("UserService client initialized (url=%s, timeout=%ds)", cfg.UserService.URL, cfg.UserService.Timeout)
	} else {
		directory := userservice.NewStaticDirectory()
		for _, u := range cfg.UserService.Users {
			directory.Add(userservice.User{ID: u.ID, Name: u.Name, Role: u.Role})
		}
		users = directory
		log.Info("Static user directory initialized with %d users", len(cfg.UserService.Users))
	}

	// Уведомления: входящие в хранилище + опционально Kafka
	sinks := []notifier.Sink{notifier.NewStoreSink(store.notifications)}
	var kafkaSink *notifier.KafkaSink
	if cfg.Notifications.Kafka.Enabled {
		kafkaSink = notifier.NewKafkaSink(cfg.Notifications.Kafka.Brokers, cfg.Notifications.Kafka.Topic)
		sinks = append(sinks, kafkaSink)
		log.Info("Kafka notification sink enabled (topic=%s)", cfg.Notifications.Kafka.Topic)
	}
	dispatcher := notifier.NewDispatcher(cfg.Notifications.BufferSize, log, metricsCollector, sinks...)

	// Инициализируем use cases
	policy := transitionAppointmentUC.Policy{
		CancelLeadTime:      cfg.Clinic.CancelLeadTimeDuration(),
		ClinicCancelReason:  cfg.Clinic.ClinicCancelReason,
		PatientCancelReason: cfg.Clinic.PatientCancelReason,
	}

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		store.calendar,
		store.bookedSlots,
		store.slotLocks,
		store.txManager,
		location,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		store.appointments,
		store.bookedSlots,
		store.slotLocks,
		store.calendar,
		store.treatments,
		users,
		dispatcher,
		store.txManager,
		metricsCollector,
		location,
		log,
	)

	transitionAppointmentUseCase := transitionAppointmentUC.NewUseCase(
		store.appointments,
		store.bookedSlots,
		dispatcher,
		store.txManager,
		metricsCollector,
		policy,
		location,
		log,
	)

	bulkClearUseCase := bulkClearUC.NewUseCase(
		store.appointments,
		transitionAppointmentUseCase,
		metricsCollector,
		log,
	)

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(store.appointments, location, log)
	calendarSvc := calendarService.NewService(store.calendar, store.txManager, log)
	slotLockSvc := slotLocksService.NewService(store.slotLocks, store.bookedSlots, store.txManager, log)
	treatmentSvc := treatmentsService.NewService(store.treatments, store.txManager, log)
	notificationSvc := notificationsService.NewService(store.notifications, log)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	transitionAppointment := transitionAppointmentHandler.NewHandler(transitionAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(appointmentSvc, log)
	getDayQueue := getDayQueueHandler.NewHandler(appointmentSvc, log)
	clearQueue := clearQueueHandler.NewHandler(bulkClearUseCase, log)
	slotLocks := slotLocksHandler.NewHandler(slotLockSvc, log)
	getCalendar := getCalendarHandler.NewHandler(calendarSvc, log)
	updateCalendar := updateCalendarHandler.NewHandler(calendarSvc, log)
	treatments := treatmentsHandler.NewHandler(treatmentSvc, log)
	notifications := notificationsHandler.NewHandler(notificationSvc, log)

	// Проверки готовности
	readyChecks := []middleware.ReadyCheck{{Name: "store", Check: store.ping}}

	// Ограничитель частоты (если включен)
	var rateLimiter *middleware.RateLimiter
	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		rateLimiter = middleware.NewRateLimiter(
			redisClient,
			cfg.RateLimit.Limit,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
			cfg.RateLimit.Prefix,
			cfg.RateLimit.FailOpen,
			log,
		)
		if !cfg.RateLimit.FailOpen {
			readyChecks = append(readyChecks, middleware.ReadyCheck{
				Name:  "redis",
				Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
			})
		}
		log.Info("Rate limiter enabled (redis=%s, limit=%d/%ds, fail_open=%t)",
			cfg.RateLimit.RedisAddr, cfg.RateLimit.Limit, cfg.RateLimit.WindowSeconds, cfg.RateLimit.FailOpen)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", middleware.Healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", middleware.Readyz(readyChecks...)).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/calendar", getCalendar.Handle).Methods(http.MethodGet)
	api.HandleFunc("/treatments", treatments.HandleList).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID и X-User-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Мутации записей ограничиваются по частоте
	limited := protected.PathPrefix("").Subrouter()
	if rateLimiter != nil {
		limited.Use(rateLimiter.Middleware())
	}

	// --- Записи ---
	limited.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	limited.HandleFunc("/appointments/{appointmentId}/status", transitionAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{patientId}/appointments", getPatientAppointments.Handle).Methods(http.MethodGet)

	// --- Очередь (персонал) ---
	protected.HandleFunc("/queue", getDayQueue.HandleUpcoming).Methods(http.MethodGet)
	protected.HandleFunc("/queue/{date}", getDayQueue.Handle).Methods(http.MethodGet)
	limited.HandleFunc("/queue/{date}/clear", clearQueue.Handle).Methods(http.MethodPost)

	// --- Блокировки слотов (персонал) ---
	protected.HandleFunc("/slot-locks", slotLocks.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/slot-locks/{date}/{time}", slotLocks.HandleLock).Methods(http.MethodPut)
	protected.HandleFunc("/slot-locks/{date}/{time}", slotLocks.HandleUnlock).Methods(http.MethodDelete)

	// --- Календарь (персонал) ---
	protected.HandleFunc("/calendar", updateCalendar.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/calendar/holidays/{date}", updateCalendar.HandleAddHoliday).Methods(http.MethodPut)
	protected.HandleFunc("/calendar/holidays/{date}", updateCalendar.HandleRemoveHoliday).Methods(http.MethodDelete)

	// --- Справочник процедур (персонал) ---
	protected.HandleFunc("/treatments/{treatmentId}", treatments.HandleUpsert).Methods(http.MethodPut)
	protected.HandleFunc("/treatments/{treatmentId}/active", treatments.HandleSetActive).Methods(http.MethodPatch)

	// --- Уведомления ---
	protected.HandleFunc("/notifications", notifications.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{notificationId}/read", notifications.HandleMarkRead).Methods(http.MethodPatch)

	// Фоновая отметка неявок
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	var workers sync.WaitGroup
	if cfg.Workers.Missed.Enabled {
		missedWorker := missed.NewWorker(
			store.appointments,
			transitionAppointmentUseCase,
			location,
			log,
			missed.Config{
				Interval: time.Duration(cfg.Workers.Missed.IntervalSeconds) * time.Second,
				Grace:    cfg.Workers.Missed.Grace(),
			},
		)
		workers.Add(1)
		go func() {
			defer workers.Done()
			missedWorker.Run(workerCtx)
		}()
		log.Info("Missed appointments worker started (interval=%ds, grace=%s)",
			cfg.Workers.Missed.IntervalSeconds, cfg.Workers.Missed.Grace())
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

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Воркеры останавливаются после HTTP, чтобы не терять уведомления от последних запросов
	stopWorkers()
	workers.Wait()
	dispatcher.Close()

	if kafkaSink != nil {
		if err := kafkaSink.Close(); err != nil {
			log.Error("Failed to close kafka writer: %v", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
