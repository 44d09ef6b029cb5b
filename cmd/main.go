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
	"github.com/redis/go-redis/v9"

	// Часовые пояса салона без зависимости от tzdata в контейнере
	_ "time/tzdata"

	lifecycleHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/appointment_lifecycle"
	bookingDraftsHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/booking_drafts"
	createAppointmentHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/create_appointment"
	flexibleShiftsHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/flexible_shifts"
	getAppointmentHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/get_available_slots"
	getCustomerAppointmentsHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/get_customer_appointments"
	getDefaultShiftsHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/get_default_shifts"
	getStaffConflictsHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/get_staff_conflicts"
	getStaffScheduleHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/get_staff_schedule"
	listAppointmentsHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/list_appointments"
	outboxEventsHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/outbox_events"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/reschedule_appointment"
	scheduleOverridesHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/schedule_overrides"
	timeEntriesHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/time_entries"
	timeOffHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/time_off"
	updateDefaultShiftsHandler "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers/update_default_shifts"
	"github.com/m04kA/SMC-SalonScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduling/internal/config"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/appointment"
	draftRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/draft"
	outboxRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/outbox"
	shiftRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/shift"
	timeEntryRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/timeentry"
	timeOffRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/timeoff"
	catalogServiceClient "github.com/m04kA/SMC-SalonScheduling/internal/integrations/catalogservice"
	customerServiceClient "github.com/m04kA/SMC-SalonScheduling/internal/integrations/customerservice"
	appointmentsService "github.com/m04kA/SMC-SalonScheduling/internal/service/appointments"
	conflictsService "github.com/m04kA/SMC-SalonScheduling/internal/service/conflicts"
	eventsService "github.com/m04kA/SMC-SalonScheduling/internal/service/events"
	scheduleService "github.com/m04kA/SMC-SalonScheduling/internal/service/schedule"
	shiftsService "github.com/m04kA/SMC-SalonScheduling/internal/service/shifts"
	timeOffService "github.com/m04kA/SMC-SalonScheduling/internal/service/timeoff"
	timeTrackingService "github.com/m04kA/SMC-SalonScheduling/internal/service/timetracking"
	lifecycleUC "github.com/m04kA/SMC-SalonScheduling/internal/usecase/appointment_lifecycle"
	bookingFlowUC "github.com/m04kA/SMC-SalonScheduling/internal/usecase/booking_flow"
	createAppointmentUC "github.com/m04kA/SMC-SalonScheduling/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonScheduling/internal/usecase/get_available_slots"
	rescheduleAppointmentUC "github.com/m04kA/SMC-SalonScheduling/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-SalonScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduling/pkg/logger"
	"github.com/m04kA/SMC-SalonScheduling/pkg/metrics"
	"github.com/m04kA/SMC-SalonScheduling/pkg/txmanager"
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

	log.Info("Starting SMC-SalonScheduling...")

	location, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Failed to load salon timezone %q: %v", cfg.Scheduling.Timezone, err)
	}
	log.Info("Salon timezone: %s", location)

	// Инициализируем метрики (если включены). nil *Metrics безопасен во всех вызовах.
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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Redis для черновиков бронирования
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
	}
	pingCancel()
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	// Инициализируем интеграционных клиентов
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	customerClient := customerServiceClient.NewClient(
		cfg.CustomerService.URL,
		time.Duration(cfg.CustomerService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds, CustomerService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout, cfg.CustomerService.URL, cfg.CustomerService.Timeout)

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	shiftRepository := shiftRepo.NewRepository(wrappedDB, location)
	timeOffRepository := timeOffRepo.NewRepository(wrappedDB)
	timeEntryRepository := timeEntryRepo.NewRepository(wrappedDB)
	outboxRepository := outboxRepo.NewRepository(wrappedDB)
	draftRepository := draftRepo.NewRepository(redisClient, cfg.Scheduling.DraftTTL())

	// Инициализируем сервисы
	scheduleSvc := scheduleService.NewService(
		shiftRepository,
		appointmentRepository,
		timeOffRepository,
		location,
		log,
	)
	conflictsSvc := conflictsService.NewService(
		appointmentRepository,
		shiftRepository,
		timeOffRepository,
		location,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		scheduleSvc,
		conflictsSvc,
		location,
		log,
	)
	shiftsSvc := shiftsService.NewService(
		shiftRepository,
		conflictsSvc,
		txMgr,
		location,
		log,
	)
	timeOffSvc := timeOffService.NewService(
		timeOffRepository,
		conflictsSvc,
		txMgr,
		log,
	)
	timeTrackingSvc := timeTrackingService.NewService(
		timeEntryRepository,
		shiftRepository,
		conflictsSvc,
		txMgr,
		cfg.Scheduling.CheckInGrace(),
		log,
	)
	eventsSvc := eventsService.NewService(outboxRepository, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		scheduleSvc,
		catalogClient,
		cfg.Scheduling.SlotGranularityMinutes,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		appointmentsSvc,
		catalogClient,
		customerClient,
		txMgr,
		metricsCollector,
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		appointmentsSvc,
		catalogClient,
		txMgr,
		metricsCollector,
		log,
	)
	lifecycleUseCase := lifecycleUC.NewUseCase(
		appointmentRepository,
		outboxRepository,
		timeTrackingSvc,
		txMgr,
		cfg.Scheduling.CheckInGrace(),
		metricsCollector,
		log,
	)
	bookingFlowUseCase := bookingFlowUC.NewUseCase(
		draftRepository,
		appointmentRepository,
		appointmentsSvc,
		catalogClient,
		createAppointmentUseCase,
		rescheduleAppointmentUseCase,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, location, log)
	getStaffSchedule := getStaffScheduleHandler.NewHandler(scheduleSvc, location, log)
	bookingDrafts := bookingDraftsHandler.NewHandler(bookingFlowUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentsSvc, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	lifecycle := lifecycleHandler.NewHandler(lifecycleUseCase, log)
	getStaffConflicts := getStaffConflictsHandler.NewHandler(conflictsSvc, log)
	getDefaultShifts := getDefaultShiftsHandler.NewHandler(shiftsSvc, log)
	updateDefaultShifts := updateDefaultShiftsHandler.NewHandler(shiftsSvc, log)
	scheduleOverrides := scheduleOverridesHandler.NewHandler(shiftsSvc, location, log)
	flexibleShifts := flexibleShiftsHandler.NewHandler(shiftsSvc, log)
	timeOff := timeOffHandler.NewHandler(timeOffSvc, log)
	timeEntries := timeEntriesHandler.NewHandler(timeTrackingSvc, log)
	outboxEvents := outboxEventsHandler.NewHandler(eventsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты (конкретный мастер или любой подходящий)
	api.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Рабочее время и свободные окна мастера на день
	api.HandleFunc("/staff/{staffId:[0-9]+}/schedule", getStaffSchedule.Handle).Methods(http.MethodGet)

	// --- Пошаговое бронирование ---
	api.HandleFunc("/booking-drafts", bookingDrafts.Start).Methods(http.MethodPost)
	api.HandleFunc("/booking-drafts/{draftId}", bookingDrafts.Get).Methods(http.MethodGet)
	api.HandleFunc("/booking-drafts/{draftId}/service", bookingDrafts.SetService).Methods(http.MethodPut)
	api.HandleFunc("/booking-drafts/{draftId}/technician", bookingDrafts.SetTechnician).Methods(http.MethodPut)
	api.HandleFunc("/booking-drafts/{draftId}/time", bookingDrafts.SetTime).Methods(http.MethodPut)
	api.HandleFunc("/booking-drafts/{draftId}/customer", bookingDrafts.SetCustomer).Methods(http.MethodPut)
	api.HandleFunc("/booking-drafts/{draftId}/back", bookingDrafts.Back).Methods(http.MethodPost)
	api.HandleFunc("/booking-drafts/{draftId}/confirm", bookingDrafts.Confirm).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/customers/{customerId}/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)

	// --- Жизненный цикл записи ---
	protected.HandleFunc("/appointments/{appointmentId}/check-in", lifecycle.CheckIn).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/start", lifecycle.Start).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/pause", lifecycle.Pause).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/resume", lifecycle.Resume).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/complete", lifecycle.Complete).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", lifecycle.Cancel).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/no-show", lifecycle.NoShow).Methods(http.MethodPost)

	// --- Расписание сотрудников ---
	protected.HandleFunc("/staff/{staffId}/conflicts", getStaffConflicts.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/staff/{staffId}/default-shifts", getDefaultShifts.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/staff/{staffId}/default-shifts", updateDefaultShifts.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/staff/{staffId}/overrides", scheduleOverrides.Create).Methods(http.MethodPost)
	protected.HandleFunc("/staff/{staffId}/overrides", scheduleOverrides.List).Methods(http.MethodGet)
	protected.HandleFunc("/staff/{staffId}/flexible-shifts", flexibleShifts.Submit).Methods(http.MethodPost)
	protected.HandleFunc("/flexible-shifts", flexibleShifts.List).Methods(http.MethodGet)
	protected.HandleFunc("/flexible-shifts/{shiftId}/decision", flexibleShifts.Decide).Methods(http.MethodPost)

	// --- Отсутствия ---
	protected.HandleFunc("/staff/{staffId}/time-off", timeOff.Submit).Methods(http.MethodPost)
	protected.HandleFunc("/time-off", timeOff.List).Methods(http.MethodGet)
	protected.HandleFunc("/time-off/{requestId}/approve", timeOff.Approve).Methods(http.MethodPost)
	protected.HandleFunc("/time-off/{requestId}/reject", timeOff.Reject).Methods(http.MethodPost)

	// --- Учет рабочего времени ---
	protected.HandleFunc("/staff/{staffId}/check-in", timeEntries.CheckIn).Methods(http.MethodPost)
	protected.HandleFunc("/staff/{staffId}/check-out", timeEntries.CheckOut).Methods(http.MethodPost)
	protected.HandleFunc("/staff/{staffId}/time-entries", timeEntries.List).Methods(http.MethodGet)

	// --- События для внешних потребителей (outbox) ---
	protected.HandleFunc("/events/pending", outboxEvents.ListPending).Methods(http.MethodGet)
	protected.HandleFunc("/events/{eventId}/ack", outboxEvents.Ack).Methods(http.MethodPost)

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
