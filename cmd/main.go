package main

import (
	"context"
	"database/sql"
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

	cancelBookingHandler "github.com/glowbook/booking-service/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/glowbook/booking-service/internal/api/handlers/create_booking"
	createSlotHandler "github.com/glowbook/booking-service/internal/api/handlers/create_slot"
	decideBookingHandler "github.com/glowbook/booking-service/internal/api/handlers/decide_booking"
	deleteSlotHandler "github.com/glowbook/booking-service/internal/api/handlers/delete_slot"
	generateSlotsHandler "github.com/glowbook/booking-service/internal/api/handlers/generate_slots"
	getAvailableSlotsHandler "github.com/glowbook/booking-service/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/glowbook/booking-service/internal/api/handlers/get_booking"
	getClientsHandler "github.com/glowbook/booking-service/internal/api/handlers/get_clients"
	getFreeWindowsHandler "github.com/glowbook/booking-service/internal/api/handlers/get_free_windows"
	getProfessionalHandler "github.com/glowbook/booking-service/internal/api/handlers/get_professional"
	getProfessionalBookingsHandler "github.com/glowbook/booking-service/internal/api/handlers/get_professional_bookings"
	getSettingsHandler "github.com/glowbook/booking-service/internal/api/handlers/get_settings"
	updateScheduleHandler "github.com/glowbook/booking-service/internal/api/handlers/update_schedule"
	updateSettingsHandler "github.com/glowbook/booking-service/internal/api/handlers/update_settings"
	"github.com/glowbook/booking-service/internal/api/middleware"
	"github.com/glowbook/booking-service/internal/config"
	"github.com/glowbook/booking-service/internal/infra/notify"
	bookingRepo "github.com/glowbook/booking-service/internal/infra/storage/booking"
	clientRepo "github.com/glowbook/booking-service/internal/infra/storage/client"
	professionalRepo "github.com/glowbook/booking-service/internal/infra/storage/professional"
	slotRepo "github.com/glowbook/booking-service/internal/infra/storage/slot"
	identityClient "github.com/glowbook/booking-service/internal/integrations/identity"
	"github.com/glowbook/booking-service/internal/lock"
	bookingsService "github.com/glowbook/booking-service/internal/service/bookings"
	clientsService "github.com/glowbook/booking-service/internal/service/clients"
	professionalsService "github.com/glowbook/booking-service/internal/service/professionals"
	cancelBookingUC "github.com/glowbook/booking-service/internal/usecase/cancel_booking"
	createBookingUC "github.com/glowbook/booking-service/internal/usecase/create_booking"
	createSlotUC "github.com/glowbook/booking-service/internal/usecase/create_slot"
	decideBookingUC "github.com/glowbook/booking-service/internal/usecase/decide_booking"
	deleteSlotUC "github.com/glowbook/booking-service/internal/usecase/delete_slot"
	generateSlotsUC "github.com/glowbook/booking-service/internal/usecase/generate_slots"
	getAvailableSlotsUC "github.com/glowbook/booking-service/internal/usecase/get_available_slots"
	getFreeWindowsUC "github.com/glowbook/booking-service/internal/usecase/get_free_windows"
	"github.com/glowbook/booking-service/internal/worker/holdreaper"
	"github.com/glowbook/booking-service/pkg/dbmetrics"
	"github.com/glowbook/booking-service/pkg/logger"
	"github.com/glowbook/booking-service/pkg/metrics"
	"github.com/glowbook/booking-service/pkg/txmanager"
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

	log.Info("Starting booking-service...")
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

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Обёртка БД с метриками запросов и connection pool
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Межпроцессная блокировка слотов
	var locker createBookingUC.Locker
	if cfg.Redis.Addr != "" {
		redisLock, err := lock.NewRedisLock(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to Redis: %v", err)
		}
		defer redisLock.Close()
		locker = redisLock
		log.Info("Redis slot lock enabled (addr=%s)", cfg.Redis.Addr)
	} else {
		locker = lock.NopLocker{}
		log.Warn("Redis is not configured, relying on storage-level slot guard only")
	}
	lockTTL := time.Duration(cfg.Redis.LockTTLSeconds) * time.Second

	// Identity-клиент для аутентификации профессионалов
	identity := identityClient.NewClient(
		cfg.Identity.URL,
		time.Duration(cfg.Identity.Timeout)*time.Second,
		log,
	)
	log.Info("Identity client initialized (url=%s, timeout=%ds)", cfg.Identity.URL, cfg.Identity.Timeout)

	// Контекст фоновых воркеров
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	// Диспетчер событий бронирований
	var dispatcher createBookingUC.Dispatcher
	if cfg.Kafka.Enabled {
		kafkaDispatcher := notify.NewKafkaDispatcher(notify.KafkaDispatcherConfig{
			Brokers:     cfg.Kafka.BrokerList(),
			TopicPrefix: cfg.Kafka.TopicPrefix,
			QueueSize:   cfg.Kafka.QueueSize,
		}, log, metricsCollector)
		workers.Add(1)
		go func() {
			defer workers.Done()
			kafkaDispatcher.Run(workerCtx)
		}()
		dispatcher = kafkaDispatcher
		log.Info("Kafka event dispatcher started (brokers=%s, prefix=%s)", cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix)
	} else {
		dispatcher = notify.NopDispatcher{}
		log.Warn("Kafka is disabled, booking events are not published")
	}

	// Репозитории
	slotRepository := slotRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	professionalRepository := professionalRepo.NewRepository(wrappedDB)
	clientRepository := clientRepo.NewRepository(wrappedDB)

	// Сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	professionalSvc := professionalsService.NewService(professionalRepository, log)
	clientSvc := clientsService.NewService(clientRepository, log)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		slotRepository, bookingRepository, professionalRepository,
		locker, lockTTL, txMgr, dispatcher, log,
	)
	decideBookingUseCase := decideBookingUC.NewUseCase(
		slotRepository, bookingRepository, txMgr, dispatcher, log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		slotRepository, bookingRepository, professionalRepository,
		txMgr, dispatcher, cfg.Booking.ReopenCancelledSlots, log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(slotRepository, professionalRepository, log)
	getFreeWindowsUseCase := getFreeWindowsUC.NewUseCase(slotRepository, professionalRepository, log)
	createSlotUseCase := createSlotUC.NewUseCase(slotRepository, professionalRepository, txMgr, log)
	generateSlotsUseCase := generateSlotsUC.NewUseCase(slotRepository, professionalRepository, txMgr, log)
	deleteSlotUseCase := deleteSlotUC.NewUseCase(slotRepository, txMgr, log)

	// Фоновое освобождение зависших pending-слотов
	reaper := holdreaper.New(
		slotRepository, bookingRepository, txMgr, dispatcher,
		time.Duration(cfg.Booking.PendingTTLMinutes)*time.Minute,
		time.Duration(cfg.Booking.ReaperIntervalSec)*time.Second,
		log,
	)
	workers.Add(1)
	go func() {
		defer workers.Done()
		reaper.Run(workerCtx)
	}()

	// Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	decideBooking := decideBookingHandler.NewHandler(decideBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getFreeWindows := getFreeWindowsHandler.NewHandler(getFreeWindowsUseCase, log)
	getProfessional := getProfessionalHandler.NewHandler(professionalSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getProfessionalBookings := getProfessionalBookingsHandler.NewHandler(bookingSvc, log)
	getClients := getClientsHandler.NewHandler(clientSvc, log)
	getSettings := getSettingsHandler.NewHandler(professionalSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(professionalSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(professionalSvc, log)
	createSlot := createSlotHandler.NewHandler(createSlotUseCase, log)
	generateSlots := generateSlotsHandler.NewHandler(generateSlotsUseCase, log)
	deleteSlot := deleteSlotHandler.NewHandler(deleteSlotUseCase, log)

	// Роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (страница записи клиента)
	// ============================================================

	// Публичный профиль профессионала по ссылке записи
	api.HandleFunc("/book/{slug}", getProfessional.Handle).Methods(http.MethodGet)

	// Расписание и свободные окна
	api.HandleFunc("/professionals/{professionalId}/slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/professionals/{professionalId}/free-windows",
		getFreeWindows.Handle).Methods(http.MethodGet)

	// Создание заявки на бронирование
	api.HandleFunc("/professionals/{professionalId}/bookings",
		createBooking.Handle).Methods(http.MethodPost)

	// Отмена клиентом по ссылке из письма
	api.HandleFunc("/bookings/{bookingId}/cancel",
		cancelBooking.HandleClient).Methods(http.MethodPatch)

	// ============================================================
	// PROTECTED ROUTES (кабинет профессионала, Bearer-токен)
	// ============================================================

	me := api.PathPrefix("/me").Subrouter()
	me.Use(middleware.Auth(identity, log))

	// --- Бронирования ---
	me.HandleFunc("/bookings", getProfessionalBookings.Handle).Methods(http.MethodGet)
	me.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	me.HandleFunc("/bookings/{bookingId}/decision", decideBooking.Handle).Methods(http.MethodPatch)
	me.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.HandleProfessional).Methods(http.MethodPatch)

	// --- Расписание ---
	me.HandleFunc("/slots", getAvailableSlots.HandleOwner).Methods(http.MethodGet)
	me.HandleFunc("/slots", createSlot.Handle).Methods(http.MethodPost)
	me.HandleFunc("/slots/generate", generateSlots.Handle).Methods(http.MethodPost)
	me.HandleFunc("/slots/{slotId}", deleteSlot.Handle).Methods(http.MethodDelete)

	// --- Клиентская база и настройки ---
	me.HandleFunc("/clients", getClients.Handle).Methods(http.MethodGet)
	me.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)
	me.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)
	me.HandleFunc("/schedule", updateSchedule.Handle).Methods(http.MethodPut)

	// HTTP сервер
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

	// Останавливаем воркеры после сервера: запросы в полёте ещё могли
	// положить события в очередь диспетчера
	stopWorkers()
	workers.Wait()

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
