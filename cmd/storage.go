package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/config"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/appointment"
	bookedSlotRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/bookedslot"
	calendarRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/config"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/memory"
	notificationRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/notification"
	slotLockRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/slotlock"
	treatmentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/treatment"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/metrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/txmanager"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Наборы методов, общие для PostgreSQL и in-memory драйверов

type appointmentStore interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.AppointmentStatus, reason *string, changedBy string) (*domain.Appointment, error)
}

type bookedSlotStore interface {
	Insert(ctx context.Context, slot *domain.BookedSlot) error
	Get(ctx context.Context, key domain.SlotKey) (*domain.BookedSlot, error)
	Delete(ctx context.Context, key domain.SlotKey, appointmentID string) error
	ListByDate(ctx context.Context, date types.DateString) ([]*domain.BookedSlot, error)
}

type slotLockStore interface {
	Upsert(ctx context.Context, lock *domain.SlotLock) error
	Delete(ctx context.Context, key domain.SlotKey) (bool, error)
	Exists(ctx context.Context, key domain.SlotKey) (bool, error)
	ListByDate(ctx context.Context, date types.DateString) ([]*domain.SlotLock, error)
}

type calendarStore interface {
	Get(ctx context.Context) (*domain.CalendarConfig, error)
	GetForUpdate(ctx context.Context) (*domain.CalendarConfig, error)
	Save(ctx context.Context, cfg *domain.CalendarConfig) (*domain.CalendarConfig, error)
}

type treatmentStore interface {
	List(ctx context.Context, includeInactive bool) ([]*domain.Treatment, error)
	GetByID(ctx context.Context, id string) (*domain.Treatment, error)
	Upsert(ctx context.Context, t *domain.Treatment) (*domain.Treatment, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type notificationStore interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

type storageBundle struct {
	appointments  appointmentStore
	bookedSlots   bookedSlotStore
	slotLocks     slotLockStore
	calendar      calendarStore
	treatments    treatmentStore
	notifications notificationStore
	txManager     txManager

	ping  func(ctx context.Context) error
	close func()
}

// openStorage поднимает выбранный в конфиге драйвер хранилища
func openStorage(cfg *config.Config, log *logger.Logger, metricsCollector *metrics.Metrics) (*storageBundle, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		store := memory.NewStore()
		log.Warn("Using in-memory storage: data is lost on restart")
		return &storageBundle{
			appointments:  store.Appointments(),
			bookedSlots:   store.BookedSlots(),
			slotLocks:     store.SlotLocks(),
			calendar:      store.Calendar(),
			treatments:    store.Treatments(),
			notifications: store.Notifications(),
			txManager:     store.TxManager(),
			ping:          store.Ping,
			close:         func() {},
		}, nil
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// С nil метриками обертка работает как обычный *sql.DB
	stopStatsCh := make(chan struct{})
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopStatsCh)

	txMgr := txmanager.NewTransactionManager(
		wrappedDB,
		txmanager.WithMaxAttempts(cfg.Database.TxMaxAttempts),
		txmanager.WithTimeout(time.Duration(cfg.Database.TxTimeout)*time.Second),
		txmanager.WithMetrics(metricsCollector),
	)

	return &storageBundle{
		appointments:  appointmentRepo.NewRepository(wrappedDB),
		bookedSlots:   bookedSlotRepo.NewRepository(wrappedDB),
		slotLocks:     slotLockRepo.NewRepository(wrappedDB),
		calendar:      calendarRepo.NewRepository(wrappedDB),
		treatments:    treatmentRepo.NewRepository(wrappedDB),
		notifications: notificationRepo.NewRepository(wrappedDB),
		txManager:     txMgr,
		ping:          wrappedDB.PingContext,
		close: func() {
			close(stopStatsCh)
			_ = db.Close()
		},
	}, nil
}
