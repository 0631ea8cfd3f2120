package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// Store хранилище в памяти с теми же контрактами, что и postgres-репозитории.
// Пишущие транзакции выполняются строго по очереди (txMu), а журнал отмены
// делает их атомарными: при ошибке все изменения транзакции откатываются.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	appointments  map[string]*domain.Appointment
	bookedSlots   map[domain.SlotKey]*domain.BookedSlot
	slotLocks     map[domain.SlotKey]*domain.SlotLock
	calendar      *domain.CalendarConfig
	treatments    map[string]*domain.Treatment
	notifications map[string]*domain.Notification

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		appointments:  make(map[string]*domain.Appointment),
		bookedSlots:   make(map[domain.SlotKey]*domain.BookedSlot),
		slotLocks:     make(map[domain.SlotKey]*domain.SlotLock),
		treatments:    make(map[string]*domain.Treatment),
		notifications: make(map[string]*domain.Notification),
		now:           time.Now,
	}
}

func (s *Store) Appointments() *AppointmentRepository {
	return &AppointmentRepository{store: s}
}

func (s *Store) BookedSlots() *BookedSlotRepository {
	return &BookedSlotRepository{store: s}
}

func (s *Store) SlotLocks() *SlotLockRepository {
	return &SlotLockRepository{store: s}
}

func (s *Store) Calendar() *CalendarRepository {
	return &CalendarRepository{store: s}
}

func (s *Store) Treatments() *TreatmentRepository {
	return &TreatmentRepository{store: s}
}

func (s *Store) Notifications() *NotificationRepository {
	return &NotificationRepository{store: s}
}

func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

// Ping всегда успешен (для /readyz)
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// VerifyIndex проверяет, что индекс занятых слотов совпадает с множеством
// записей в статусе scheduled
func (s *Store) VerifyIndex() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scheduled := make(map[domain.SlotKey]string)
	for _, appt := range s.appointments {
		if !appt.IsScheduled() {
			continue
		}
		if other, ok := scheduled[appt.SlotKey()]; ok {
			return fmt.Errorf("slot %s held by appointments %s and %s", appt.SlotKey(), other, appt.ID)
		}
		scheduled[appt.SlotKey()] = appt.ID
	}

	for key, entry := range s.bookedSlots {
		apptID, ok := scheduled[key]
		if !ok {
			return fmt.Errorf("index entry %s has no scheduled appointment", key)
		}
		if apptID != entry.AppointmentID {
			return fmt.Errorf("index entry %s points to %s, scheduled appointment is %s", key, entry.AppointmentID, apptID)
		}
	}

	for key, apptID := range scheduled {
		if _, ok := s.bookedSlots[key]; !ok {
			return fmt.Errorf("scheduled appointment %s has no index entry for %s", apptID, key)
		}
	}

	return nil
}

type journal struct {
	undo []func()
}

type journalKey struct{}

// record запоминает действие отмены, если вызов идет внутри транзакции.
// Вызывается под s.mu.
func (s *Store) record(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(journalKey{}).(*journal); ok {
		j.undo = append(j.undo, undo)
	}
}

func (s *Store) rollback(j *journal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
}

// TxManager менеджер транзакций хранилища в памяти
type TxManager struct {
	store *Store
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(journalKey{}).(*journal); ok {
		return fn(ctx)
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	j := &journal{}
	defer func() {
		if p := recover(); p != nil {
			m.store.rollback(j)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, journalKey{}, j)); err != nil {
		m.store.rollback(j)
		return err
	}
	return nil
}
