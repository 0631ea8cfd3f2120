package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

type BookedSlotRepository struct {
	store *Store
}

func (r *BookedSlotRepository) Insert(ctx context.Context, slot *domain.BookedSlot) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := slot.Key()
	if _, ok := s.bookedSlots[key]; ok {
		return fmt.Errorf("%w: booked slot %s", storage.ErrDuplicate, key)
	}

	stored := *slot
	stored.CreatedAt = s.now()
	s.bookedSlots[key] = &stored
	s.record(ctx, func() { delete(s.bookedSlots, key) })

	return nil
}

func (r *BookedSlotRepository) Get(ctx context.Context, key domain.SlotKey) (*domain.BookedSlot, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.bookedSlots[key]
	if !ok {
		return nil, fmt.Errorf("%w: booked slot %s", storage.ErrNotFound, key)
	}
	clone := *slot
	return &clone, nil
}

func (r *BookedSlotRepository) Delete(ctx context.Context, key domain.SlotKey, appointmentID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.bookedSlots[key]
	if !ok || slot.AppointmentID != appointmentID {
		return fmt.Errorf("%w: booked slot %s for appointment %s", storage.ErrNotFound, key, appointmentID)
	}

	delete(s.bookedSlots, key)
	s.record(ctx, func() { s.bookedSlots[key] = slot })

	return nil
}

func (r *BookedSlotRepository) ListByDate(ctx context.Context, date types.DateString) ([]*domain.BookedSlot, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.BookedSlot, 0)
	for key, slot := range s.bookedSlots {
		if key.Date != date {
			continue
		}
		clone := *slot
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Time.IsBefore(result[j].Time) })

	return result, nil
}

type SlotLockRepository struct {
	store *Store
}

func (r *SlotLockRepository) Upsert(ctx context.Context, lock *domain.SlotLock) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := lock.Key()
	previous, existed := s.slotLocks[key]

	stored := *lock
	if existed {
		stored.CreatedAt = previous.CreatedAt
	} else {
		stored.CreatedAt = s.now()
	}
	lock.CreatedAt = stored.CreatedAt
	s.slotLocks[key] = &stored

	s.record(ctx, func() {
		if existed {
			s.slotLocks[key] = previous
		} else {
			delete(s.slotLocks, key)
		}
	})

	return nil
}

func (r *SlotLockRepository) Delete(ctx context.Context, key domain.SlotKey) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, ok := s.slotLocks[key]
	if !ok {
		return false, nil
	}

	delete(s.slotLocks, key)
	s.record(ctx, func() { s.slotLocks[key] = previous })

	return true, nil
}

func (r *SlotLockRepository) Exists(ctx context.Context, key domain.SlotKey) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.slotLocks[key]
	return ok, nil
}

func (r *SlotLockRepository) ListByDate(ctx context.Context, date types.DateString) ([]*domain.SlotLock, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.SlotLock, 0)
	for key, lock := range s.slotLocks {
		if key.Date != date {
			continue
		}
		clone := *lock
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Time.IsBefore(result[j].Time) })

	return result, nil
}
