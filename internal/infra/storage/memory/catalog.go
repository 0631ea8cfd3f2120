package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage"
)

type CalendarRepository struct {
	store *Store
}

func (r *CalendarRepository) Get(ctx context.Context) (*domain.CalendarConfig, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.calendar == nil {
		return nil, fmt.Errorf("%w: calendar config", storage.ErrNotFound)
	}
	return s.calendar.Clone(), nil
}

// GetForUpdate в памяти совпадает с Get: запись сериализуется мьютексом транзакций
func (r *CalendarRepository) GetForUpdate(ctx context.Context) (*domain.CalendarConfig, error) {
	return r.Get(ctx)
}

func (r *CalendarRepository) Save(ctx context.Context, cfg *domain.CalendarConfig) (*domain.CalendarConfig, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.calendar
	cfg.UpdatedAt = s.now()
	s.calendar = cfg.Clone()
	s.record(ctx, func() { s.calendar = previous })

	return cfg, nil
}

type TreatmentRepository struct {
	store *Store
}

func (r *TreatmentRepository) List(ctx context.Context, includeInactive bool) ([]*domain.Treatment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Treatment, 0, len(s.treatments))
	for _, t := range s.treatments {
		if !includeInactive && !t.Active {
			continue
		}
		clone := *t
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].Label < result[j].Label
	})

	return result, nil
}

func (r *TreatmentRepository) GetByID(ctx context.Context, id string) (*domain.Treatment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.treatments[id]
	if !ok {
		return nil, fmt.Errorf("%w: treatment %s", storage.ErrNotFound, id)
	}
	clone := *t
	return &clone, nil
}

func (r *TreatmentRepository) Upsert(ctx context.Context, t *domain.Treatment) (*domain.Treatment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.treatments[t.ID]
	t.UpdatedAt = s.now()
	stored := *t
	s.treatments[t.ID] = &stored

	s.record(ctx, func() {
		if existed {
			s.treatments[t.ID] = previous
		} else {
			delete(s.treatments, t.ID)
		}
	})

	return t, nil
}

func (r *TreatmentRepository) SetActive(ctx context.Context, id string, active bool) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.treatments[id]
	if !ok {
		return fmt.Errorf("%w: treatment %s", storage.ErrNotFound, id)
	}

	previous := *t
	t.Active = active
	t.UpdatedAt = s.now()
	s.record(ctx, func() { *s.treatments[id] = previous })

	return nil
}

type NotificationRepository struct {
	store *Store
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[n.ID]; ok {
		return fmt.Errorf("%w: notification %s", storage.ErrDuplicate, n.ID)
	}

	n.CreatedAt = s.now()
	stored := *n
	s.notifications[n.ID] = &stored
	s.record(ctx, func() { delete(s.notifications, n.ID) })

	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[id]
	if !ok {
		return nil, fmt.Errorf("%w: notification %s", storage.ErrNotFound, id)
	}
	clone := *n
	return &clone, nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]*domain.Notification, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Notification, 0)
	for _, n := range s.notifications {
		if n.RecipientID != recipientID || (unreadOnly && n.Read) {
			continue
		}
		clone := *n
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })

	return result, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return fmt.Errorf("%w: notification %s", storage.ErrNotFound, id)
	}

	wasRead := n.Read
	n.Read = true
	s.record(ctx, func() { s.notifications[id].Read = wasRead })

	return nil
}
