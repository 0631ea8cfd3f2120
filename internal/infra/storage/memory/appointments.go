package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage"
)

type AppointmentRepository struct {
	store *Store
}

func (r *AppointmentRepository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[appt.ID]; ok {
		return nil, fmt.Errorf("%w: appointment id %s", storage.ErrDuplicate, appt.ID)
	}
	if appt.IsScheduled() {
		for _, existing := range s.appointments {
			if existing.IsScheduled() && existing.SlotKey() == appt.SlotKey() {
				return nil, fmt.Errorf("%w: scheduled appointment for slot %s", storage.ErrDuplicate, appt.SlotKey())
			}
		}
	}

	now := s.now()
	appt.CreatedAt = now
	appt.UpdatedAt = now

	stored := *appt
	s.appointments[appt.ID] = &stored
	s.record(ctx, func() { delete(s.appointments, appt.ID) })

	return appt, nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.appointments[id]
	if !ok {
		return nil, fmt.Errorf("%w: appointment %s", storage.ErrNotFound, id)
	}
	clone := *appt
	return &clone, nil
}

func (r *AppointmentRepository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Appointment, 0)
	for _, appt := range s.appointments {
		if filter.PatientID != nil && appt.PatientID != *filter.PatientID {
			continue
		}
		if filter.Date != nil && appt.Date != *filter.Date {
			continue
		}
		if filter.FromDate != nil && appt.Date.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && appt.Date.After(*filter.ToDate) {
			continue
		}
		if filter.Status != nil && appt.Status != *filter.Status {
			continue
		}
		clone := *appt
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		less := a.Date < b.Date || (a.Date == b.Date && a.Time < b.Time)
		if a.Date == b.Date && a.Time == b.Time {
			less = a.CreatedAt.Before(b.CreatedAt)
		}
		if filter.NewestFirst {
			return !less
		}
		return less
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}

	return result, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, from, to domain.AppointmentStatus, reason *string, changedBy string) (*domain.Appointment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.appointments[id]
	if !ok || appt.Status != from {
		return nil, fmt.Errorf("%w: appointment %s", storage.ErrStatusMismatch, id)
	}

	previous := *appt
	appt.Status = to
	appt.CancelReason = reason
	appt.StatusChangedBy = &changedBy
	appt.UpdatedAt = s.now()
	s.record(ctx, func() { *s.appointments[id] = previous })

	clone := *appt
	return &clone, nil
}
