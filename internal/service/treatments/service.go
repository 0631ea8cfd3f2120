package treatments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/treatments/models"
)

// Service справочник процедур
type Service struct {
	treatmentRepo TreatmentRepository
	txManager     TransactionManager
	logger        Logger
}

// NewService создает новый экземпляр сервиса
func NewService(treatmentRepo TreatmentRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		treatmentRepo: treatmentRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

// List список процедур. Публичный список содержит только активные
func (s *Service) List(ctx context.Context, includeInactive bool) (*models.TreatmentListResponse, error) {
	list, err := s.treatmentRepo.List(ctx, includeInactive)
	if err != nil {
		s.logger.Error("ListTreatments: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &models.TreatmentListResponse{Treatments: make([]models.TreatmentResponse, 0, len(list))}
	for _, t := range list {
		resp.Treatments = append(resp.Treatments, models.FromDomainTreatment(t))
	}
	return resp, nil
}

// Upsert создает или обновляет процедуру
func (s *Service) Upsert(ctx context.Context, actor domain.Actor, treatment *domain.Treatment) (*models.TreatmentResponse, error) {
	if !actor.IsStaff() {
		s.logger.Warn("UpsertTreatment: actor %s(%s) is not staff", actor.ID, actor.Role)
		return nil, ErrAccessDenied
	}
	if err := treatment.Validate(); err != nil {
		return nil, err
	}

	var saved *domain.Treatment
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		saved, err = s.treatmentRepo.Upsert(ctx, treatment)
		return err
	})
	if err != nil {
		s.logger.Error("UpsertTreatment: id=%s: %v", treatment.ID, err)
		return nil, fmt.Errorf("%w: Upsert - %w", ErrInternal, err)
	}

	s.logger.Info("UpsertTreatment: id=%s saved by %s", saved.ID, actor.ID)
	resp := models.FromDomainTreatment(saved)
	return &resp, nil
}

// SetActive включает или выключает процедуру.
// Уже созданные записи сохраняют название процедуры
func (s *Service) SetActive(ctx context.Context, actor domain.Actor, id string, active bool) (*models.TreatmentResponse, error) {
	if !actor.IsStaff() {
		s.logger.Warn("SetTreatmentActive: actor %s(%s) is not staff", actor.ID, actor.Role)
		return nil, ErrAccessDenied
	}

	var updated *domain.Treatment
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.treatmentRepo.SetActive(ctx, id, active); err != nil {
			return err
		}
		var err error
		updated, err = s.treatmentRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTreatmentNotFound, id)
		}
		s.logger.Error("SetTreatmentActive: id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: SetActive - %w", ErrInternal, err)
	}

	s.logger.Info("SetTreatmentActive: id=%s active=%t by %s", id, active, actor.ID)
	resp := models.FromDomainTreatment(updated)
	return &resp, nil
}
