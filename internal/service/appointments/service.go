package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// DefaultUpcomingLimit сколько ближайших записей показывать в панели врача
const DefaultUpcomingLimit = 200

// Service сервис чтения записей: карточка, история пациента, очередь дня
type Service struct {
	appointmentRepo AppointmentRepository
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса
func NewService(appointmentRepo AppointmentRepository, location *time.Location, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		location:        location,
		timeProvider:    realTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает запись по ID.
// Пациент видит только свои записи, персонал - любые
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, id string) (*models.AppointmentResponse, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("GetAppointment: id=%s not found", id)
			return nil, fmt.Errorf("%w: %s", domain.ErrAppointmentNotFound, id)
		}
		s.logger.Error("GetAppointment: id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !actor.IsStaff() && !appt.IsOwnedBy(actor.ID) {
		s.logger.Warn("GetAppointment: actor %s(%s) has no access to id=%s", actor.ID, actor.Role, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appt), nil
}

// ListByPatient история записей пациента, новые сверху
func (s *Service) ListByPatient(ctx context.Context, actor domain.Actor, patientID string, status *domain.AppointmentStatus) (*models.AppointmentListResponse, error) {
	if !actor.IsStaff() && actor.ID != patientID {
		s.logger.Warn("ListPatientAppointments: actor %s(%s) has no access to patient %s", actor.ID, actor.Role, patientID)
		return nil, ErrAccessDenied
	}

	list, err := s.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		PatientID:   &patientID,
		Status:      status,
		NewestFirst: true,
	})
	if err != nil {
		s.logger.Error("ListPatientAppointments: patient=%s: %v", patientID, err)
		return nil, fmt.Errorf("%w: ListByPatient - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointments(list), nil
}

// ListByDate очередь дня по возрастанию времени. Только персонал
func (s *Service) ListByDate(ctx context.Context, actor domain.Actor, date types.DateString, status *domain.AppointmentStatus) (*models.AppointmentListResponse, error) {
	if !actor.IsStaff() {
		s.logger.Warn("ListDayQueue: actor %s(%s) is not staff", actor.ID, actor.Role)
		return nil, ErrAccessDenied
	}
	if err := date.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	list, err := s.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		Date:   &date,
		Status: status,
	})
	if err != nil {
		s.logger.Error("ListDayQueue: date=%s: %v", date, err)
		return nil, fmt.Errorf("%w: ListByDate - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointments(list), nil
}

// ListUpcoming записи в статусе scheduled начиная с сегодняшнего дня. Только персонал
func (s *Service) ListUpcoming(ctx context.Context, actor domain.Actor) (*models.AppointmentListResponse, error) {
	if !actor.IsStaff() {
		s.logger.Warn("ListUpcoming: actor %s(%s) is not staff", actor.ID, actor.Role)
		return nil, ErrAccessDenied
	}

	today := types.NewDateString(s.timeProvider.Now().In(s.location))
	scheduled := domain.StatusScheduled

	list, err := s.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		FromDate: &today,
		Status:   &scheduled,
		Limit:    DefaultUpcomingLimit,
	})
	if err != nil {
		s.logger.Error("ListUpcoming: %v", err)
		return nil, fmt.Errorf("%w: ListUpcoming - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointments(list), nil
}
