package treatments

import (
	"context"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/treatments/models"
)

type TreatmentService interface {
	List(ctx context.Context, includeInactive bool) (*models.TreatmentListResponse, error)
	Upsert(ctx context.Context, actor domain.Actor, treatment *domain.Treatment) (*models.TreatmentResponse, error)
	SetActive(ctx context.Context, actor domain.Actor, id string, active bool) (*models.TreatmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
