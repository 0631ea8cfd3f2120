package create_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: create_appointment", domain.ErrInvalidInput)

	// ErrInternal возвращается при ошибках хранилища или провайдера идентичности
	ErrInternal = fmt.Errorf("%w: create_appointment: internal error", domain.ErrStoreUnavailable)
)
