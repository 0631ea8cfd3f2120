package bulk_clear

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: bulk_clear", domain.ErrInvalidInput)

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = fmt.Errorf("%w: bulk_clear: internal error", domain.ErrStoreUnavailable)
)
