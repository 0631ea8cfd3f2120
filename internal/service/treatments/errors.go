package treatments

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

var (
	// ErrAccessDenied менять справочник процедур может только персонал
	ErrAccessDenied = fmt.Errorf("%w: treatments: staff only", domain.ErrForbidden)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("%w: treatments service: internal error", domain.ErrStoreUnavailable)
)
