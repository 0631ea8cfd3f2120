package slotlocks

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

var (
	// ErrAccessDenied блокировать слоты может только персонал
	ErrAccessDenied = fmt.Errorf("%w: slotlocks: staff only", domain.ErrForbidden)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: slotlocks", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("%w: slotlocks service: internal error", domain.ErrStoreUnavailable)
)
