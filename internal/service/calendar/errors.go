package calendar

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

var (
	// ErrAccessDenied возвращается, когда календарь меняет не сотрудник клиники
	ErrAccessDenied = fmt.Errorf("%w: calendar can be changed by staff only", domain.ErrForbidden)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: calendar", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("%w: calendar service: internal error", domain.ErrStoreUnavailable)
)
