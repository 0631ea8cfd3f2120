package appointments

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

var (
	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = fmt.Errorf("%w: appointments: access denied", domain.ErrForbidden)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: appointments", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("%w: appointments service: internal error", domain.ErrStoreUnavailable)
)
