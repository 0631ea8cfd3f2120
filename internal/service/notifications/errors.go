package notifications

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

var (
	// ErrAccessDenied уведомление принадлежит другому пользователю
	ErrAccessDenied = fmt.Errorf("%w: notifications: not a recipient", domain.ErrForbidden)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("%w: notifications service: internal error", domain.ErrStoreUnavailable)
)
