package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: get_available_slots", domain.ErrInvalidInput)

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = fmt.Errorf("%w: get_available_slots: internal error", domain.ErrStoreUnavailable)

	errPastDate = errors.New("date is in the past")
)
