package appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("%w: appointment", storage.ErrNotFound)

	// ErrSlotTaken возвращается, когда на слот уже есть запись в статусе scheduled
	ErrSlotTaken = fmt.Errorf("%w: scheduled appointment for slot", storage.ErrDuplicate)

	// ErrStatusChanged возвращается, когда статус записи уже не совпадает с ожидаемым
	ErrStatusChanged = fmt.Errorf("%w: appointment", storage.ErrStatusMismatch)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
