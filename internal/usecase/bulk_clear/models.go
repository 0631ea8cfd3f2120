package bulk_clear

import (
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Request модель запроса на очистку очереди дня
type Request struct {
	Actor  domain.Actor
	Date   types.DateString
	Target domain.AppointmentStatus // completed или cancelled
	Reason *string                  // Для отмены; по умолчанию причина клиники
}

// Response итог очистки
type Response struct {
	Count  int      // Сколько записей переведено
	Failed []string // Идентификаторы записей, которые перевести не удалось
}
