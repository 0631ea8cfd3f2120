package create_appointment

import (
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Request модель запроса на бронирование слота
type Request struct {
	Actor          domain.Actor     // Кто бронирует: сам пациент или сотрудник
	PatientID      string           // Для кого бронируется слот
	TreatmentID    *string          // Процедура из каталога (опционально)
	TreatmentLabel *string          // Свободное название процедуры, если TreatmentID не задан
	Date           types.DateString // Дата в часовом поясе клиники
	Time           types.TimeString // Начало слота
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
}
