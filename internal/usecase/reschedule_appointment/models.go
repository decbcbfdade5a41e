package reschedule_appointment

import (
	"time"
)

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID int64     // ID переносимой записи
	NewStartTime  time.Time // Новое время начала
	Actor         string    // Кто выполняет перенос (для аудита)
}

// Response модель ответа с результатом переноса.
// Старая запись остается в истории со статусом rescheduled,
// бронирование продолжает новая запись.
type Response struct {
	OldAppointmentID int64     // ID старой записи (статус rescheduled)
	NewAppointmentID int64     // ID новой записи (статус pending)
	StartTime        time.Time // Время начала новой записи
	EndTime          time.Time // Время окончания новой записи
	ServiceName      string    // Название услуги
}
