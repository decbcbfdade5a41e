package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда переносимая запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrInvalidTransition возвращается при попытке перенести запись
	// в терминальном статусе
	ErrInvalidTransition = errors.New("reschedule_appointment: appointment cannot be rescheduled")

	// ErrTimeSlotTaken возвращается, когда новое время пересекается с другой записью
	ErrTimeSlotTaken = errors.New("reschedule_appointment: time slot is already taken")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
