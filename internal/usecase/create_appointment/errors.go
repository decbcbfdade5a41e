package create_appointment

import "errors"

var (
	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("create_appointment: client not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrServiceInactive возвращается при записи на скрытую услугу
	ErrServiceInactive = errors.New("create_appointment: service is inactive")

	// ErrTimeSlotTaken возвращается, когда время пересекается с другой записью
	ErrTimeSlotTaken = errors.New("create_appointment: time slot is already taken")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
