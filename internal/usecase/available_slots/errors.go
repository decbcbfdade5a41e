package available_slots

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("available_slots: service not found")

	// ErrServiceInactive возвращается для скрытой услуги
	ErrServiceInactive = errors.New("available_slots: service is inactive")

	// ErrDateOutOfRange возвращается для даты в прошлом или дальше горизонта записи
	ErrDateOutOfRange = errors.New("available_slots: date is out of booking range")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("available_slots: internal error")
)
