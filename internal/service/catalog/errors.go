package catalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceExists возвращается, когда услуга с таким названием уже есть
	ErrServiceExists = errors.New("service already exists")

	// ErrEmptyUpdate возвращается, когда в обновлении услуги нет полей
	ErrEmptyUpdate = errors.New("no fields to update")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
