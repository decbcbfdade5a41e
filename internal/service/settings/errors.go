package settings

import "errors"

var (
	// ErrSettingNotFound возвращается, когда ключ настройки не найден
	ErrSettingNotFound = errors.New("setting not found")

	// ErrEmptyValue возвращается при попытке сохранить пустое значение
	ErrEmptyValue = errors.New("setting value is empty")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
