package clients

import "errors"

var (
	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("client not found")

	// ErrClientExists возвращается при повторной регистрации telegram_id
	ErrClientExists = errors.New("client already exists")

	// ErrEmptyUpdate возвращается, когда в обновлении профиля нет полей
	ErrEmptyUpdate = errors.New("no fields to update")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
