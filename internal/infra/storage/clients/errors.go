package clients

import "errors"

var (
	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("clients.repository: client not found")

	// ErrDuplicateClient возвращается при повторной регистрации telegram_id
	ErrDuplicateClient = errors.New("clients.repository: client already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("clients.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("clients.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("clients.repository: failed to scan row")

	// ErrEmptyUpdate возвращается, когда обновление не содержит полей
	ErrEmptyUpdate = errors.New("clients.repository: nothing to update")
)
