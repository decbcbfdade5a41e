package storage

import "errors"

var (
	// ErrOpenDB возвращается при ошибке открытия соединения с базой
	ErrOpenDB = errors.New("storage: failed to open database")

	// ErrPingDB возвращается, когда база не отвечает
	ErrPingDB = errors.New("storage: failed to ping database")

	// ErrMigrate возвращается при ошибке применения схемы
	ErrMigrate = errors.New("storage: failed to apply schema")
)
