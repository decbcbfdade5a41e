package settings

import "errors"

var (
	// ErrSettingNotFound настройка не найдена
	ErrSettingNotFound = errors.New("settings.repository: setting not found")

	// ErrBuildQuery ошибка построения SQL запроса
	ErrBuildQuery = errors.New("settings.repository: failed to build query")

	// ErrExecQuery ошибка выполнения SQL запроса
	ErrExecQuery = errors.New("settings.repository: failed to execute query")

	// ErrScanRow ошибка чтения строки результата
	ErrScanRow = errors.New("settings.repository: failed to scan row")
)
