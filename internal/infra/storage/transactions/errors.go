package transactions

import "errors"

var (
	// ErrTransactionNotFound транзакция не найдена
	ErrTransactionNotFound = errors.New("transactions.repository: transaction not found")

	// ErrAppointmentNotFound указанная запись не существует
	ErrAppointmentNotFound = errors.New("transactions.repository: appointment not found")

	// ErrBuildQuery ошибка построения SQL запроса
	ErrBuildQuery = errors.New("transactions.repository: failed to build query")

	// ErrExecQuery ошибка выполнения SQL запроса
	ErrExecQuery = errors.New("transactions.repository: failed to execute query")

	// ErrScanRow ошибка чтения строки результата
	ErrScanRow = errors.New("transactions.repository: failed to scan row")
)
