package domain

import "errors"

var (
	// ErrUnknownStatus неизвестный статус записи
	ErrUnknownStatus = errors.New("domain: unknown appointment status")

	// ErrUnknownTransactionType неизвестный тип транзакции
	ErrUnknownTransactionType = errors.New("domain: unknown transaction type")
)
