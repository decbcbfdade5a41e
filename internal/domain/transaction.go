package domain

import (
	"fmt"
	"time"

	"github.com/bmwdroch/detailing-bot/pkg/money"
)

// TransactionType represents the direction of a cash transaction
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// ParseTransactionType parses a raw string into a known transaction type
func ParseTransactionType(raw string) (TransactionType, error) {
	switch t := TransactionType(raw); t {
	case TransactionIncome, TransactionExpense:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTransactionType, raw)
	}
}

// Transaction represents an immutable cash transaction.
// AppointmentID nil означает операцию без привязки к записи
// (например, закупка расходников).
type Transaction struct {
	ID            int64
	AppointmentID *int64
	Amount        money.Money
	Type          TransactionType
	Category      string
	Description   string
	CreatedAt     time.Time
}

// IsIncome returns true for income transactions
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionIncome
}

// CategorySummary сводка оборота по категории за период
type CategorySummary struct {
	Category string
	Income   money.Money
	Expense  money.Money
}

// Profit returns income minus expense for the category
func (s CategorySummary) Profit() money.Money {
	return s.Income.Sub(s.Expense)
}
