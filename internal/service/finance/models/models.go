package models

import (
	"time"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	"github.com/bmwdroch/detailing-bot/pkg/money"
)

// Request модели

// AddTransactionRequest запрос на добавление транзакции.
// Сумма передается строкой, как вводит администратор ("1000" или "1000.50").
type AddTransactionRequest struct {
	AppointmentID *int64 `json:"appointmentId,omitempty"`
	Amount        string `json:"amount"`
	Type          string `json:"type"`
	Category      string `json:"category"`
	Description   string `json:"description"`
}

// Response модели

// TransactionResponse ответ с данными транзакции
type TransactionResponse struct {
	ID            int64       `json:"id"`
	AppointmentID *int64      `json:"appointmentId,omitempty"`
	Amount        money.Money `json:"amount"`
	Type          string      `json:"type"`
	Category      string      `json:"category"`
	Description   string      `json:"description"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// CategorySummaryResponse оборот категории за период
type CategorySummaryResponse struct {
	Category string      `json:"category"`
	Income   money.Money `json:"income"`
	Expense  money.Money `json:"expense"`
	Profit   money.Money `json:"profit"`
}

// FromDomainTransaction конвертирует domain.Transaction в response
func FromDomainTransaction(transaction *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:            transaction.ID,
		AppointmentID: transaction.AppointmentID,
		Amount:        transaction.Amount,
		Type:          string(transaction.Type),
		Category:      transaction.Category,
		Description:   transaction.Description,
		CreatedAt:     transaction.CreatedAt,
	}
}

// FromDomainTransactionList конвертирует список domain.Transaction в response
func FromDomainTransactionList(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		result = append(result, FromDomainTransaction(transaction))
	}
	return result
}

// FromDomainCategorySummaries конвертирует сводки по категориям в response
func FromDomainCategorySummaries(summaries []*domain.CategorySummary) []*CategorySummaryResponse {
	result := make([]*CategorySummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		result = append(result, &CategorySummaryResponse{
			Category: summary.Category,
			Income:   summary.Income,
			Expense:  summary.Expense,
			Profit:   summary.Profit(),
		})
	}
	return result
}
