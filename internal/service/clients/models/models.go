package models

import (
	"time"

	"github.com/bmwdroch/detailing-bot/internal/domain"
)

// Request модели

// RegisterRequest запрос на регистрацию клиента
type RegisterRequest struct {
	TelegramID int64  `json:"telegramId"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
}

// UpdateProfileRequest запрос на изменение профиля.
// Поля nil не изменяются.
type UpdateProfileRequest struct {
	TelegramID int64   `json:"telegramId"`
	Name       *string `json:"name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

// Response модели

// ClientResponse ответ с данными клиента
type ClientResponse struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegramId"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FromDomainClient конвертирует domain.Client в response
func FromDomainClient(client *domain.Client) *ClientResponse {
	return &ClientResponse{
		ID:         client.ID,
		TelegramID: client.TelegramID,
		Name:       client.Name,
		Phone:      client.Phone,
		CreatedAt:  client.CreatedAt,
	}
}

// FromDomainClientList конвертирует список domain.Client в response
func FromDomainClientList(clients []*domain.Client) []*ClientResponse {
	result := make([]*ClientResponse, 0, len(clients))
	for _, client := range clients {
		result = append(result, FromDomainClient(client))
	}
	return result
}
