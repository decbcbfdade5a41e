package models

import (
	"time"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	"github.com/bmwdroch/detailing-bot/pkg/money"
)

// Request модели

// CreateServiceRequest запрос на создание услуги.
// Цена передается строкой в рублях, как вводит администратор ("1500" или "1500.50").
type CreateServiceRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           string `json:"price"`
	DurationMinutes int    `json:"durationMinutes"`
}

// UpdateServiceRequest запрос на изменение услуги.
// Поля nil не изменяются.
type UpdateServiceRequest struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	Price           *string `json:"price,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	IsActive        *bool   `json:"isActive,omitempty"`
}

// Response модели

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Price           money.Money `json:"price"`
	DurationMinutes int         `json:"durationMinutes"`
	IsActive        bool        `json:"isActive"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// FromDomainService конвертирует domain.Service в response
func FromDomainService(service *domain.Service) *ServiceResponse {
	return &ServiceResponse{
		ID:              service.ID,
		Name:            service.Name,
		Description:     service.Description,
		Price:           service.Price,
		DurationMinutes: service.DurationMinutes,
		IsActive:        service.IsActive,
		CreatedAt:       service.CreatedAt,
		UpdatedAt:       service.UpdatedAt,
	}
}

// FromDomainServiceList конвертирует список domain.Service в response
func FromDomainServiceList(services []*domain.Service) []*ServiceResponse {
	result := make([]*ServiceResponse, 0, len(services))
	for _, service := range services {
		result = append(result, FromDomainService(service))
	}
	return result
}
