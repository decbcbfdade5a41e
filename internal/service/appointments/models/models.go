package models

import (
	"time"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	"github.com/bmwdroch/detailing-bot/internal/validation"
	"github.com/bmwdroch/detailing-bot/pkg/money"
)

// Request модели

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Actor  string `json:"actor"`
}

// CompleteRequest запрос на завершение записи.
// При RecordIncome=true вместе со сменой статуса атомарно
// создается доходная транзакция на цену услуги.
type CompleteRequest struct {
	ID           int64  `json:"id"`
	Actor        string `json:"actor"`
	RecordIncome bool   `json:"recordIncome"`
	Category     string `json:"category,omitempty"` // пусто = категория по умолчанию
}

// ListRequest запрос списка записей с фильтрацией
type ListRequest struct {
	ClientID *int64     `json:"clientId,omitempty"`
	From     *time.Time `json:"from,omitempty"`
	To       *time.Time `json:"to,omitempty"`
	Statuses []string   `json:"statuses,omitempty"`
	Limit    uint64     `json:"limit,omitempty"`
	Offset   uint64     `json:"offset,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		ClientID: r.ClientID,
		From:     r.From,
		To:       r.To,
		Limit:    r.Limit,
		Offset:   r.Offset,
	}

	for _, raw := range r.Statuses {
		status, err := validation.Status(raw)
		if err != nil {
			return filter, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64       `json:"id"`
	ClientID        int64       `json:"clientId"`
	ServiceID       int64       `json:"serviceId"`
	CarInfo         string      `json:"carInfo"`
	StartTime       time.Time   `json:"startTime"`
	EndTime         time.Time   `json:"endTime"`
	Status          string      `json:"status"`
	Comment         *string     `json:"comment,omitempty"`
	ServiceName     string      `json:"serviceName"`
	ServicePrice    money.Money `json:"servicePrice"`
	DurationMinutes int         `json:"durationMinutes"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// UpdateStatusResponse результат смены статуса
type UpdateStatusResponse struct {
	ID             int64  `json:"id"`
	PreviousStatus string `json:"previousStatus"`
	Status         string `json:"status"`
}

// TransactionInfo данные транзакции, созданной при завершении записи
type TransactionInfo struct {
	ID       int64       `json:"id"`
	Amount   money.Money `json:"amount"`
	Type     string      `json:"type"`
	Category string      `json:"category"`
}

// CompleteResponse результат завершения записи
type CompleteResponse struct {
	ID             int64            `json:"id"`
	PreviousStatus string           `json:"previousStatus"`
	Status         string           `json:"status"`
	Transaction    *TransactionInfo `json:"transaction,omitempty"`
}

// FromDomainAppointment конвертирует domain.Appointment в response
func FromDomainAppointment(appointment *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              appointment.ID,
		ClientID:        appointment.ClientID,
		ServiceID:       appointment.ServiceID,
		CarInfo:         appointment.CarInfo,
		StartTime:       appointment.StartTime,
		EndTime:         appointment.EndTime(),
		Status:          string(appointment.Status),
		Comment:         appointment.Comment,
		ServiceName:     appointment.ServiceName,
		ServicePrice:    appointment.ServicePrice,
		DurationMinutes: appointment.DurationMinutes,
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain.Appointment в response
func FromDomainAppointmentList(appointments []*domain.Appointment) []*AppointmentResponse {
	result := make([]*AppointmentResponse, 0, len(appointments))
	for _, appointment := range appointments {
		result = append(result, FromDomainAppointment(appointment))
	}
	return result
}
