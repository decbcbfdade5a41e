package domain

import (
	"time"

	"github.com/bmwdroch/detailing-bot/pkg/money"
)

// Service represents a detailing service offered to clients
type Service struct {
	ID              int64
	Name            string
	Description     string
	Price           money.Money
	DurationMinutes int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ServiceUpdate частичное обновление услуги.
// Поля nil не изменяются.
type ServiceUpdate struct {
	Name            *string
	Description     *string
	Price           *money.Money
	DurationMinutes *int
	IsActive        *bool
}

// IsEmpty returns true if the update changes nothing
func (u ServiceUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil &&
		u.DurationMinutes == nil && u.IsActive == nil
}
