package domain

import "time"

// Client represents a registered client of the business
type Client struct {
	ID         int64
	TelegramID int64
	Name       string
	Phone      string
	CreatedAt  time.Time
}

// ClientUpdate частичное обновление профиля клиента.
// Поля nil не изменяются.
type ClientUpdate struct {
	Name  *string
	Phone *string
}

// IsEmpty returns true if the update changes nothing
func (u ClientUpdate) IsEmpty() bool {
	return u.Name == nil && u.Phone == nil
}
