package domain

import "time"

// Well-known setting keys
const (
	SettingContacts = "contacts"
)

// DefaultContacts значение ключа contacts, создаваемое при инициализации хранилища
const DefaultContacts = "Телефон: +7 (999) 123-45-67\nАдрес: уточняйте у администратора"

// Setting represents a key-value configuration entry
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
