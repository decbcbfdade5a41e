package reminder

import (
	"context"
	"time"

	"github.com/bmwdroch/detailing-bot/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetForReminder(ctx context.Context, from, to time.Time) ([]*domain.ReminderAppointment, error)
}

// Notifier интерфейс отправки напоминаний клиентам
type Notifier interface {
	SendAppointmentReminder(ctx context.Context, reminder *domain.ReminderAppointment, hoursBefore int) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
