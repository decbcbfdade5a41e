package analytics

import (
	"context"
	"time"

	"github.com/bmwdroch/detailing-bot/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByDay(ctx context.Context, day time.Time) ([]*domain.Appointment, error)
	GetByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error)
}

// TransactionRepository интерфейс репозитория транзакций
type TransactionRepository interface {
	GetByAppointmentIDs(ctx context.Context, appointmentIDs []int64) ([]*domain.Transaction, error)
	GetByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
