package domain

import (
	"fmt"
	"time"

	"github.com/bmwdroch/detailing-bot/pkg/money"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "pending"
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusCompleted   AppointmentStatus = "completed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// statusTransitions описывает допустимые переходы статусов.
// Отсутствие статуса в карте означает терминальное состояние.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusRescheduled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusRescheduled},
}

// ParseAppointmentStatus parses a raw string into a known status
func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	switch s := AppointmentStatus(raw); s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRescheduled:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
}

// IsTerminal returns true if no further transitions are allowed from the status
func (s AppointmentStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// CanTransitionTo returns true if the transition to target is allowed
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Appointment represents a client appointment for a service
type Appointment struct {
	ID        int64
	ClientID  int64
	ServiceID int64
	CarInfo   string
	StartTime time.Time
	Status    AppointmentStatus
	Comment   *string

	// Derived from services on read, not stored
	ServiceName     string
	ServicePrice    money.Money
	DurationMinutes int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndTime returns the end of the occupied interval
func (a *Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// OccupiesSlot returns true if the appointment holds its time slot.
// Отмененные и перенесенные записи слот освобождают.
func (a *Appointment) OccupiesSlot() bool {
	return a.Status != StatusCancelled && a.Status != StatusRescheduled
}

// IsUpcoming returns true if the appointment is ahead of now and still active
func (a *Appointment) IsUpcoming(now time.Time) bool {
	return a.StartTime.After(now) &&
		(a.Status == StatusPending || a.Status == StatusConfirmed)
}

// Overlaps reports whether two half-open intervals [aStart, aStart+aMinutes)
// and [bStart, bStart+bMinutes) intersect. Back-to-back intervals do not overlap.
func Overlaps(aStart time.Time, aMinutes int, bStart time.Time, bMinutes int) bool {
	aEnd := aStart.Add(time.Duration(aMinutes) * time.Minute)
	bEnd := bStart.Add(time.Duration(bMinutes) * time.Minute)
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// DayWindow returns the bounds of the calendar day containing t
// as a half-open interval [from, to)
func DayWindow(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 0, 1)
}

// AppointmentsFilter фильтр для выборки записей
type AppointmentsFilter struct {
	ClientID *int64              // Фильтр по клиенту (опционально)
	From     *time.Time          // Начало периода (опционально)
	To       *time.Time          // Конец периода, не включается (опционально)
	Statuses []AppointmentStatus // Фильтр по статусам (опционально)
	Limit    uint64              // 0 = без ограничения
	Offset   uint64
}

// ReminderAppointment запись с контактом клиента для отправки напоминания
type ReminderAppointment struct {
	Appointment
	ClientName       string
	ClientTelegramID int64
}
