// Package reminder содержит фоновый воркер напоминаний о записях.
// Воркер по интервалу сканирует предстоящие записи и шлет напоминания
// в двух окнах: примерно за сутки и примерно за два часа до начала.
package reminder

import (
	"context"
	"time"

	"github.com/bmwdroch/detailing-bot/internal/domain"
)

const (
	// DayReminderHours за сколько часов отправляется первое напоминание
	DayReminderHours = 24

	// HourReminderHours за сколько часов отправляется второе напоминание
	HourReminderHours = 2

	// reminderWindow полуширина окна вокруг каждого времени напоминания.
	// Запись попадает в окно, если до нее осталось [lead-30м, lead+30м).
	reminderWindow = 30 * time.Minute

	// cycleTimeout предел длительности одного цикла сканирования
	cycleTimeout = 30 * time.Second
)

type sentKey struct {
	appointmentID int64
	hoursBefore   int
}

// Worker фоновый воркер напоминаний.
// Ошибки отправки только логируются: пропущенный цикл задерживает
// напоминание, но не роняет процесс.
type Worker struct {
	appointmentRepo AppointmentRepository
	notifier        Notifier
	timeProvider    TimeProvider
	logger          Logger
	interval        time.Duration
	lookahead       time.Duration

	// sent отметки уже отправленных напоминаний, чтобы запись не
	// получала одно и то же напоминание на соседних циклах
	sent map[sentKey]time.Time
}

// NewWorker создает новый воркер напоминаний
func NewWorker(
	appointmentRepo AppointmentRepository,
	notifier Notifier,
	interval time.Duration,
	lookahead time.Duration,
	logger Logger,
) *Worker {
	return &Worker{
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		interval:        interval,
		lookahead:       lookahead,
		sent:            make(map[sentKey]time.Time),
	}
}

// Run запускает цикл воркера и блокируется до отмены контекста
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("ReminderWorker: started, interval=%s lookahead=%s", w.interval, w.lookahead)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("ReminderWorker: stopped")
			return
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

// runCycle один проход сканирования предстоящих записей
func (w *Worker) runCycle(ctx context.Context) {
	cycleCtx, cancel := context.WithTimeout(ctx, cycleTimeout)
	defer cancel()

	now := w.timeProvider.Now()

	reminders, err := w.appointmentRepo.GetForReminder(cycleCtx, now, now.Add(w.lookahead))
	if err != nil {
		w.logger.Error("ReminderWorker: failed to get appointments: %v", err)
		return
	}

	for _, reminder := range reminders {
		until := reminder.StartTime.Sub(now)
		switch {
		case inWindow(until, DayReminderHours*time.Hour):
			w.send(cycleCtx, reminder, DayReminderHours)
		case inWindow(until, HourReminderHours*time.Hour):
			w.send(cycleCtx, reminder, HourReminderHours)
		}
	}

	w.prune(now)
}

func (w *Worker) send(ctx context.Context, reminder *domain.ReminderAppointment, hoursBefore int) {
	key := sentKey{appointmentID: reminder.ID, hoursBefore: hoursBefore}
	if _, ok := w.sent[key]; ok {
		return
	}

	if err := w.notifier.SendAppointmentReminder(ctx, reminder, hoursBefore); err != nil {
		// Отметка не ставится: пока запись в окне, отправка повторится
		w.logger.Error("ReminderWorker: failed to send %dh reminder for appointment id=%d: %v",
			hoursBefore, reminder.ID, err)
		return
	}

	w.sent[key] = reminder.StartTime
	w.logger.Info("ReminderWorker: sent %dh reminder for appointment id=%d client telegram_id=%d",
		hoursBefore, reminder.ID, reminder.ClientTelegramID)
}

// prune забывает отметки по записям, время которых уже прошло
func (w *Worker) prune(now time.Time) {
	for key, startTime := range w.sent {
		if startTime.Before(now) {
			delete(w.sent, key)
		}
	}
}

func inWindow(until, lead time.Duration) bool {
	return until >= lead-reminderWindow && until < lead+reminderWindow
}
