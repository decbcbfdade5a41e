// Package telegram отправляет уведомления клиентам через Telegram Bot API.
// Пакет не обрабатывает входящие сообщения: диалоговый слой живет отдельно,
// здесь только исходящие напоминания и служебные сообщения администратору.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bmwdroch/detailing-bot/internal/domain"
)

// Notifier отправляет сообщения через Telegram Bot API
type Notifier struct {
	bot         *tgbotapi.BotAPI
	adminChatID int64
	log         Logger
}

// NewNotifier создает нотификатор. Токен проверяется сразу:
// tgbotapi делает запрос getMe при инициализации.
func NewNotifier(token string, adminChatID int64, log Logger) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitBot, err)
	}

	log.Info("Telegram notifier initialized as @%s", bot.Self.UserName)

	return &Notifier{
		bot:         bot,
		adminChatID: adminChatID,
		log:         log,
	}, nil
}

// SendAppointmentReminder отправляет клиенту напоминание о записи.
// Bot API не принимает контекст, поэтому отмена проверяется до отправки.
func (n *Notifier) SendAppointmentReminder(ctx context.Context, reminder *domain.ReminderAppointment, hoursBefore int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(reminder.ClientTelegramID, formatReminder(reminder, hoursBefore))
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("%w: reminder to chat %d: %v", ErrSendMessage, reminder.ClientTelegramID, err)
	}

	return nil
}

// NotifyAdmin отправляет служебное сообщение администратору.
// Если чат администратора не настроен, сообщение пишется только в лог.
func (n *Notifier) NotifyAdmin(ctx context.Context, text string) error {
	if n.adminChatID == 0 {
		n.log.Info("NotifyAdmin: admin chat not configured, message: %s", text)
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.adminChatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("%w: admin chat %d: %v", ErrSendMessage, n.adminChatID, err)
	}

	return nil
}

func formatReminder(reminder *domain.ReminderAppointment, hoursBefore int) string {
	when := "завтра"
	if hoursBefore < 24 {
		when = "уже скоро"
	}

	return fmt.Sprintf(
		"Напоминаем: %s в %s у вас запись.\n\nУслуга: %s\nАвтомобиль: %s\nДлительность: %d мин.\n\nЖдем вас!",
		when,
		reminder.StartTime.Format(domain.TimeFormat),
		reminder.ServiceName,
		reminder.CarInfo,
		reminder.DurationMinutes,
	)
}

// LogNotifier пишет уведомления в лог вместо отправки.
// Используется, когда Telegram выключен в конфигурации.
type LogNotifier struct {
	log Logger
}

// NewLogNotifier создает нотификатор-заглушку
func NewLogNotifier(log Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// SendAppointmentReminder пишет напоминание в лог
func (n *LogNotifier) SendAppointmentReminder(_ context.Context, reminder *domain.ReminderAppointment, hoursBefore int) error {
	n.log.Info("LogNotifier: %dh reminder for appointment id=%d (client telegram_id=%d, %s at %s)",
		hoursBefore, reminder.ID, reminder.ClientTelegramID,
		reminder.ServiceName, reminder.StartTime.Format("2006-01-02 15:04"))
	return nil
}

// NotifyAdmin пишет служебное сообщение в лог
func (n *LogNotifier) NotifyAdmin(_ context.Context, text string) error {
	n.log.Info("LogNotifier: admin message: %s", text)
	return nil
}
