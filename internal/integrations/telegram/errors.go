package telegram

import "errors"

var (
	// ErrInitBot возвращается, когда не удалось инициализировать Telegram-бота
	ErrInitBot = errors.New("telegram: failed to initialize bot")

	// ErrSendMessage возвращается при ошибке отправки сообщения
	ErrSendMessage = errors.New("telegram: failed to send message")
)
