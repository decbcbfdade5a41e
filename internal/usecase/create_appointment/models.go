package create_appointment

import (
	"time"

	"github.com/bmwdroch/detailing-bot/pkg/money"
)

// Request модель запроса на создание записи
type Request struct {
	ClientID    int64     // ID клиента
	ServiceID   int64     // ID услуги (0, если услуга задана названием)
	ServiceName string    // Точное название услуги (используется при ServiceID == 0)
	StartTime   time.Time // Время начала записи
	CarInfo     string    // Описание автомобиля
	Comment     *string   // Комментарий (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID        int64     // ID созданной записи
	ClientID  int64     // ID клиента
	ServiceID int64     // ID услуги
	CarInfo   string    // Описание автомобиля
	StartTime time.Time // Время начала
	EndTime   time.Time // Время окончания
	Status    string    // Статус записи
	Comment   *string   // Комментарий

	// Производные данные услуги
	ServiceName     string      // Название услуги
	ServicePrice    money.Money // Цена услуги
	DurationMinutes int         // Длительность в минутах

	CreatedAt time.Time // Время создания
}
