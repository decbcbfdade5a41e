package available_slots

import (
	"time"

	"github.com/bmwdroch/detailing-bot/internal/domain"
)

// Request модель запроса доступных слотов на день
type Request struct {
	Date      time.Time // День, на который запрашиваются слоты
	ServiceID int64     // Услуга, определяющая длительность слота
}

// Response модель ответа со слотами рабочего дня
type Response struct {
	Date      time.Time              // Запрошенный день
	ServiceID int64                  // Услуга
	Slots     []domain.AvailableSlot // Все слоты дня с признаком доступности
}
