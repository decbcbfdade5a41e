package available_slots

import (
	"time"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	"github.com/bmwdroch/detailing-bot/pkg/types"
)

// daySlots генерирует слоты рабочего дня day с шагом rules.SlotStepMinutes
// и помечает каждый признаком доступности для услуги длительностью
// durationMinutes. Слот недоступен, если его начало не проходит минимальное
// уведомление или интервал слота пересекается с занимающей слот записью.
// Пересечение полуинтервальное: слот, начинающийся ровно в момент окончания
// записи, доступен.
func daySlots(
	day time.Time,
	durationMinutes int,
	appointments []*domain.Appointment,
	now time.Time,
	rules domain.ScheduleRules,
) []domain.AvailableSlot {
	cutoff := now.Add(time.Duration(rules.MinAdvanceHours) * time.Hour)

	slots := make([]domain.AvailableSlot, 0)
	for minutes := rules.WorkStartHour * 60; minutes < rules.WorkEndHour*60; minutes += rules.SlotStepMinutes {
		start := time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location())

		slot := domain.AvailableSlot{
			StartTime:       types.NewTimeString(start),
			DurationMinutes: durationMinutes,
			Available:       !start.Before(cutoff),
		}

		if slot.Available {
			for _, appointment := range appointments {
				if !appointment.OccupiesSlot() {
					continue
				}
				if domain.Overlaps(start, durationMinutes, appointment.StartTime, appointment.DurationMinutes) {
					slot.Available = false
					break
				}
			}
		}

		slots = append(slots, slot)
	}

	return slots
}

// validateDate проверяет, что день входит в горизонт записи:
// не раньше сегодняшнего и не дальше максимального срока
func validateDate(day time.Time, now time.Time, rules domain.ScheduleRules) error {
	today, _ := domain.DayWindow(now.In(day.Location()))
	if day.Before(today) {
		return ErrDateOutOfRange
	}
	if day.After(now.AddDate(0, 0, rules.MaxAdvanceDays)) {
		return ErrDateOutOfRange
	}
	return nil
}
