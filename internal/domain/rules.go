package domain

// ScheduleRules бизнес-правила записи на услуги.
// Рабочий день задается как полуинтервал [WorkStartHour, WorkEndHour).
type ScheduleRules struct {
	WorkStartHour   int
	WorkEndHour     int
	MinAdvanceHours int
	MaxAdvanceDays  int
	SlotStepMinutes int
}

// DefaultScheduleRules returns the default business schedule
func DefaultScheduleRules() ScheduleRules {
	return ScheduleRules{
		WorkStartHour:   DefaultWorkStartHour,
		WorkEndHour:     DefaultWorkEndHour,
		MinAdvanceHours: DefaultMinAdvanceHours,
		MaxAdvanceDays:  DefaultMaxAdvanceDays,
		SlotStepMinutes: DefaultSlotStepMinutes,
	}
}
