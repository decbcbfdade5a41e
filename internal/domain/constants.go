package domain

// Default schedule values
const (
	DefaultWorkStartHour   = 9
	DefaultWorkEndHour     = 20 // exclusive
	DefaultMinAdvanceHours = 1
	DefaultMaxAdvanceDays  = 90
	DefaultSlotStepMinutes = 30
)

// Business validation constants
const (
	MinNameTokenLength    = 2
	MinServiceNameLength  = 3
	MaxServiceNameLength  = 100
	MinDescriptionLength  = 10
	MaxDescriptionLength  = 1000
	MinDurationMinutes    = 15
	MaxDurationMinutes    = 480 // 8 hours
	MaxServicePriceRubles = 1_000_000
	MinCarInfoLength      = 4
	MaxCarInfoLength      = 100
	MaxCommentLength      = 500
	MinCategoryLength     = 2
	MaxCategoryLength     = 50
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// CategoryServices категория по умолчанию для дохода,
// фиксируемого при завершении записи
const CategoryServices = "Услуги"

// ReleasedStatuses список статусов, освобождающих занятый слот.
// Используется при проверке пересечений и подсчете доступных слотов.
var ReleasedStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusRescheduled,
}

// UpcomingStatuses список статусов еще не состоявшихся записей
var UpcomingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
