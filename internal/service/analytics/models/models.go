package models

import (
	"time"

	"github.com/bmwdroch/detailing-bot/pkg/money"
)

// AppointmentsSummary счетчики записей за период
type AppointmentsSummary struct {
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	Cancelled  int     `json:"cancelled"`
	Conversion float64 `json:"conversion"` // процент completed/total, 2 знака
}

// FinancesSummary денежные итоги за период
type FinancesSummary struct {
	Income  money.Money `json:"income"`
	Expense money.Money `json:"expense"`
	Profit  money.Money `json:"profit"`
}

// DailyStats статистика за один календарный день
type DailyStats struct {
	Date         time.Time           `json:"date"`
	Appointments AppointmentsSummary `json:"appointments"`
	Finances     FinancesSummary     `json:"finances"`
}

// DayBreakdown показатели одного дня внутри периода
type DayBreakdown struct {
	Date         time.Time   `json:"date"`
	Appointments int         `json:"appointments"`
	Completed    int         `json:"completed"`
	Income       money.Money `json:"income"`
	Expense      money.Money `json:"expense"`
	Profit       money.Money `json:"profit"`
}

// PeriodTotals суммарные показатели периода
type PeriodTotals struct {
	Appointments int         `json:"appointments"`
	Completed    int         `json:"completed"`
	Cancelled    int         `json:"cancelled"`
	Conversion   float64     `json:"conversion"`
	Income       money.Money `json:"income"`
	Expense      money.Money `json:"expense"`
	Profit       money.Money `json:"profit"`
}

// PeriodAverages средние показатели периода.
// AverageCheck = доход / число выполненных записей.
type PeriodAverages struct {
	DailyAppointments float64     `json:"dailyAppointments"`
	DailyIncome       money.Money `json:"dailyIncome"`
	AverageCheck      money.Money `json:"averageCheck"`
}

// PeriodStats статистика за период с разбивкой по дням
type PeriodStats struct {
	Start   time.Time       `json:"start"`
	End     time.Time       `json:"end"`
	Days    int             `json:"days"`
	Total   PeriodTotals    `json:"total"`
	Average PeriodAverages  `json:"average"`
	Daily   []*DayBreakdown `json:"daily"`
}

// PopularService метрики услуги в рейтинге за период
type PopularService struct {
	ServiceID     int64       `json:"serviceId"`
	Name          string      `json:"name"`
	Count         int         `json:"count"`
	TotalAmount   money.Money `json:"totalAmount"`
	AverageAmount money.Money `json:"averageAmount"`
	Share         float64     `json:"share"` // процент от всех выполненных, 2 знака
}

// BusyHours число записей по часам суток (0-23)
type BusyHours [24]int

// ConversionStats воронка статусов за период
type ConversionStats struct {
	TotalAppointments    int            `json:"totalAppointments"`
	ByStatus             map[string]int `json:"byStatus"`
	PendingToConfirmed   float64        `json:"pendingToConfirmed"`
	ConfirmedToCompleted float64        `json:"confirmedToCompleted"`
	TotalConversion      float64        `json:"totalConversion"`
}

// VisitsDistribution распределение клиентов по числу записей
type VisitsDistribution struct {
	One        int `json:"1"`
	TwoToThree int `json:"2-3"`
	FourToFive int `json:"4-5"`
	SixPlus    int `json:"6+"`
}

// ClientsStats статистика клиентской базы за период
type ClientsStats struct {
	TotalClients        int                `json:"totalClients"`
	AverageAppointments float64            `json:"averageAppointments"`
	AverageCompleted    float64            `json:"averageCompleted"`
	AverageSpent        money.Money        `json:"averageSpent"`
	Distribution        VisitsDistribution `json:"distribution"`
}
