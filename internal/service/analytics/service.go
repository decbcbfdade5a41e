package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	"github.com/bmwdroch/detailing-bot/internal/service/analytics/models"
	"github.com/bmwdroch/detailing-bot/pkg/money"
)

// DefaultPopularServicesLimit размер рейтинга услуг по умолчанию
const DefaultPopularServicesLimit = 10

// Service сервис аналитики. Все методы только читают данные,
// пересчитывают показатели с нуля при каждом вызове и возвращают
// нулевые структуры на пустых данных.
type Service struct {
	appointmentRepo AppointmentRepository
	transactionRepo TransactionRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса аналитики
func NewService(
	appointmentRepo AppointmentRepository,
	transactionRepo TransactionRepository,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// DailyStats собирает статистику за календарный день даты date.
// Финансовая часть считается по транзакциям, привязанным к записям
// этого дня, а не по дате создания транзакций.
func (s *Service) DailyStats(ctx context.Context, date time.Time) (*models.DailyStats, error) {
	appointments, err := s.appointmentRepo.GetByDay(ctx, date)
	if err != nil {
		s.logger.Error("DailyStats: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: DailyStats - get appointments: %v", ErrInternal, err)
	}

	ids := make([]int64, 0, len(appointments))
	for _, appointment := range appointments {
		ids = append(ids, appointment.ID)
	}

	transactions, err := s.transactionRepo.GetByAppointmentIDs(ctx, ids)
	if err != nil {
		s.logger.Error("DailyStats: failed to get transactions: %v", err)
		return nil, fmt.Errorf("%w: DailyStats - get transactions: %v", ErrInternal, err)
	}

	stats := &models.DailyStats{Date: date}
	stats.Appointments.Total = len(appointments)
	for _, appointment := range appointments {
		switch appointment.Status {
		case domain.StatusCompleted:
			stats.Appointments.Completed++
		case domain.StatusCancelled:
			stats.Appointments.Cancelled++
		}
	}
	stats.Appointments.Conversion = percent(stats.Appointments.Completed, stats.Appointments.Total)

	for _, transaction := range transactions {
		if transaction.IsIncome() {
			stats.Finances.Income = stats.Finances.Income.Add(transaction.Amount)
		} else {
			stats.Finances.Expense = stats.Finances.Expense.Add(transaction.Amount)
		}
	}
	stats.Finances.Profit = stats.Finances.Income.Sub(stats.Finances.Expense)

	return stats, nil
}

// PeriodStats собирает статистику за период календарных дней
// [start, end] включительно, с разбивкой по дням и средними.
// Финансовая часть считается по дате создания транзакций.
func (s *Service) PeriodStats(ctx context.Context, start, end time.Time) (*models.PeriodStats, error) {
	from, to, err := periodWindow(start, end)
	if err != nil {
		s.logger.Warn("PeriodStats: invalid period %s - %s", start.Format(domain.DateFormat), end.Format(domain.DateFormat))
		return nil, err
	}

	appointments, err := s.appointmentRepo.GetByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Error("PeriodStats: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: PeriodStats - get appointments: %v", ErrInternal, err)
	}

	transactions, err := s.transactionRepo.GetByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Error("PeriodStats: failed to get transactions: %v", err)
		return nil, fmt.Errorf("%w: PeriodStats - get transactions: %v", ErrInternal, err)
	}

	stats := &models.PeriodStats{Start: from, End: to}

	// Разбивка по дням: дни индексируются в часовом поясе начала периода
	index := make(map[int64]*models.DayBreakdown)
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		breakdown := &models.DayBreakdown{Date: day}
		stats.Daily = append(stats.Daily, breakdown)
		index[day.Unix()] = breakdown
	}
	stats.Days = len(stats.Daily)

	for _, appointment := range appointments {
		stats.Total.Appointments++
		switch appointment.Status {
		case domain.StatusCompleted:
			stats.Total.Completed++
		case domain.StatusCancelled:
			stats.Total.Cancelled++
		}

		if breakdown, ok := index[dayKey(appointment.StartTime, from)]; ok {
			breakdown.Appointments++
			if appointment.Status == domain.StatusCompleted {
				breakdown.Completed++
			}
		}
	}

	for _, transaction := range transactions {
		breakdown, ok := index[dayKey(transaction.CreatedAt, from)]
		if transaction.IsIncome() {
			stats.Total.Income = stats.Total.Income.Add(transaction.Amount)
			if ok {
				breakdown.Income = breakdown.Income.Add(transaction.Amount)
			}
		} else {
			stats.Total.Expense = stats.Total.Expense.Add(transaction.Amount)
			if ok {
				breakdown.Expense = breakdown.Expense.Add(transaction.Amount)
			}
		}
	}

	for _, breakdown := range stats.Daily {
		breakdown.Profit = breakdown.Income.Sub(breakdown.Expense)
	}

	stats.Total.Conversion = percent(stats.Total.Completed, stats.Total.Appointments)
	stats.Total.Profit = stats.Total.Income.Sub(stats.Total.Expense)

	if stats.Days > 0 {
		stats.Average.DailyAppointments = round2(float64(stats.Total.Appointments) / float64(stats.Days))
		stats.Average.DailyIncome = stats.Total.Income.Div(int64(stats.Days))
	}
	stats.Average.AverageCheck = stats.Total.Income.Div(int64(stats.Total.Completed))

	return stats, nil
}

// PopularServices строит рейтинг услуг по числу выполненных записей
// за период [start, end]. Выручка считается по цене услуги на момент
// чтения записи. limit <= 0 дает рейтинг из 10 позиций.
func (s *Service) PopularServices(ctx context.Context, start, end time.Time, limit int) ([]*models.PopularService, error) {
	if limit <= 0 {
		limit = DefaultPopularServicesLimit
	}

	from, to, err := periodWindow(start, end)
	if err != nil {
		s.logger.Warn("PopularServices: invalid period %s - %s", start.Format(domain.DateFormat), end.Format(domain.DateFormat))
		return nil, err
	}

	appointments, err := s.appointmentRepo.GetByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Error("PopularServices: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: PopularServices - get appointments: %v", ErrInternal, err)
	}

	completed := 0
	grouped := make(map[int64]*models.PopularService)
	for _, appointment := range appointments {
		if appointment.Status != domain.StatusCompleted {
			continue
		}
		completed++

		entry, ok := grouped[appointment.ServiceID]
		if !ok {
			entry = &models.PopularService{
				ServiceID: appointment.ServiceID,
				Name:      appointment.ServiceName,
			}
			grouped[appointment.ServiceID] = entry
		}
		entry.Count++
		entry.TotalAmount = entry.TotalAmount.Add(appointment.ServicePrice)
	}

	result := make([]*models.PopularService, 0, len(grouped))
	for _, entry := range grouped {
		entry.AverageAmount = entry.TotalAmount.Div(int64(entry.Count))
		entry.Share = percent(entry.Count, completed)
		result = append(result, entry)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})

	if len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// BusyHours строит гистограмму загрузки по часам суток для записей
// в статусах confirmed и completed за период [start, end]
func (s *Service) BusyHours(ctx context.Context, start, end time.Time) (models.BusyHours, error) {
	var hours models.BusyHours

	from, to, err := periodWindow(start, end)
	if err != nil {
		s.logger.Warn("BusyHours: invalid period %s - %s", start.Format(domain.DateFormat), end.Format(domain.DateFormat))
		return hours, err
	}

	appointments, err := s.appointmentRepo.GetByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Error("BusyHours: failed to get appointments: %v", err)
		return hours, fmt.Errorf("%w: BusyHours - get appointments: %v", ErrInternal, err)
	}

	for _, appointment := range appointments {
		if appointment.Status != domain.StatusConfirmed && appointment.Status != domain.StatusCompleted {
			continue
		}
		hours[appointment.StartTime.In(from.Location()).Hour()]++
	}

	return hours, nil
}

// ConversionStats считает воронку статусов за период [start, end].
// Ставки ступеней считаются по текущему распределению статусов:
// записи, уже ушедшие дальше по воронке, в знаменатель не входят.
func (s *Service) ConversionStats(ctx context.Context, start, end time.Time) (*models.ConversionStats, error) {
	from, to, err := periodWindow(start, end)
	if err != nil {
		s.logger.Warn("ConversionStats: invalid period %s - %s", start.Format(domain.DateFormat), end.Format(domain.DateFormat))
		return nil, err
	}

	appointments, err := s.appointmentRepo.GetByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Error("ConversionStats: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: ConversionStats - get appointments: %v", ErrInternal, err)
	}

	byStatus := map[string]int{
		string(domain.StatusPending):     0,
		string(domain.StatusConfirmed):   0,
		string(domain.StatusCompleted):   0,
		string(domain.StatusCancelled):   0,
		string(domain.StatusRescheduled): 0,
	}
	for _, appointment := range appointments {
		byStatus[string(appointment.Status)]++
	}

	return &models.ConversionStats{
		TotalAppointments:    len(appointments),
		ByStatus:             byStatus,
		PendingToConfirmed:   percent(byStatus[string(domain.StatusConfirmed)], byStatus[string(domain.StatusPending)]),
		ConfirmedToCompleted: percent(byStatus[string(domain.StatusCompleted)], byStatus[string(domain.StatusConfirmed)]),
		TotalConversion:      percent(byStatus[string(domain.StatusCompleted)], len(appointments)),
	}, nil
}

// ClientsStats считает показатели клиентской базы за период [start, end]:
// средние значения на клиента и распределение по числу визитов
func (s *Service) ClientsStats(ctx context.Context, start, end time.Time) (*models.ClientsStats, error) {
	from, to, err := periodWindow(start, end)
	if err != nil {
		s.logger.Warn("ClientsStats: invalid period %s - %s", start.Format(domain.DateFormat), end.Format(domain.DateFormat))
		return nil, err
	}

	appointments, err := s.appointmentRepo.GetByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Error("ClientsStats: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: ClientsStats - get appointments: %v", ErrInternal, err)
	}

	type clientAggregate struct {
		total     int
		completed int
		spent     money.Money
	}

	clients := make(map[int64]*clientAggregate)
	for _, appointment := range appointments {
		aggregate, ok := clients[appointment.ClientID]
		if !ok {
			aggregate = &clientAggregate{}
			clients[appointment.ClientID] = aggregate
		}
		aggregate.total++
		if appointment.Status == domain.StatusCompleted {
			aggregate.completed++
			aggregate.spent = aggregate.spent.Add(appointment.ServicePrice)
		}
	}

	stats := &models.ClientsStats{TotalClients: len(clients)}
	if len(clients) == 0 {
		return stats, nil
	}

	var totalAppointments, totalCompleted int
	var totalSpent money.Money
	for _, aggregate := range clients {
		totalAppointments += aggregate.total
		totalCompleted += aggregate.completed
		totalSpent = totalSpent.Add(aggregate.spent)

		switch {
		case aggregate.total == 1:
			stats.Distribution.One++
		case aggregate.total <= 3:
			stats.Distribution.TwoToThree++
		case aggregate.total <= 5:
			stats.Distribution.FourToFive++
		default:
			stats.Distribution.SixPlus++
		}
	}

	stats.AverageAppointments = round2(float64(totalAppointments) / float64(len(clients)))
	stats.AverageCompleted = round2(float64(totalCompleted) / float64(len(clients)))
	stats.AverageSpent = totalSpent.Div(int64(len(clients)))

	return stats, nil
}

// periodWindow переводит пару календарных дат в полуинтервал
// [начало первого дня, начало дня после последнего)
func periodWindow(start, end time.Time) (time.Time, time.Time, error) {
	from, _ := domain.DayWindow(start)
	_, to := domain.DayWindow(end.In(start.Location()))
	if to.Before(from) {
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
	return from, to, nil
}

// dayKey ключ календарного дня момента t в часовом поясе периода
func dayKey(t time.Time, base time.Time) int64 {
	day, _ := domain.DayWindow(t.In(base.Location()))
	return day.Unix()
}

// percent доля part от total в процентах с округлением до сотых
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}

// round2 округление до двух знаков после запятой
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
