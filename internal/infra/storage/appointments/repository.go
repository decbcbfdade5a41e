package appointments

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	"github.com/bmwdroch/detailing-bot/internal/infra/storage"
	"github.com/bmwdroch/detailing-bot/pkg/dbmetrics"
	"github.com/bmwdroch/detailing-bot/pkg/sqlbuilder"
)

// joinedColumns колонки записи вместе с производными полями услуги.
// Название, цена и длительность услуги не хранятся в appointments,
// а подтягиваются JOIN-ом при каждом чтении.
var joinedColumns = []string{
	"a.id",
	"a.client_id",
	"a.service_id",
	"a.car_info",
	"a.appointment_time",
	"a.status",
	"a.comment",
	"a.created_at",
	"a.updated_at",
	"s.name AS service_name",
	"s.price AS service_price",
	"s.duration_minutes AS service_duration",
}

// Repository репозиторий для работы с записями на услуги
type Repository struct {
	db DBExecutor
	qb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor, qb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, qb: qb}
}

// Create сохраняет новую запись и возвращает ее с заполненным ID.
// Проверка пересечений выполняется вызывающей стороной до вставки,
// внутри той же транзакции, что и Create.
func (r *Repository) Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Insert("appointments").
		Columns(
			"client_id",
			"service_id",
			"car_info",
			"appointment_time",
			"status",
			"comment",
			"created_at",
			"updated_at",
		).
		Values(
			appointment.ClientID,
			appointment.ServiceID,
			appointment.CarInfo,
			appointment.StartTime.Unix(),
			appointment.Status,
			appointment.Comment,
			appointment.CreatedAt.Unix(),
			appointment.UpdatedAt.Unix(),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&appointment.ID)
	if err != nil {
		if storage.IsForeignKeyViolation(err) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return appointment, nil
}

// GetByID получает запись по ID вместе с данными услуги
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select(joinedColumns...).
		From("appointments a").
		Join("services s ON a.service_id = s.id").
		Where(squirrel.Eq{"a.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)

	appointment, err := scanAppointment(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appointment, nil
}

// GetByClient получает записи клиента, новые сверху
func (r *Repository) GetByClient(ctx context.Context, clientID int64) ([]*domain.Appointment, error) {
	selectBuilder := r.qb.Select(joinedColumns...).
		From("appointments a").
		Join("services s ON a.service_id = s.id").
		Where(squirrel.Eq{"a.client_id": clientID}).
		OrderBy("a.appointment_time DESC")

	return r.queryMany(ctx, selectBuilder, "GetByClient")
}

// GetByDay получает записи, начинающиеся в календарный день day.
// Внутри транзакции на postgres строки записей блокируются (FOR UPDATE),
// чтобы конкурирующие создания записей на тот же день сериализовались.
// На sqlite блокировка не нужна: пул ограничен одним соединением.
func (r *Repository) GetByDay(ctx context.Context, day time.Time) ([]*domain.Appointment, error) {
	from, to := domain.DayWindow(day)

	selectBuilder := r.qb.Select(joinedColumns...).
		From("appointments a").
		Join("services s ON a.service_id = s.id").
		Where(squirrel.GtOrEq{"a.appointment_time": from.Unix()}).
		Where(squirrel.Lt{"a.appointment_time": to.Unix()}).
		OrderBy("a.appointment_time ASC")

	if r.qb.SupportsRowLocking() && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF a")
	}

	return r.queryMany(ctx, selectBuilder, "GetByDay")
}

// GetByDateRange получает записи в полуинтервале [from, to)
func (r *Repository) GetByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error) {
	selectBuilder := r.qb.Select(joinedColumns...).
		From("appointments a").
		Join("services s ON a.service_id = s.id").
		Where(squirrel.GtOrEq{"a.appointment_time": from.Unix()}).
		Where(squirrel.Lt{"a.appointment_time": to.Unix()}).
		OrderBy("a.appointment_time ASC")

	return r.queryMany(ctx, selectBuilder, "GetByDateRange")
}

// GetUpcoming получает будущие записи в статусах pending и confirmed
func (r *Repository) GetUpcoming(ctx context.Context, now time.Time) ([]*domain.Appointment, error) {
	selectBuilder := r.qb.Select(joinedColumns...).
		From("appointments a").
		Join("services s ON a.service_id = s.id").
		Where(squirrel.Gt{"a.appointment_time": now.Unix()}).
		Where(squirrel.Eq{"a.status": statusStrings(domain.UpcomingStatuses)}).
		OrderBy("a.appointment_time ASC")

	return r.queryMany(ctx, selectBuilder, "GetUpcoming")
}

// List получает записи по гибкому фильтру с пагинацией
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	selectBuilder := r.qb.Select(joinedColumns...).
		From("appointments a").
		Join("services s ON a.service_id = s.id").
		OrderBy("a.appointment_time DESC")

	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.client_id": *filter.ClientID})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"a.appointment_time": filter.From.Unix()})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"a.appointment_time": filter.To.Unix()})
	}
	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.status": statusStrings(filter.Statuses)})
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(filter.Limit).Offset(filter.Offset)
	}

	return r.queryMany(ctx, selectBuilder, "List")
}

// GetForReminder получает записи, начинающиеся в окне [from, to),
// вместе с контактами клиентов для отправки напоминаний
func (r *Repository) GetForReminder(ctx context.Context, from, to time.Time) ([]*domain.ReminderAppointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := append(append([]string{}, joinedColumns...),
		"c.name AS client_name",
		"c.telegram_id AS client_telegram_id",
	)

	query, args, err := r.qb.Select(columns...).
		From("appointments a").
		Join("services s ON a.service_id = s.id").
		Join("clients c ON a.client_id = c.id").
		Where(squirrel.GtOrEq{"a.appointment_time": from.Unix()}).
		Where(squirrel.Lt{"a.appointment_time": to.Unix()}).
		Where(squirrel.Eq{"a.status": statusStrings(domain.UpcomingStatuses)}).
		OrderBy("a.appointment_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetForReminder - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetForReminder - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reminders := make([]*domain.ReminderAppointment, 0)
	for rows.Next() {
		var reminder domain.ReminderAppointment
		var startTime, createdAt, updatedAt int64
		var rawStatus string

		err := rows.Scan(
			&reminder.ID,
			&reminder.ClientID,
			&reminder.ServiceID,
			&reminder.CarInfo,
			&startTime,
			&rawStatus,
			&reminder.Comment,
			&createdAt,
			&updatedAt,
			&reminder.ServiceName,
			&reminder.ServicePrice,
			&reminder.DurationMinutes,
			&reminder.ClientName,
			&reminder.ClientTelegramID,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetForReminder - scan row: %v", ErrScanRow, err)
		}

		status, err := domain.ParseAppointmentStatus(rawStatus)
		if err != nil {
			return nil, fmt.Errorf("%w: GetForReminder - parse status: %v", ErrScanRow, err)
		}

		reminder.Status = status
		reminder.StartTime = time.Unix(startTime, 0)
		reminder.CreatedAt = time.Unix(createdAt, 0)
		reminder.UpdatedAt = time.Unix(updatedAt, 0)

		reminders = append(reminders, &reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetForReminder - rows error: %v", ErrScanRow, err)
	}

	return reminders, nil
}

// UpdateStatus обновляет статус записи.
// Допустимость перехода проверяет вызывающая сторона.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Update("appointments").
		Set("status", status).
		Set("updated_at", now.Unix()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func (r *Repository) queryMany(ctx context.Context, selectBuilder squirrel.SelectBuilder, op string) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		appointment, err := scanAppointment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return appointments, nil
}

// scanAppointment сканирует строку записи с производными полями услуги.
// Неизвестный статус в базе считается ошибкой данных.
func scanAppointment(scan func(dest ...interface{}) error) (*domain.Appointment, error) {
	var appointment domain.Appointment
	var startTime, createdAt, updatedAt int64
	var rawStatus string

	err := scan(
		&appointment.ID,
		&appointment.ClientID,
		&appointment.ServiceID,
		&appointment.CarInfo,
		&startTime,
		&rawStatus,
		&appointment.Comment,
		&createdAt,
		&updatedAt,
		&appointment.ServiceName,
		&appointment.ServicePrice,
		&appointment.DurationMinutes,
	)
	if err != nil {
		return nil, err
	}

	status, err := domain.ParseAppointmentStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	appointment.Status = status
	appointment.StartTime = time.Unix(startTime, 0)
	appointment.CreatedAt = time.Unix(createdAt, 0)
	appointment.UpdatedAt = time.Unix(updatedAt, 0)

	return &appointment, nil
}

func statusStrings(statuses []domain.AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
