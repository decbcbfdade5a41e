package transactions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	"github.com/bmwdroch/detailing-bot/internal/infra/storage"
	"github.com/bmwdroch/detailing-bot/pkg/dbmetrics"
	"github.com/bmwdroch/detailing-bot/pkg/money"
	"github.com/bmwdroch/detailing-bot/pkg/sqlbuilder"
)

var transactionColumns = []string{
	"id",
	"appointment_id",
	"amount",
	"type",
	"category",
	"description",
	"created_at",
}

// Repository репозиторий для работы с финансовыми транзакциями.
// Транзакции неизменяемы: репозиторий умеет только создавать и читать.
type Repository struct {
	db DBExecutor
	qb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория транзакций
func NewRepository(db DBExecutor, qb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, qb: qb}
}

// Create сохраняет новую транзакцию и возвращает ее с заполненным ID
func (r *Repository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Insert("transactions").
		Columns(
			"appointment_id",
			"amount",
			"type",
			"category",
			"description",
			"created_at",
		).
		Values(
			transaction.AppointmentID,
			transaction.Amount,
			transaction.Type,
			transaction.Category,
			transaction.Description,
			transaction.CreatedAt.Unix(),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&transaction.ID)
	if err != nil {
		if storage.IsForeignKeyViolation(err) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return transaction, nil
}

// GetByID получает транзакцию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)

	transaction, err := scanTransaction(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan transaction: %v", ErrScanRow, err)
	}

	return transaction, nil
}

// GetByAppointment получает транзакции, привязанные к записи,
// в порядке их создания
func (r *Repository) GetByAppointment(ctx context.Context, appointmentID int64) ([]*domain.Transaction, error) {
	selectBuilder := r.qb.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("created_at ASC", "id ASC")

	return r.queryMany(ctx, selectBuilder, "GetByAppointment")
}

// GetByAppointmentIDs получает транзакции по набору записей.
// Пустой набор дает пустой результат без запроса к БД.
func (r *Repository) GetByAppointmentIDs(ctx context.Context, appointmentIDs []int64) ([]*domain.Transaction, error) {
	if len(appointmentIDs) == 0 {
		return make([]*domain.Transaction, 0), nil
	}

	selectBuilder := r.qb.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"appointment_id": appointmentIDs}).
		OrderBy("created_at ASC", "id ASC")

	return r.queryMany(ctx, selectBuilder, "GetByAppointmentIDs")
}

// GetByDateRange получает транзакции в полуинтервале [from, to)
func (r *Repository) GetByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error) {
	selectBuilder := r.qb.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.GtOrEq{"created_at": from.Unix()}).
		Where(squirrel.Lt{"created_at": to.Unix()}).
		OrderBy("created_at ASC", "id ASC")

	return r.queryMany(ctx, selectBuilder, "GetByDateRange")
}

// CategorySummary считает приход и расход по категориям за период [from, to).
// Категории отсортированы по алфавиту.
func (r *Repository) CategorySummary(ctx context.Context, from, to time.Time) ([]*domain.CategorySummary, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select(
		"category",
		"COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS income",
		"COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS expense",
	).
		From("transactions").
		Where(squirrel.GtOrEq{"created_at": from.Unix()}).
		Where(squirrel.Lt{"created_at": to.Unix()}).
		GroupBy("category").
		OrderBy("category ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CategorySummary - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CategorySummary - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	summaries := make([]*domain.CategorySummary, 0)
	for rows.Next() {
		var summary domain.CategorySummary

		err := rows.Scan(&summary.Category, &summary.Income, &summary.Expense)
		if err != nil {
			return nil, fmt.Errorf("%w: CategorySummary - scan row: %v", ErrScanRow, err)
		}

		summaries = append(summaries, &summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CategorySummary - rows error: %v", ErrScanRow, err)
	}

	return summaries, nil
}

func (r *Repository) queryMany(ctx context.Context, selectBuilder squirrel.SelectBuilder, op string) ([]*domain.Transaction, error) {
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

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		transaction, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		transactions = append(transactions, transaction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return transactions, nil
}

func scanTransaction(scan func(dest ...interface{}) error) (*domain.Transaction, error) {
	var transaction domain.Transaction
	var amount money.Money
	var createdAt int64
	var rawType string

	err := scan(
		&transaction.ID,
		&transaction.AppointmentID,
		&amount,
		&rawType,
		&transaction.Category,
		&transaction.Description,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	transactionType, err := domain.ParseTransactionType(rawType)
	if err != nil {
		return nil, err
	}

	transaction.Amount = amount
	transaction.Type = transactionType
	transaction.CreatedAt = time.Unix(createdAt, 0)

	return &transaction, nil
}
