package clients

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

// Repository репозиторий для работы с клиентами
type Repository struct {
	db DBExecutor
	qb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor, qb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, qb: qb}
}

// Create регистрирует нового клиента.
// Повторная регистрация того же telegram_id возвращает ErrDuplicateClient.
func (r *Repository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Insert("clients").
		Columns("telegram_id", "name", "phone", "created_at").
		Values(client.TelegramID, client.Name, client.Phone, client.CreatedAt.Unix()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&client.ID)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return nil, ErrDuplicateClient
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return client, nil
}

// GetByID получает клиента по внутреннему идентификатору
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByTelegramID получает клиента по идентификатору чата
func (r *Repository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Client, error) {
	return r.getOne(ctx, squirrel.Eq{"telegram_id": telegramID}, "GetByTelegramID")
}

func (r *Repository) getOne(ctx context.Context, cond squirrel.Eq, op string) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select("id", "telegram_id", "name", "phone", "created_at").
		From("clients").
		Where(cond).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var client domain.Client
	var createdAt int64

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&client.ID,
		&client.TelegramID,
		&client.Name,
		&client.Phone,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan client: %v", ErrScanRow, op, err)
	}

	client.CreatedAt = time.Unix(createdAt, 0)

	return &client, nil
}

// Update изменяет имя и/или телефон клиента.
// Поля nil в upd не изменяются.
func (r *Repository) Update(ctx context.Context, telegramID int64, upd domain.ClientUpdate) error {
	if upd.IsEmpty() {
		return ErrEmptyUpdate
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := r.qb.Update("clients").
		Where(squirrel.Eq{"telegram_id": telegramID})

	if upd.Name != nil {
		updateBuilder = updateBuilder.Set("name", *upd.Name)
	}
	if upd.Phone != nil {
		updateBuilder = updateBuilder.Set("phone", *upd.Phone)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrClientNotFound
	}

	return nil
}

// List возвращает всех клиентов в порядке регистрации
func (r *Repository) List(ctx context.Context) ([]*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select("id", "telegram_id", "name", "phone", "created_at").
		From("clients").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		var client domain.Client
		var createdAt int64

		err := rows.Scan(
			&client.ID,
			&client.TelegramID,
			&client.Name,
			&client.Phone,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}

		client.CreatedAt = time.Unix(createdAt, 0)
		clients = append(clients, &client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return clients, nil
}
