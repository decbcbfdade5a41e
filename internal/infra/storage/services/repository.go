package services

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

var serviceColumns = []string{
	"id",
	"name",
	"description",
	"price",
	"duration_minutes",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с каталогом услуг
type Repository struct {
	db DBExecutor
	qb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db DBExecutor, qb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, qb: qb}
}

// Create добавляет услугу в каталог.
// Название уникально с учетом регистра: совпадение возвращает ErrDuplicateService.
func (r *Repository) Create(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Insert("services").
		Columns("name", "description", "price", "duration_minutes", "is_active", "created_at", "updated_at").
		Values(
			service.Name,
			service.Description,
			service.Price,
			service.DurationMinutes,
			service.IsActive,
			service.CreatedAt.Unix(),
			service.UpdatedAt.Unix(),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&service.ID)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return nil, ErrDuplicateService
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return service, nil
}

// GetByID получает услугу по идентификатору
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByName получает услугу по точному названию
func (r *Repository) GetByName(ctx context.Context, name string) (*domain.Service, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name}, "GetByName")
}

func (r *Repository) getOne(ctx context.Context, cond squirrel.Eq, op string) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select(serviceColumns...).
		From("services").
		Where(cond).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)

	service, err := scanService(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan service: %v", ErrScanRow, op, err)
	}

	return service, nil
}

// GetActive возвращает активные услуги в алфавитном порядке
func (r *Repository) GetActive(ctx context.Context) ([]*domain.Service, error) {
	return r.list(ctx, squirrel.Eq{"is_active": true}, "GetActive")
}

// GetAll возвращает весь каталог, включая отключенные услуги
func (r *Repository) GetAll(ctx context.Context) ([]*domain.Service, error) {
	return r.list(ctx, nil, "GetAll")
}

// GetByIDs возвращает услуги по набору идентификаторов.
// Используется для дозагрузки длительностей при проверке пересечений.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error) {
	if len(ids) == 0 {
		return []*domain.Service{}, nil
	}
	return r.list(ctx, squirrel.Eq{"id": ids}, "GetByIDs")
}

func (r *Repository) list(ctx context.Context, cond interface{}, op string) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.qb.Select(serviceColumns...).
		From("services").
		OrderBy("name ASC")

	if cond != nil {
		selectBuilder = selectBuilder.Where(cond)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		service, err := scanService(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		services = append(services, service)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return services, nil
}

// Update изменяет поля услуги и обновляет updated_at.
// Поля nil в upd не изменяются. Конфликт названия возвращает ErrDuplicateService.
func (r *Repository) Update(ctx context.Context, id int64, upd domain.ServiceUpdate, now time.Time) error {
	if upd.IsEmpty() {
		return ErrEmptyUpdate
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := r.qb.Update("services").
		Set("updated_at", now.Unix()).
		Where(squirrel.Eq{"id": id})

	if upd.Name != nil {
		updateBuilder = updateBuilder.Set("name", *upd.Name)
	}
	if upd.Description != nil {
		updateBuilder = updateBuilder.Set("description", *upd.Description)
	}
	if upd.Price != nil {
		updateBuilder = updateBuilder.Set("price", *upd.Price)
	}
	if upd.DurationMinutes != nil {
		updateBuilder = updateBuilder.Set("duration_minutes", *upd.DurationMinutes)
	}
	if upd.IsActive != nil {
		updateBuilder = updateBuilder.Set("is_active", *upd.IsActive)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return ErrDuplicateService
		}
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrServiceNotFound
	}

	return nil
}

// scanService сканирует одну строку услуги
func scanService(scan func(dest ...interface{}) error) (*domain.Service, error) {
	var service domain.Service
	var createdAt, updatedAt int64

	err := scan(
		&service.ID,
		&service.Name,
		&service.Description,
		&service.Price,
		&service.DurationMinutes,
		&service.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	service.CreatedAt = time.Unix(createdAt, 0)
	service.UpdatedAt = time.Unix(updatedAt, 0)

	return &service, nil
}
