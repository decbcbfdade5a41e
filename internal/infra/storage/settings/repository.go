package settings

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	"github.com/bmwdroch/detailing-bot/pkg/dbmetrics"
	"github.com/bmwdroch/detailing-bot/pkg/sqlbuilder"
)

// Repository репозиторий настроек вида ключ-значение
type Repository struct {
	db DBExecutor
	qb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor, qb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, qb: qb}
}

// Get получает настройку по ключу
func (r *Repository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select("key", "value", "updated_at").
		From("settings").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var setting domain.Setting
	var updatedAt int64

	err = executor.QueryRowContext(ctx, query, args...).Scan(&setting.Key, &setting.Value, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan setting: %v", ErrScanRow, err)
	}

	setting.UpdatedAt = time.Unix(updatedAt, 0)

	return &setting, nil
}

// Set записывает настройку, создавая или обновляя ключ.
// Синтаксис ON CONFLICT одинаков в sqlite и postgres.
func (r *Repository) Set(ctx context.Context, key, value string, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Insert("settings").
		Columns("key", "value", "updated_at").
		Values(key, value, now.Unix()).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Set - build upsert query: %v", ErrBuildQuery, err)
	}

	_, err = executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Set - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}
