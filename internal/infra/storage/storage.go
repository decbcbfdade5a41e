// Package storage отвечает за подключение к базе данных и схему.
// Поддерживаются два драйвера: sqlite (по умолчанию, один файл на диске)
// и postgres (для развертывания с несколькими процессами).
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/bmwdroch/detailing-bot/internal/config"
	"github.com/bmwdroch/detailing-bot/pkg/sqlbuilder"
)

// Open открывает соединение с базой и проверяет его.
// Для sqlite пул ограничивается одним соединением: единственный
// писатель вместе с WAL устраняет SQLITE_BUSY на конкурентных записях.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, sqlbuilder.Dialect, error) {
	dialect := DialectFor(cfg.Driver)

	db, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, dialect, fmt.Errorf("%w: Open - open connection: %v", ErrOpenDB, err)
	}

	switch dialect {
	case sqlbuilder.DialectPostgres:
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	default:
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, dialect, fmt.Errorf("%w: Open - ping: %v", ErrPingDB, err)
	}

	return db, dialect, nil
}

// DialectFor сопоставляет имя драйвера из конфигурации с диалектом SQL
func DialectFor(driver string) sqlbuilder.Dialect {
	if driver == config.DriverPostgres {
		return sqlbuilder.DialectPostgres
	}
	return sqlbuilder.DialectSQLite
}

// IsUniqueViolation определяет нарушение ограничения уникальности
// для обоих поддерживаемых драйверов
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyViolation определяет нарушение внешнего ключа
// для обоих поддерживаемых драйверов
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}

	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
