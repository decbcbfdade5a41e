package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	"github.com/bmwdroch/detailing-bot/pkg/sqlbuilder"
)

// Суммы и цены хранятся в копейках (INTEGER/BIGINT), временные метки —
// в секундах Unix. Обе схемы должны оставаться эквивалентными по колонкам.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		telegram_id INTEGER NOT NULL UNIQUE,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL,
		price INTEGER NOT NULL,
		duration_minutes INTEGER NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		client_id INTEGER NOT NULL REFERENCES clients(id),
		service_id INTEGER NOT NULL REFERENCES services(id),
		car_info TEXT NOT NULL,
		appointment_time INTEGER NOT NULL,
		status TEXT NOT NULL,
		comment TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_time ON appointments (appointment_time)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_client ON appointments (client_id)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		appointment_id INTEGER REFERENCES appointments(id),
		amount INTEGER NOT NULL,
		type TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions (created_at)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id BIGSERIAL PRIMARY KEY,
		telegram_id BIGINT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL,
		price BIGINT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id BIGSERIAL PRIMARY KEY,
		client_id BIGINT NOT NULL REFERENCES clients(id),
		service_id BIGINT NOT NULL REFERENCES services(id),
		car_info TEXT NOT NULL,
		appointment_time BIGINT NOT NULL,
		status TEXT NOT NULL,
		comment TEXT,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_time ON appointments (appointment_time)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_client ON appointments (client_id)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id BIGSERIAL PRIMARY KEY,
		appointment_id BIGINT REFERENCES appointments(id),
		amount BIGINT NOT NULL,
		type TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions (created_at)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
}

// Migrate применяет схему и заполняет обязательные настройки.
// Вызов идемпотентен и выполняется при каждом старте сервиса.
func Migrate(ctx context.Context, db *sql.DB, dialect sqlbuilder.Dialect) error {
	schema := sqliteSchema
	if dialect == sqlbuilder.DialectPostgres {
		schema = postgresSchema
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: Migrate - exec statement: %v", ErrMigrate, err)
		}
	}

	if err := seedSettings(ctx, db, dialect); err != nil {
		return err
	}

	return nil
}

// seedSettings создает значения по умолчанию для обязательных ключей,
// не перезаписывая уже сохраненные
func seedSettings(ctx context.Context, db *sql.DB, dialect sqlbuilder.Dialect) error {
	stmt := `INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT (key) DO NOTHING`
	if dialect == sqlbuilder.DialectPostgres {
		stmt = `INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, $3) ON CONFLICT (key) DO NOTHING`
	}

	if _, err := db.ExecContext(ctx, stmt, domain.SettingContacts, domain.DefaultContacts, time.Now().Unix()); err != nil {
		return fmt.Errorf("%w: Migrate - seed settings: %v", ErrMigrate, err)
	}

	return nil
}
