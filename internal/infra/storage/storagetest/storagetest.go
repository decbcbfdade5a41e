// Package storagetest поднимает изолированную sqlite-базу в памяти
// со схемой сервиса. Каждый тест получает собственный экземпляр.
package storagetest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/bmwdroch/detailing-bot/internal/infra/storage"
	"github.com/bmwdroch/detailing-bot/pkg/sqlbuilder"
)

// NewDB открывает чистую базу в памяти и применяет схему.
// Пул ограничен одним соединением, как и в боевой конфигурации sqlite.
// База закрывается по завершении теста.
func NewDB(t *testing.T) (*sql.DB, sqlbuilder.Builder) {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, storage.Migrate(context.Background(), db, sqlbuilder.DialectSQLite))

	return db, sqlbuilder.ForDialect(sqlbuilder.DialectSQLite)
}
