package sqlbuilder

import (
	"github.com/Masterminds/squirrel"
)

// Dialect диалект SQL, определяющий формат плейсхолдеров
type Dialect string

const (
	// DialectSQLite использует плейсхолдеры "?"
	DialectSQLite Dialect = "sqlite"

	// DialectPostgres использует плейсхолдеры "$1, $2, ..."
	DialectPostgres Dialect = "postgres"
)

// Builder построитель SQL-запросов для конкретного диалекта.
// Репозитории получают его при создании вместе с соединением.
type Builder struct {
	dialect Dialect
	sb      squirrel.StatementBuilderType
}

// ForDialect создает построитель запросов для указанного диалекта.
// Неизвестный диалект трактуется как sqlite (формат "?").
func ForDialect(dialect Dialect) Builder {
	format := squirrel.PlaceholderFormat(squirrel.Question)
	if dialect == DialectPostgres {
		format = squirrel.Dollar
	}
	return Builder{
		dialect: dialect,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(format),
	}
}

// Dialect возвращает диалект построителя
func (b Builder) Dialect() Dialect {
	return b.dialect
}

// SupportsRowLocking сообщает, поддерживает ли диалект SELECT ... FOR UPDATE.
// В sqlite блокировка строк не нужна: одно writer-соединение
// сериализует записи само по себе.
func (b Builder) SupportsRowLocking() bool {
	return b.dialect == DialectPostgres
}

// Select создает SELECT-запрос
func (b Builder) Select(columns ...string) squirrel.SelectBuilder {
	return b.sb.Select(columns...)
}

// Insert создает INSERT-запрос
func (b Builder) Insert(table string) squirrel.InsertBuilder {
	return b.sb.Insert(table)
}

// Update создает UPDATE-запрос
func (b Builder) Update(table string) squirrel.UpdateBuilder {
	return b.sb.Update(table)
}

// Delete создает DELETE-запрос
func (b Builder) Delete(table string) squirrel.DeleteBuilder {
	return b.sb.Delete(table)
}
