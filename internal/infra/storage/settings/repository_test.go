package settings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	"github.com/bmwdroch/detailing-bot/internal/infra/storage/storagetest"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	db, qb := storagetest.NewDB(t)
	return NewRepository(db, qb)
}

// Инициализация хранилища создает контакты по умолчанию
func TestSeededContacts(t *testing.T) {
	repo := newRepo(t)

	setting, err := repo.Get(context.Background(), domain.SettingContacts)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultContacts, setting.Value)
}

func TestGetNotFound(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestSetInsertsAndUpdates(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Set(ctx, "greeting", "Добро пожаловать!", now))

	setting, err := repo.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "Добро пожаловать!", setting.Value)
	assert.Equal(t, now.Unix(), setting.UpdatedAt.Unix())

	// Повторная запись того же ключа обновляет значение
	later := now.Add(time.Hour)
	require.NoError(t, repo.Set(ctx, "greeting", "Здравствуйте!", later))

	setting, err = repo.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "Здравствуйте!", setting.Value)
	assert.Equal(t, later.Unix(), setting.UpdatedAt.Unix())
}
