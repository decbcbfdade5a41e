package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	"github.com/bmwdroch/detailing-bot/internal/infra/storage/storagetest"
	"github.com/bmwdroch/detailing-bot/pkg/money"
	"github.com/bmwdroch/detailing-bot/pkg/ptr"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	db, qb := storagetest.NewDB(t)
	return NewRepository(db, qb)
}

func create(t *testing.T, repo *Repository, name string, active bool) *domain.Service {
	t.Helper()

	service, err := repo.Create(context.Background(), &domain.Service{
		Name:            name,
		Description:     "Описание услуги " + name,
		Price:           money.FromRubles(1000),
		DurationMinutes: 60,
		IsActive:        active,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	require.NoError(t, err)
	return service
}

func TestCreateAndGet(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created := create(t, repo, "Замена масла", true)
	assert.NotZero(t, created.ID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Замена масла", byID.Name)
	assert.Equal(t, money.FromRubles(1000), byID.Price)
	assert.Equal(t, 60, byID.DurationMinutes)
	assert.True(t, byID.IsActive)
	assert.Equal(t, now.Unix(), byID.CreatedAt.Unix())

	byName, err := repo.GetByName(ctx, "Замена масла")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestCreateDuplicateName(t *testing.T) {
	repo := newRepo(t)

	create(t, repo, "Замена масла", true)

	_, err := repo.Create(context.Background(), &domain.Service{
		Name:            "Замена масла",
		Description:     "Дубликат названия",
		Price:           money.FromRubles(2000),
		DurationMinutes: 30,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	assert.ErrorIs(t, err, ErrDuplicateService)
}

func TestGetActiveAndGetAll(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	create(t, repo, "Полировка кузова", true)
	create(t, repo, "Замена масла", true)
	create(t, repo, "Химчистка салона", false)

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	// Алфавитный порядок
	assert.Equal(t, "Замена масла", active[0].Name)
	assert.Equal(t, "Полировка кузова", active[1].Name)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetByIDs(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	first := create(t, repo, "Замена масла", true)
	create(t, repo, "Полировка кузова", true)

	services, err := repo.GetByIDs(ctx, []int64{first.ID})
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, first.ID, services[0].ID)

	empty, err := repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUpdate(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	service := create(t, repo, "Замена масла", true)
	later := now.Add(time.Hour)

	err := repo.Update(ctx, service.ID, domain.ServiceUpdate{
		Price:    ptr.Ptr(money.FromRubles(1500)),
		IsActive: ptr.Ptr(false),
	}, later)
	require.NoError(t, err)

	updated, err := repo.GetByID(ctx, service.ID)
	require.NoError(t, err)
	assert.Equal(t, money.FromRubles(1500), updated.Price)
	assert.False(t, updated.IsActive)
	assert.Equal(t, later.Unix(), updated.UpdatedAt.Unix())
	// Неуказанные поля не тронуты
	assert.Equal(t, "Замена масла", updated.Name)
	assert.Equal(t, 60, updated.DurationMinutes)
}

func TestUpdateErrors(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	first := create(t, repo, "Замена масла", true)
	create(t, repo, "Полировка кузова", true)

	assert.ErrorIs(t, repo.Update(ctx, first.ID, domain.ServiceUpdate{}, now), ErrEmptyUpdate)

	assert.ErrorIs(t, repo.Update(ctx, 42,
		domain.ServiceUpdate{IsActive: ptr.Ptr(false)}, now), ErrServiceNotFound)

	// Переименование в существующее название
	assert.ErrorIs(t, repo.Update(ctx, first.ID,
		domain.ServiceUpdate{Name: ptr.Ptr("Полировка кузова")}, now), ErrDuplicateService)
}
