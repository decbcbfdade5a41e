package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	clientsRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/clients"
	servicesRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/services"
	"github.com/bmwdroch/detailing-bot/internal/infra/storage/storagetest"
	"github.com/bmwdroch/detailing-bot/pkg/money"
	"github.com/bmwdroch/detailing-bot/pkg/ptr"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repo    *Repository
	client  *domain.Client
	service *domain.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, qb := storagetest.NewDB(t)
	ctx := context.Background()

	client, err := clientsRepo.NewRepository(db, qb).Create(ctx, &domain.Client{
		TelegramID: 100500,
		Name:       "Иван Петров",
		Phone:      "+79991234567",
		CreatedAt:  now,
	})
	require.NoError(t, err)

	service, err := servicesRepo.NewRepository(db, qb).Create(ctx, &domain.Service{
		Name:            "Замена масла",
		Description:     "Замена масла и масляного фильтра",
		Price:           money.FromRubles(1000),
		DurationMinutes: 60,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	require.NoError(t, err)

	return &fixture{
		repo:    NewRepository(db, qb),
		client:  client,
		service: service,
	}
}

func (f *fixture) create(t *testing.T, start time.Time, status domain.AppointmentStatus) *domain.Appointment {
	t.Helper()
	ctx := context.Background()

	created, err := f.repo.Create(ctx, &domain.Appointment{
		ClientID:  f.client.ID,
		ServiceID: f.service.ID,
		CarInfo:   "Toyota Camry А123ВС",
		StartTime: start,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)

	if status != domain.StatusPending {
		require.NoError(t, f.repo.UpdateStatus(ctx, created.ID, status, now))
	}
	return created
}

func TestCreateAndGetByID(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	comment := "Позвонить за час"
	created, err := f.repo.Create(ctx, &domain.Appointment{
		ClientID:  f.client.ID,
		ServiceID: f.service.ID,
		CarInfo:   "Toyota Camry А123ВС",
		StartTime: now.Add(24 * time.Hour),
		Status:    domain.StatusPending,
		Comment:   &comment,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	stored, err := f.repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, f.client.ID, stored.ClientID)
	assert.Equal(t, domain.StatusPending, stored.Status)
	require.NotNil(t, stored.Comment)
	assert.Equal(t, comment, *stored.Comment)
	assert.Equal(t, now.Add(24*time.Hour).Unix(), stored.StartTime.Unix())

	// Производные поля услуги приходят из JOIN
	assert.Equal(t, "Замена масла", stored.ServiceName)
	assert.Equal(t, money.FromRubles(1000), stored.ServicePrice)
	assert.Equal(t, 60, stored.DurationMinutes)
}

func TestCreateUnknownClient(t *testing.T) {
	f := setup(t)

	_, err := f.repo.Create(context.Background(), &domain.Appointment{
		ClientID:  f.client.ID + 1000,
		ServiceID: f.service.ID,
		CarInfo:   "Toyota Camry А123ВС",
		StartTime: now.Add(24 * time.Hour),
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestGetByIDNotFound(t *testing.T) {
	f := setup(t)

	_, err := f.repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

// GetByDay отдает только записи календарного дня, по возрастанию времени
func TestGetByDay(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	late := f.create(t, day.Add(15*time.Hour), domain.StatusPending)
	early := f.create(t, day.Add(10*time.Hour), domain.StatusPending)
	// Границы дня: последняя секунда входит, полночь следующего - нет
	edge := f.create(t, day.Add(24*time.Hour-time.Second), domain.StatusPending)
	f.create(t, day.Add(24*time.Hour), domain.StatusPending)

	appointments, err := f.repo.GetByDay(ctx, day.Add(12*time.Hour))
	require.NoError(t, err)
	require.Len(t, appointments, 3)
	assert.Equal(t, early.ID, appointments[0].ID)
	assert.Equal(t, late.ID, appointments[1].ID)
	assert.Equal(t, edge.ID, appointments[2].ID)
}

func TestGetUpcoming(t *testing.T) {
	f := setup(t)

	f.create(t, now.Add(-24*time.Hour), domain.StatusPending)
	upcoming := f.create(t, now.Add(24*time.Hour), domain.StatusConfirmed)
	f.create(t, now.Add(48*time.Hour), domain.StatusCancelled)

	appointments, err := f.repo.GetUpcoming(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, upcoming.ID, appointments[0].ID)
}

func TestList(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first := f.create(t, now.Add(24*time.Hour), domain.StatusPending)
	second := f.create(t, now.Add(48*time.Hour), domain.StatusConfirmed)
	third := f.create(t, now.Add(72*time.Hour), domain.StatusPending)

	byStatus, err := f.repo.List(ctx, domain.AppointmentsFilter{
		Statuses: []domain.AppointmentStatus{domain.StatusConfirmed},
	})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, second.ID, byStatus[0].ID)

	byRange, err := f.repo.List(ctx, domain.AppointmentsFilter{
		From: ptr.Ptr(now.Add(36 * time.Hour)),
		To:   ptr.Ptr(now.Add(96 * time.Hour)),
	})
	require.NoError(t, err)
	assert.Len(t, byRange, 2)

	// Новые сверху, пагинация
	page, err := f.repo.List(ctx, domain.AppointmentsFilter{
		ClientID: ptr.Ptr(f.client.ID),
		Limit:    2,
	})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, third.ID, page[0].ID)
	assert.Equal(t, second.ID, page[1].ID)

	rest, err := f.repo.List(ctx, domain.AppointmentsFilter{
		ClientID: ptr.Ptr(f.client.ID),
		Limit:    2,
		Offset:   2,
	})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, first.ID, rest[0].ID)
}

func TestGetForReminder(t *testing.T) {
	f := setup(t)

	inWindow := f.create(t, now.Add(24*time.Hour), domain.StatusConfirmed)
	// Отмененные и далекие записи напоминаний не получают
	f.create(t, now.Add(25*time.Hour), domain.StatusCancelled)
	f.create(t, now.Add(80*time.Hour), domain.StatusPending)

	reminders, err := f.repo.GetForReminder(context.Background(), now, now.Add(48*time.Hour))
	require.NoError(t, err)
	require.Len(t, reminders, 1)

	reminder := reminders[0]
	assert.Equal(t, inWindow.ID, reminder.ID)
	assert.Equal(t, "Иван Петров", reminder.ClientName)
	assert.Equal(t, int64(100500), reminder.ClientTelegramID)
	assert.Equal(t, "Замена масла", reminder.ServiceName)
}

func TestUpdateStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	appointment := f.create(t, now.Add(24*time.Hour), domain.StatusPending)
	later := now.Add(time.Hour)

	require.NoError(t, f.repo.UpdateStatus(ctx, appointment.ID, domain.StatusConfirmed, later))

	stored, err := f.repo.GetByID(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
	assert.Equal(t, later.Unix(), stored.UpdatedAt.Unix())

	assert.ErrorIs(t, f.repo.UpdateStatus(ctx, 42, domain.StatusConfirmed, later), ErrAppointmentNotFound)
}
