package create_appointment

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	appointmentsRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/appointments"
	clientsRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/clients"
	servicesRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/services"
	"github.com/bmwdroch/detailing-bot/internal/infra/storage/storagetest"
	"github.com/bmwdroch/detailing-bot/internal/validation"
	"github.com/bmwdroch/detailing-bot/pkg/money"
	"github.com/bmwdroch/detailing-bot/pkg/ptr"
	"github.com/bmwdroch/detailing-bot/pkg/simpletxmanager"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type fixture struct {
	uc              *UseCase
	appointmentRepo *appointmentsRepo.Repository
	serviceRepo     *servicesRepo.Repository
	clock           *fakeClock
	client          *domain.Client
	service         *domain.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, qb := storagetest.NewDB(t)
	ctx := context.Background()

	clientRepository := clientsRepo.NewRepository(db, qb)
	serviceRepository := servicesRepo.NewRepository(db, qb)
	appointmentRepository := appointmentsRepo.NewRepository(db, qb)
	txm := simpletxmanager.NewTransactionManager(db)

	clock := &fakeClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}

	client, err := clientRepository.Create(ctx, &domain.Client{
		TelegramID: 100500,
		Name:       "Иван Петров",
		Phone:      "+79991234567",
		CreatedAt:  clock.now,
	})
	require.NoError(t, err)

	service, err := serviceRepository.Create(ctx, &domain.Service{
		Name:            "Замена масла",
		Description:     "Замена масла и масляного фильтра",
		Price:           money.FromRubles(1000),
		DurationMinutes: 60,
		IsActive:        true,
		CreatedAt:       clock.now,
		UpdatedAt:       clock.now,
	})
	require.NoError(t, err)

	uc := NewUseCase(appointmentRepository, clientRepository, serviceRepository,
		txm, domain.DefaultScheduleRules(), nopLogger{})
	uc.timeProvider = clock

	return &fixture{
		uc:              uc,
		appointmentRepo: appointmentRepository,
		serviceRepo:     serviceRepository,
		clock:           clock,
		client:          client,
		service:         service,
	}
}

// tomorrowAt завтра в час hour и минуту minute относительно часов теста
func (f *fixture) tomorrowAt(hour, minute int) time.Time {
	day := f.clock.now.AddDate(0, 0, 1)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func TestExecuteCreatesPendingAppointment(t *testing.T) {
	f := setup(t)

	resp, err := f.uc.Execute(context.Background(), &Request{
		ClientID:  f.client.ID,
		ServiceID: f.service.ID,
		StartTime: f.tomorrowAt(10, 0),
		CarInfo:   "Toyota Camry А123ВС",
	})
	require.NoError(t, err)

	assert.NotZero(t, resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, money.FromRubles(1000), resp.ServicePrice)
	assert.Equal(t, "Замена масла", resp.ServiceName)
	assert.Equal(t, f.tomorrowAt(11, 0), resp.EndTime)

	stored, err := f.appointmentRepo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Equal(t, 60, stored.DurationMinutes)
}

func TestExecuteResolvesServiceByName(t *testing.T) {
	f := setup(t)

	resp, err := f.uc.Execute(context.Background(), &Request{
		ClientID:    f.client.ID,
		ServiceName: "Замена масла",
		StartTime:   f.tomorrowAt(10, 0),
		CarInfo:     "Kia Rio В567ОР",
	})
	require.NoError(t, err)
	assert.Equal(t, f.service.ID, resp.ServiceID)
}

func TestExecuteRejectsOverlap(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, &Request{
		ClientID:  f.client.ID,
		ServiceID: f.service.ID,
		StartTime: f.tomorrowAt(10, 0),
		CarInfo:   "Toyota Camry А123ВС",
	})
	require.NoError(t, err)

	// Вторая запись внутри часового окна первой
	_, err = f.uc.Execute(ctx, &Request{
		ClientID:  f.client.ID,
		ServiceID: f.service.ID,
		StartTime: f.tomorrowAt(10, 15),
		CarInfo:   "Kia Rio В567ОР",
	})
	assert.ErrorIs(t, err, ErrTimeSlotTaken)
}

func TestExecuteAllowsBackToBack(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, &Request{
		ClientID:  f.client.ID,
		ServiceID: f.service.ID,
		StartTime: f.tomorrowAt(10, 0),
		CarInfo:   "Toyota Camry А123ВС",
	})
	require.NoError(t, err)

	// Ровно в момент окончания первой записи - конфликта нет
	resp, err := f.uc.Execute(ctx, &Request{
		ClientID:  f.client.ID,
		ServiceID: f.service.ID,
		StartTime: f.tomorrowAt(11, 0),
		CarInfo:   "Kia Rio В567ОР",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
}

func TestExecuteIgnoresCancelledAppointments(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first, err := f.uc.Execute(ctx, &Request{
		ClientID:  f.client.ID,
		ServiceID: f.service.ID,
		StartTime: f.tomorrowAt(10, 0),
		CarInfo:   "Toyota Camry А123ВС",
	})
	require.NoError(t, err)

	// Отмененная запись освобождает слот
	require.NoError(t, f.appointmentRepo.UpdateStatus(ctx, first.ID, domain.StatusCancelled, f.clock.now))

	_, err = f.uc.Execute(ctx, &Request{
		ClientID:  f.client.ID,
		ServiceID: f.service.ID,
		StartTime: f.tomorrowAt(10, 15),
		CarInfo:   "Kia Rio В567ОР",
	})
	assert.NoError(t, err)
}

func TestExecuteValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  *Request
	}{
		{"время в прошлом", &Request{
			ClientID: f.client.ID, ServiceID: f.service.ID,
			StartTime: f.clock.now.Add(-time.Hour), CarInfo: "Toyota Camry А123ВС",
		}},
		{"меньше минимального уведомления", &Request{
			ClientID: f.client.ID, ServiceID: f.service.ID,
			StartTime: f.clock.now.Add(30 * time.Minute), CarInfo: "Toyota Camry А123ВС",
		}},
		{"вне рабочих часов", &Request{
			ClientID: f.client.ID, ServiceID: f.service.ID,
			StartTime: f.tomorrowAt(22, 0), CarInfo: "Toyota Camry А123ВС",
		}},
		{"дальше горизонта записи", &Request{
			ClientID: f.client.ID, ServiceID: f.service.ID,
			StartTime: f.tomorrowAt(10, 0).AddDate(0, 0, 120), CarInfo: "Toyota Camry А123ВС",
		}},
		{"слишком короткое описание автомобиля", &Request{
			ClientID: f.client.ID, ServiceID: f.service.ID,
			StartTime: f.tomorrowAt(10, 0), CarInfo: "a1",
		}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, validation.ErrValidation)
		})
	}
}

func TestExecuteUnknownClientAndService(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, &Request{
		ClientID:  f.client.ID + 1000,
		ServiceID: f.service.ID,
		StartTime: f.tomorrowAt(10, 0),
		CarInfo:   "Toyota Camry А123ВС",
	})
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = f.uc.Execute(ctx, &Request{
		ClientID:  f.client.ID,
		ServiceID: f.service.ID + 1000,
		StartTime: f.tomorrowAt(10, 0),
		CarInfo:   "Toyota Camry А123ВС",
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = f.uc.Execute(ctx, &Request{
		ClientID:    f.client.ID,
		ServiceName: "Несуществующая услуга",
		StartTime:   f.tomorrowAt(10, 0),
		CarInfo:     "Toyota Camry А123ВС",
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecuteRejectsInactiveService(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.serviceRepo.Update(ctx, f.service.ID,
		domain.ServiceUpdate{IsActive: ptr.Ptr(false)}, f.clock.now))

	_, err := f.uc.Execute(ctx, &Request{
		ClientID:  f.client.ID,
		ServiceID: f.service.ID,
		StartTime: f.tomorrowAt(10, 0),
		CarInfo:   "Toyota Camry А123ВС",
	})
	assert.ErrorIs(t, err, ErrServiceInactive)
}

// Проверяем, что резолвер отклоняет ровно пересекающиеся интервалы
// и принимает ровно непересекающиеся, на случайных временах начала
func TestExecuteOverlapProperty(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	base := f.tomorrowAt(14, 0)
	baseEnd := base.Add(60 * time.Minute)

	first, err := f.uc.Execute(ctx, &Request{
		ClientID:  f.client.ID,
		ServiceID: f.service.ID,
		StartTime: base,
		CarInfo:   "Toyota Camry А123ВС",
	})
	require.NoError(t, err)
	_ = first

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 60; i++ {
		// Случайное начало в пределах +/- 2 часов от базовой записи,
		// с точностью до 5 минут
		offset := time.Duration(rng.Intn(49)-24) * 5 * time.Minute
		candidate := base.Add(offset)
		candidateEnd := candidate.Add(60 * time.Minute)

		// Кандидаты за пределами рабочих часов не интересны
		if candidate.Hour() < 9 || candidate.Hour() >= 20 {
			continue
		}

		shouldConflict := candidate.Before(baseEnd) && base.Before(candidateEnd)

		resp, err := f.uc.Execute(ctx, &Request{
			ClientID:  f.client.ID,
			ServiceID: f.service.ID,
			StartTime: candidate,
			CarInfo:   "Kia Rio В567ОР",
		})

		if shouldConflict {
			assert.ErrorIsf(t, err, ErrTimeSlotTaken, "offset %s", offset)
			continue
		}

		require.NoErrorf(t, err, "offset %s", offset)
		// Освобождаем слот, чтобы итерации не влияли друг на друга
		require.NoError(t, f.appointmentRepo.UpdateStatus(ctx, resp.ID, domain.StatusCancelled, f.clock.now))
	}
}
