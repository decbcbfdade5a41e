package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	appointmentsRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/appointments"
	clientsRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/clients"
	servicesRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/services"
	"github.com/bmwdroch/detailing-bot/internal/infra/storage/storagetest"
	transactionsRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/transactions"
	"github.com/bmwdroch/detailing-bot/internal/service/appointments/models"
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
	svc             *Service
	appointmentRepo *appointmentsRepo.Repository
	transactionRepo *transactionsRepo.Repository
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
	transactionRepository := transactionsRepo.NewRepository(db, qb)
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

	svc := NewService(appointmentRepository, transactionRepository, txm, nopLogger{})
	svc.timeProvider = clock

	return &fixture{
		svc:             svc,
		appointmentRepo: appointmentRepository,
		transactionRepo: transactionRepository,
		clock:           clock,
		client:          client,
		service:         service,
	}
}

func (f *fixture) createAppointment(t *testing.T, start time.Time) *domain.Appointment {
	t.Helper()

	created, err := f.appointmentRepo.Create(context.Background(), &domain.Appointment{
		ClientID:  f.client.ID,
		ServiceID: f.service.ID,
		CarInfo:   "Toyota Camry А123ВС",
		StartTime: start,
		Status:    domain.StatusPending,
		CreatedAt: f.clock.now,
		UpdatedAt: f.clock.now,
	})
	require.NoError(t, err)
	return created
}

func TestUpdateStatusLifecycle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	appointment := f.createAppointment(t, f.clock.now.Add(24*time.Hour))

	// pending -> confirmed
	resp, err := f.svc.UpdateStatus(ctx, &models.UpdateStatusRequest{
		ID: appointment.ID, Status: "confirmed", Actor: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.PreviousStatus)
	assert.Equal(t, "confirmed", resp.Status)

	// confirmed -> completed
	resp, err = f.svc.UpdateStatus(ctx, &models.UpdateStatusRequest{
		ID: appointment.ID, Status: "completed", Actor: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.PreviousStatus)

	// completed - терминальный, обратного пути нет
	_, err = f.svc.UpdateStatus(ctx, &models.UpdateStatusRequest{
		ID: appointment.ID, Status: "pending", Actor: "admin",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusRejectsInvalidTransitions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// pending -> completed без подтверждения запрещен
	appointment := f.createAppointment(t, f.clock.now.Add(24*time.Hour))
	_, err := f.svc.UpdateStatus(ctx, &models.UpdateStatusRequest{
		ID: appointment.ID, Status: "completed", Actor: "admin",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Неизвестный статус отклоняется валидацией до проверки переходов
	_, err = f.svc.UpdateStatus(ctx, &models.UpdateStatusRequest{
		ID: appointment.ID, Status: "done", Actor: "admin",
	})
	assert.ErrorIs(t, err, validation.ErrValidation)

	_, err = f.svc.UpdateStatus(ctx, &models.UpdateStatusRequest{
		ID: 99999, Status: "confirmed", Actor: "admin",
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCompleteRecordsIncome(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	appointment := f.createAppointment(t, f.clock.now.Add(24*time.Hour))
	_, err := f.svc.UpdateStatus(ctx, &models.UpdateStatusRequest{
		ID: appointment.ID, Status: "confirmed", Actor: "admin",
	})
	require.NoError(t, err)

	resp, err := f.svc.Complete(ctx, &models.CompleteRequest{
		ID: appointment.ID, Actor: "admin", RecordIncome: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "confirmed", resp.PreviousStatus)
	assert.Equal(t, "completed", resp.Status)
	require.NotNil(t, resp.Transaction)
	assert.Equal(t, money.FromRubles(1000), resp.Transaction.Amount)
	assert.Equal(t, "income", resp.Transaction.Type)
	assert.Equal(t, domain.CategoryServices, resp.Transaction.Category)

	// Доход привязан к записи
	transactions, err := f.transactionRepo.GetByAppointment(ctx, appointment.ID)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, money.FromRubles(1000), transactions[0].Amount)
	assert.Equal(t, domain.TransactionIncome, transactions[0].Type)
	require.NotNil(t, transactions[0].AppointmentID)
	assert.Equal(t, appointment.ID, *transactions[0].AppointmentID)
}

func TestCompleteWithoutIncome(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	appointment := f.createAppointment(t, f.clock.now.Add(24*time.Hour))
	_, err := f.svc.UpdateStatus(ctx, &models.UpdateStatusRequest{
		ID: appointment.ID, Status: "confirmed", Actor: "admin",
	})
	require.NoError(t, err)

	resp, err := f.svc.Complete(ctx, &models.CompleteRequest{
		ID: appointment.ID, Actor: "admin", RecordIncome: false,
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Transaction)

	transactions, err := f.transactionRepo.GetByAppointment(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestCompleteRejectsPending(t *testing.T) {
	f := setup(t)

	appointment := f.createAppointment(t, f.clock.now.Add(24*time.Hour))

	_, err := f.svc.Complete(context.Background(), &models.CompleteRequest{
		ID: appointment.ID, Actor: "admin", RecordIncome: true,
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestGetByClientAndUpcoming(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	past := f.createAppointment(t, f.clock.now.Add(-48*time.Hour))
	future := f.createAppointment(t, f.clock.now.Add(24*time.Hour))

	// Отмененная будущая запись не входит в предстоящие
	cancelled := f.createAppointment(t, f.clock.now.Add(48*time.Hour))
	_, err := f.svc.UpdateStatus(ctx, &models.UpdateStatusRequest{
		ID: cancelled.ID, Status: "cancelled", Actor: "client",
	})
	require.NoError(t, err)

	history, err := f.svc.GetByClient(ctx, f.client.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	upcoming, err := f.svc.GetUpcoming(ctx)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, future.ID, upcoming[0].ID)
	assert.Equal(t, "Замена масла", upcoming[0].ServiceName)
	assert.Equal(t, future.StartTime.Add(time.Hour), upcoming[0].EndTime)

	_ = past
}

func TestList(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first := f.createAppointment(t, f.clock.now.Add(24*time.Hour))
	second := f.createAppointment(t, f.clock.now.Add(48*time.Hour))

	_, err := f.svc.UpdateStatus(ctx, &models.UpdateStatusRequest{
		ID: second.ID, Status: "confirmed", Actor: "admin",
	})
	require.NoError(t, err)

	confirmed, err := f.svc.List(ctx, &models.ListRequest{Statuses: []string{"confirmed"}})
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, second.ID, confirmed[0].ID)

	byClient, err := f.svc.List(ctx, &models.ListRequest{ClientID: ptr.Ptr(f.client.ID), Limit: 1})
	require.NoError(t, err)
	assert.Len(t, byClient, 1)

	_, err = f.svc.List(ctx, &models.ListRequest{Statuses: []string{"bogus"}})
	assert.ErrorIs(t, err, validation.ErrValidation)

	_ = first
}
