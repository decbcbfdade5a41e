package available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	"github.com/bmwdroch/detailing-bot/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (r *fakeAppointmentRepo) GetByDay(_ context.Context, _ time.Time) ([]*domain.Appointment, error) {
	return r.appointments, r.err
}

type fakeServiceRepo struct {
	service *domain.Service
	err     error
}

func (r *fakeServiceRepo) GetByID(_ context.Context, _ int64) (*domain.Service, error) {
	return r.service, r.err
}

var testRules = domain.ScheduleRules{
	WorkStartHour:   9,
	WorkEndHour:     20,
	MinAdvanceHours: 1,
	MaxAdvanceDays:  90,
	SlotStepMinutes: 30,
}

func slotByTime(t *testing.T, slots []domain.AvailableSlot, start string) domain.AvailableSlot {
	t.Helper()
	for _, slot := range slots {
		if string(slot.StartTime) == start {
			return slot
		}
	}
	t.Fatalf("slot %s not found", start)
	return domain.AvailableSlot{}
}

func TestDaySlotsGeneratesFullWorkday(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	slots := daySlots(day, 60, nil, now, testRules)

	// С 9:00 до 19:30 с шагом 30 минут
	require.Len(t, slots, 22)
	assert.Equal(t, types.TimeString("09:00"), slots[0].StartTime)
	assert.Equal(t, types.TimeString("19:30"), slots[len(slots)-1].StartTime)

	for _, slot := range slots {
		assert.True(t, slot.Available, "slot %s", slot.StartTime)
		assert.Equal(t, 60, slot.DurationMinutes)
	}
}

func TestDaySlotsMinAdvanceCutoff(t *testing.T) {
	// Запрос слотов на сегодня в 12:30: слоты до 13:30 не проходят
	// минимальное уведомление в 1 час
	now := time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	slots := daySlots(day, 60, nil, now, testRules)

	assert.False(t, slotByTime(t, slots, "13:00").Available)
	assert.True(t, slotByTime(t, slots, "13:30").Available)
	assert.True(t, slotByTime(t, slots, "14:00").Available)
}

func TestDaySlotsMarksBusyIntervals(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	appointments := []*domain.Appointment{
		{
			ID:              1,
			StartTime:       time.Date(2026, 3, 11, 11, 0, 0, 0, time.UTC),
			DurationMinutes: 60,
			Status:          domain.StatusConfirmed,
		},
	}

	slots := daySlots(day, 60, appointments, now, testRules)

	// Часовой слот пересекается с записью 11:00-12:00,
	// если начинается в (10:00, 12:00)
	assert.True(t, slotByTime(t, slots, "09:30").Available)
	assert.False(t, slotByTime(t, slots, "10:30").Available)
	assert.False(t, slotByTime(t, slots, "11:00").Available)
	assert.False(t, slotByTime(t, slots, "11:30").Available)
	// Встык к окончанию записи - доступен
	assert.True(t, slotByTime(t, slots, "12:00").Available)
	// Встык к началу записи - доступен
	assert.True(t, slotByTime(t, slots, "10:00").Available)
}

func TestDaySlotsIgnoresReleasedAppointments(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	appointments := []*domain.Appointment{
		{
			ID:              1,
			StartTime:       time.Date(2026, 3, 11, 11, 0, 0, 0, time.UTC),
			DurationMinutes: 60,
			Status:          domain.StatusCancelled,
		},
		{
			ID:              2,
			StartTime:       time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC),
			DurationMinutes: 60,
			Status:          domain.StatusRescheduled,
		},
	}

	slots := daySlots(day, 60, appointments, now, testRules)

	assert.True(t, slotByTime(t, slots, "11:00").Available)
	assert.True(t, slotByTime(t, slots, "14:00").Available)
}

func TestDaySlotsLongServiceBlocksMoreSlots(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	appointments := []*domain.Appointment{
		{
			ID:              1,
			StartTime:       time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC),
			DurationMinutes: 30,
			Status:          domain.StatusPending,
		},
	}

	// Двухчасовая услуга: любой слот, начинающийся в (10:00, 12:30),
	// накрывает запись 12:00-12:30
	slots := daySlots(day, 120, appointments, now, testRules)

	assert.True(t, slotByTime(t, slots, "10:00").Available)
	assert.False(t, slotByTime(t, slots, "10:30").Available)
	assert.False(t, slotByTime(t, slots, "12:00").Available)
	assert.True(t, slotByTime(t, slots, "12:30").Available)
}

func TestValidateDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, validateDate(today, now, testRules))
	assert.NoError(t, validateDate(today.AddDate(0, 0, 30), now, testRules))

	assert.ErrorIs(t, validateDate(today.AddDate(0, 0, -1), now, testRules), ErrDateOutOfRange)
	assert.ErrorIs(t, validateDate(today.AddDate(0, 0, 120), now, testRules), ErrDateOutOfRange)
}

func TestExecute(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	serviceRepo := &fakeServiceRepo{service: &domain.Service{
		ID:              7,
		Name:            "Химчистка салона",
		DurationMinutes: 60,
		IsActive:        true,
	}}
	appointmentRepo := &fakeAppointmentRepo{appointments: []*domain.Appointment{
		{
			ID:              1,
			StartTime:       time.Date(2026, 3, 11, 11, 0, 0, 0, time.UTC),
			DurationMinutes: 60,
			Status:          domain.StatusConfirmed,
		},
	}}

	uc := NewUseCase(appointmentRepo, serviceRepo, testRules, nopLogger{})
	uc.timeProvider = clock

	resp, err := uc.Execute(context.Background(), &Request{Date: day, ServiceID: 7})
	require.NoError(t, err)

	assert.Equal(t, day, resp.Date)
	assert.Equal(t, int64(7), resp.ServiceID)
	require.Len(t, resp.Slots, 22)
	assert.False(t, slotByTime(t, resp.Slots, "11:00").Available)
	assert.True(t, slotByTime(t, resp.Slots, "12:00").Available)
}

func TestExecuteInactiveService(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}

	serviceRepo := &fakeServiceRepo{service: &domain.Service{ID: 7, DurationMinutes: 60, IsActive: false}}
	uc := NewUseCase(&fakeAppointmentRepo{}, serviceRepo, testRules, nopLogger{})
	uc.timeProvider = clock

	_, err := uc.Execute(context.Background(), &Request{
		Date:      time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		ServiceID: 7,
	})
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecuteDateOutOfRange(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}

	uc := NewUseCase(&fakeAppointmentRepo{}, &fakeServiceRepo{}, testRules, nopLogger{})
	uc.timeProvider = clock

	_, err := uc.Execute(context.Background(), &Request{
		Date:      time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		ServiceID: 7,
	})
	assert.ErrorIs(t, err, ErrDateOutOfRange)
}
