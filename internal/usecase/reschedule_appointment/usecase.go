package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	appointmentsRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/appointments"
	"github.com/bmwdroch/detailing-bot/internal/validation"
)

// UseCase use case для переноса записи на новое время.
// Перенос выполняется как отмена старого слота и создание нового:
// старая запись переходит в статус rescheduled и освобождает время,
// новая создается в статусе pending. Обе операции и проверка
// пересечений выполняются в одной сериализуемой транзакции.
type UseCase struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	rules           domain.ScheduleRules
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	rules domain.ScheduleRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		rules:           rules,
		logger:          logger,
	}
}

// Execute выполняет use case переноса записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: appointment id=%d, new time=%s, actor=%s",
		req.AppointmentID, req.NewStartTime.Format("2006-01-02 15:04"), req.Actor)

	// 1. Получаем текущее время
	now := uc.timeProvider.Now()

	// 2. Валидация нового времени по бизнес-правилам
	if err := validation.AppointmentTime(req.NewStartTime, now, uc.rules); err != nil {
		uc.logger.Warn("RescheduleAppointment: invalid new time %s: %v",
			req.NewStartTime.Format("2006-01-02 15:04"), err)
		return nil, err
	}

	var (
		old     *domain.Appointment
		created *domain.Appointment
	)

	// 3. Отмена старого слота и создание нового в одной транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		old, err = uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentsRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		if !old.Status.CanTransitionTo(domain.StatusRescheduled) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d in status %s cannot be rescheduled",
				old.ID, old.Status)
			return ErrInvalidTransition
		}

		// 3.1. Проверка пересечений на день нового времени.
		// Старая запись исключается: ее слот освобождается этим же переносом.
		dayAppointments, err := uc.appointmentRepo.GetByDay(txCtx, req.NewStartTime)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to get day appointments: %v", err)
			return fmt.Errorf("%w: failed to get day appointments: %v", ErrInternal, err)
		}

		for _, existing := range dayAppointments {
			if existing.ID == old.ID || !existing.OccupiesSlot() {
				continue
			}
			if domain.Overlaps(req.NewStartTime, old.DurationMinutes, existing.StartTime, existing.DurationMinutes) {
				uc.logger.Warn("RescheduleAppointment: new time %s overlaps appointment id=%d",
					req.NewStartTime.Format("15:04"), existing.ID)
				return ErrTimeSlotTaken
			}
		}

		// 3.2. Старая запись освобождает слот
		if err := uc.appointmentRepo.UpdateStatus(txCtx, old.ID, domain.StatusRescheduled, now); err != nil {
			uc.logger.Error("RescheduleAppointment: failed to release appointment id=%d: %v", old.ID, err)
			return fmt.Errorf("%w: failed to release old appointment: %v", ErrInternal, err)
		}

		// 3.3. Новая запись продолжает бронирование в статусе pending
		replacement := &domain.Appointment{
			ClientID:  old.ClientID,
			ServiceID: old.ServiceID,
			CarInfo:   old.CarInfo,
			StartTime: req.NewStartTime,
			Status:    domain.StatusPending,
			Comment:   old.Comment,
			CreatedAt: now,
			UpdatedAt: now,
		}

		created, err = uc.appointmentRepo.Create(txCtx, replacement)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to create replacement: %v", err)
			return fmt.Errorf("%w: failed to create replacement: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// 4. Аудит переноса
	uc.logger.Info("RescheduleAppointment: appointment id=%d status %s -> %s by %s, replacement id=%d at %s",
		old.ID, old.Status, domain.StatusRescheduled, req.Actor,
		created.ID, created.StartTime.Format("2006-01-02 15:04"))

	return &Response{
		OldAppointmentID: old.ID,
		NewAppointmentID: created.ID,
		StartTime:        created.StartTime,
		EndTime:          created.StartTime.Add(time.Duration(old.DurationMinutes) * time.Minute),
		ServiceName:      old.ServiceName,
	}, nil
}
