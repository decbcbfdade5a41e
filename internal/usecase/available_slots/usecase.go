package available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	servicesRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/services"
)

// UseCase use case для получения доступных слотов на день.
// Читает записи дня без транзакции: доступность слота носит
// информационный характер, окончательная проверка пересечений
// выполняется при создании записи.
type UseCase struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	timeProvider    TimeProvider
	rules           domain.ScheduleRules
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	rules domain.ScheduleRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		timeProvider:    &RealTimeProvider{},
		rules:           rules,
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AvailableSlots: service=%d, date=%s", req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Получаем текущее время
	now := uc.timeProvider.Now()

	// 2. Валидация даты относительно горизонта записи
	if err := validateDate(req.Date, now, uc.rules); err != nil {
		uc.logger.Warn("AvailableSlots: date %s is out of range", req.Date.Format(domain.DateFormat))
		return nil, err
	}

	// 3. Получаем услугу: ее длительность задает размер слота
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, servicesRepo.ErrServiceNotFound) {
			uc.logger.Warn("AvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("AvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("AvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 4. Получаем записи дня
	appointments, err := uc.appointmentRepo.GetByDay(ctx, req.Date)
	if err != nil {
		uc.logger.Error("AvailableSlots: failed to get day appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get day appointments: %v", ErrInternal, err)
	}

	// 5. Генерируем слоты и помечаем доступность
	slots := daySlots(req.Date, service.DurationMinutes, appointments, now, uc.rules)

	uc.logger.Info("AvailableSlots: generated %d slots for service=%d, date=%s",
		len(slots), req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:      req.Date,
		ServiceID: req.ServiceID,
		Slots:     slots,
	}, nil
}
