package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	appointmentsRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/appointments"
	clientsRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/clients"
	servicesRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/services"
	"github.com/bmwdroch/detailing-bot/internal/validation"
)

// UseCase use case для создания записи на услугу
type UseCase struct {
	appointmentRepo AppointmentRepository
	clientRepo      ClientRepository
	serviceRepo     ServiceRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	rules           domain.ScheduleRules
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	clientRepo ClientRepository,
	serviceRepo ServiceRepository,
	txManager TransactionManager,
	rules domain.ScheduleRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		serviceRepo:     serviceRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		rules:           rules,
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка пересечений и вставка выполняются в сериализуемой
// транзакции, чтобы конкурентные создания не дали двойную запись.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: client=%d, service=%d %q, time=%s",
		req.ClientID, req.ServiceID, req.ServiceName, req.StartTime.Format("2006-01-02 15:04"))

	// 1. Валидация входных данных
	carInfo, err := validation.CarInfo(req.CarInfo)
	if err != nil {
		uc.logger.Warn("CreateAppointment: invalid car info: %v", err)
		return nil, err
	}

	comment, err := validation.Comment(req.Comment)
	if err != nil {
		uc.logger.Warn("CreateAppointment: invalid comment: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Валидация времени записи по бизнес-правилам
	if err := validation.AppointmentTime(req.StartTime, now, uc.rules); err != nil {
		uc.logger.Warn("CreateAppointment: invalid time %s: %v", req.StartTime.Format("2006-01-02 15:04"), err)
		return nil, err
	}

	// 4. Проверяем существование клиента
	client, err := uc.clientRepo.GetByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, clientsRepo.ErrClientNotFound) {
			uc.logger.Warn("CreateAppointment: client id=%d not found", req.ClientID)
			return nil, ErrClientNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get client id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	}

	// 5. Разрешаем услугу по ID или точному названию
	service, err := uc.resolveService(ctx, req)
	if err != nil {
		return nil, err
	}
	if !service.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d is inactive", service.ID)
		return nil, ErrServiceInactive
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 6. Проверка пересечений и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Получаем записи дня с блокировкой строк (FOR UPDATE на postgres)
		dayAppointments, err := uc.appointmentRepo.GetByDay(txCtx, req.StartTime)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get day appointments: %v", err)
			return fmt.Errorf("%w: failed to get day appointments: %v", ErrInternal, err)
		}

		// 6.2. Ищем пересечение с занимающими слот записями.
		// Длительности существующих записей приходят вместе со строками,
		// обращений к каталогу внутри проверки нет.
		for _, existing := range dayAppointments {
			if !existing.OccupiesSlot() {
				continue
			}
			if domain.Overlaps(req.StartTime, service.DurationMinutes, existing.StartTime, existing.DurationMinutes) {
				uc.logger.Warn("CreateAppointment: time %s overlaps appointment id=%d",
					req.StartTime.Format("15:04"), existing.ID)
				return ErrTimeSlotTaken
			}
		}

		// 6.3. Создаем запись в статусе pending
		appointment := &domain.Appointment{
			ClientID:  client.ID,
			ServiceID: service.ID,
			CarInfo:   carInfo,
			StartTime: req.StartTime,
			Status:    domain.StatusPending,
			Comment:   comment,
			CreatedAt: now,
			UpdatedAt: now,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			if errors.Is(err, appointmentsRepo.ErrClientNotFound) {
				return ErrClientNotFound
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d for client=%d at %s",
		result.ID, client.ID, result.StartTime.Format("2006-01-02 15:04"))

	// Конвертируем в response
	return &Response{
		ID:              result.ID,
		ClientID:        result.ClientID,
		ServiceID:       result.ServiceID,
		CarInfo:         result.CarInfo,
		StartTime:       result.StartTime,
		EndTime:         result.StartTime.Add(time.Duration(service.DurationMinutes) * time.Minute),
		Status:          string(result.Status),
		Comment:         result.Comment,
		ServiceName:     service.Name,
		ServicePrice:    service.Price,
		DurationMinutes: service.DurationMinutes,
		CreatedAt:       result.CreatedAt,
	}, nil
}

// resolveService находит услугу по ID или точному названию
func (uc *UseCase) resolveService(ctx context.Context, req *Request) (*domain.Service, error) {
	var (
		service *domain.Service
		err     error
	)

	if req.ServiceID != 0 {
		service, err = uc.serviceRepo.GetByID(ctx, req.ServiceID)
	} else {
		service, err = uc.serviceRepo.GetByName(ctx, req.ServiceName)
	}

	if err != nil {
		if errors.Is(err, servicesRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d %q not found", req.ServiceID, req.ServiceName)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service: %v", err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	return service, nil
}
