package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	appointmentsRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/appointments"
	"github.com/bmwdroch/detailing-bot/internal/service/appointments/models"
	"github.com/bmwdroch/detailing-bot/internal/validation"
	"github.com/bmwdroch/detailing-bot/pkg/ptr"
)

// Service управляет жизненным циклом записей.
// Создание и перенос записей живут в отдельных use case,
// сервис отвечает за смены статуса и чтение.
type Service struct {
	appointmentRepo AppointmentRepository
	transactionRepo TransactionRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	transactionRepo TransactionRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		transactionRepo: transactionRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// UpdateStatus меняет статус записи и возвращает предыдущий.
// Неизвестный статус отклоняется валидацией до проверки переходов,
// недопустимый переход - с ErrInvalidTransition. Уведомления
// остаются на вызывающей стороне.
func (s *Service) UpdateStatus(ctx context.Context, req *models.UpdateStatusRequest) (*models.UpdateStatusResponse, error) {
	s.logger.Info("UpdateStatus: appointment id=%d target status=%q actor=%s", req.ID, req.Status, req.Actor)

	// 1. Валидация целевого статуса до любых проверок состояния
	target, err := validation.Status(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: unknown status %q for appointment id=%d: %v", req.Status, req.ID, err)
		return nil, err
	}

	// 2. Проверка перехода и запись нового статуса в одной транзакции
	var previous domain.AppointmentStatus
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(txCtx, req.ID)
		if err != nil {
			if errors.Is(err, appointmentsRepo.ErrAppointmentNotFound) {
				s.logger.Warn("UpdateStatus: appointment id=%d not found", req.ID)
				return ErrAppointmentNotFound
			}
			s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", req.ID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		if !appointment.Status.CanTransitionTo(target) {
			s.logger.Warn("UpdateStatus: transition %s -> %s rejected for appointment id=%d",
				appointment.Status, target, req.ID)
			return ErrInvalidTransition
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, req.ID, target, s.timeProvider.Now()); err != nil {
			if errors.Is(err, appointmentsRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			s.logger.Error("UpdateStatus: failed to update appointment id=%d: %v", req.ID, err)
			return fmt.Errorf("%w: UpdateStatus - update error: %v", ErrInternal, err)
		}

		previous = appointment.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3. Аудит успешного перехода
	s.logger.Info("UpdateStatus: appointment id=%d status %s -> %s by %s", req.ID, previous, target, req.Actor)

	return &models.UpdateStatusResponse{
		ID:             req.ID,
		PreviousStatus: string(previous),
		Status:         string(target),
	}, nil
}

// Complete завершает запись и, по запросу, атомарно фиксирует
// доходную транзакцию на цену услуги. Привязка дохода к завершению -
// бизнес-соглашение: обычный UpdateStatus транзакций не создает.
func (s *Service) Complete(ctx context.Context, req *models.CompleteRequest) (*models.CompleteResponse, error) {
	s.logger.Info("Complete: appointment id=%d actor=%s record_income=%t", req.ID, req.Actor, req.RecordIncome)

	// 1. Валидация категории дохода
	category := req.Category
	if req.RecordIncome {
		if category == "" {
			category = domain.CategoryServices
		}
		validated, err := validation.Category(category)
		if err != nil {
			s.logger.Warn("Complete: invalid category %q for appointment id=%d: %v", category, req.ID, err)
			return nil, err
		}
		category = validated
	}

	// 2. Переход и транзакция в одной транзакции БД
	var previous domain.AppointmentStatus
	var created *domain.Transaction
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(txCtx, req.ID)
		if err != nil {
			if errors.Is(err, appointmentsRepo.ErrAppointmentNotFound) {
				s.logger.Warn("Complete: appointment id=%d not found", req.ID)
				return ErrAppointmentNotFound
			}
			s.logger.Error("Complete: repository error for appointment id=%d: %v", req.ID, err)
			return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
		}

		if !appointment.Status.CanTransitionTo(domain.StatusCompleted) {
			s.logger.Warn("Complete: transition %s -> %s rejected for appointment id=%d",
				appointment.Status, domain.StatusCompleted, req.ID)
			return ErrInvalidTransition
		}

		now := s.timeProvider.Now()
		if err := s.appointmentRepo.UpdateStatus(txCtx, req.ID, domain.StatusCompleted, now); err != nil {
			if errors.Is(err, appointmentsRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			s.logger.Error("Complete: failed to update appointment id=%d: %v", req.ID, err)
			return fmt.Errorf("%w: Complete - update error: %v", ErrInternal, err)
		}

		previous = appointment.Status

		if req.RecordIncome {
			transaction := &domain.Transaction{
				AppointmentID: ptr.Ptr(appointment.ID),
				Amount:        appointment.ServicePrice,
				Type:          domain.TransactionIncome,
				Category:      category,
				Description:   fmt.Sprintf("Оплата услуги %q, запись #%d", appointment.ServiceName, appointment.ID),
				CreatedAt:     now,
			}

			created, err = s.transactionRepo.Create(txCtx, transaction)
			if err != nil {
				s.logger.Error("Complete: failed to create income transaction for appointment id=%d: %v", req.ID, err)
				return fmt.Errorf("%w: Complete - create transaction: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3. Аудит перехода и созданной транзакции
	s.logger.Info("Complete: appointment id=%d status %s -> %s by %s",
		req.ID, previous, domain.StatusCompleted, req.Actor)

	resp := &models.CompleteResponse{
		ID:             req.ID,
		PreviousStatus: string(previous),
		Status:         string(domain.StatusCompleted),
	}

	if created != nil {
		s.logger.Info("Complete: recorded income transaction id=%d amount=%s for appointment id=%d by %s",
			created.ID, created.Amount, req.ID, req.Actor)
		resp.Transaction = &models.TransactionInfo{
			ID:       created.ID,
			Amount:   created.Amount,
			Type:     string(created.Type),
			Category: created.Category,
		}
	}

	return resp, nil
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentsRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appointment), nil
}

// GetByClient получает историю записей клиента
func (s *Service) GetByClient(ctx context.Context, clientID int64) ([]*models.AppointmentResponse, error) {
	appointments, err := s.appointmentRepo.GetByClient(ctx, clientID)
	if err != nil {
		s.logger.Error("GetByClient: repository error for client id=%d: %v", clientID, err)
		return nil, fmt.Errorf("%w: GetByClient - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(appointments), nil
}

// GetUpcoming получает будущие записи в статусах pending и confirmed
func (s *Service) GetUpcoming(ctx context.Context) ([]*models.AppointmentResponse, error) {
	appointments, err := s.appointmentRepo.GetUpcoming(ctx, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("GetUpcoming: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetUpcoming - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(appointments), nil
}

// List получает записи по фильтру с пагинацией
func (s *Service) List(ctx context.Context, req *models.ListRequest) ([]*models.AppointmentResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, err
	}

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(appointments), nil
}
