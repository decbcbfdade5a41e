package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	appointmentsRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/appointments"
	transactionsRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/transactions"
	"github.com/bmwdroch/detailing-bot/internal/service/finance/models"
	"github.com/bmwdroch/detailing-bot/internal/validation"
)

// Service сервис учета финансовых транзакций
type Service struct {
	transactionRepo TransactionRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса финансов
func NewService(
	transactionRepo TransactionRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		transactionRepo: transactionRepo,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// AddTransaction добавляет транзакцию прихода или расхода.
// Привязка к записи опциональна; существование записи
// проверяется в той же транзакции БД, что и вставка.
func (s *Service) AddTransaction(ctx context.Context, req *models.AddTransactionRequest) (*models.TransactionResponse, error) {
	s.logger.Info("AddTransaction: type=%q category=%q amount=%q", req.Type, req.Category, req.Amount)

	// 1. Валидация входных данных
	amount, err := validation.Amount(req.Amount)
	if err != nil {
		s.logger.Warn("AddTransaction: invalid amount %q: %v", req.Amount, err)
		return nil, err
	}

	transactionType, err := validation.TransactionType(req.Type)
	if err != nil {
		s.logger.Warn("AddTransaction: invalid type %q: %v", req.Type, err)
		return nil, err
	}

	category, err := validation.Category(req.Category)
	if err != nil {
		s.logger.Warn("AddTransaction: invalid category %q: %v", req.Category, err)
		return nil, err
	}

	transaction := &domain.Transaction{
		AppointmentID: req.AppointmentID,
		Amount:        amount,
		Type:          transactionType,
		Category:      category,
		Description:   strings.TrimSpace(req.Description),
		CreatedAt:     s.timeProvider.Now(),
	}

	// 2. Проверка существования записи и вставка атомарно
	var created *domain.Transaction
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if req.AppointmentID != nil {
			if _, err := s.appointmentRepo.GetByID(txCtx, *req.AppointmentID); err != nil {
				if errors.Is(err, appointmentsRepo.ErrAppointmentNotFound) {
					s.logger.Warn("AddTransaction: appointment id=%d not found", *req.AppointmentID)
					return ErrAppointmentNotFound
				}
				s.logger.Error("AddTransaction: failed to check appointment id=%d: %v", *req.AppointmentID, err)
				return fmt.Errorf("%w: AddTransaction - check appointment: %v", ErrInternal, err)
			}
		}

		created, err = s.transactionRepo.Create(txCtx, transaction)
		if err != nil {
			if errors.Is(err, transactionsRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			s.logger.Error("AddTransaction: repository error: %v", err)
			return fmt.Errorf("%w: AddTransaction - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3. Аудит созданной транзакции
	s.logger.Info("AddTransaction: created transaction id=%d type=%s amount=%s category=%q",
		created.ID, created.Type, created.Amount, created.Category)

	return models.FromDomainTransaction(created), nil
}

// GetByID получает транзакцию по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.TransactionResponse, error) {
	transaction, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, transactionsRepo.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		s.logger.Error("GetByID: repository error for transaction id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTransaction(transaction), nil
}

// GetByAppointment получает транзакции, привязанные к записи
func (s *Service) GetByAppointment(ctx context.Context, appointmentID int64) ([]*models.TransactionResponse, error) {
	transactions, err := s.transactionRepo.GetByAppointment(ctx, appointmentID)
	if err != nil {
		s.logger.Error("GetByAppointment: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: GetByAppointment - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTransactionList(transactions), nil
}

// GetByDateRange получает транзакции за период [from, to)
func (s *Service) GetByDateRange(ctx context.Context, from, to time.Time) ([]*models.TransactionResponse, error) {
	transactions, err := s.transactionRepo.GetByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Error("GetByDateRange: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetByDateRange - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTransactionList(transactions), nil
}

// CategorySummary считает обороты по категориям за период [from, to)
func (s *Service) CategorySummary(ctx context.Context, from, to time.Time) ([]*models.CategorySummaryResponse, error) {
	summaries, err := s.transactionRepo.CategorySummary(ctx, from, to)
	if err != nil {
		s.logger.Error("CategorySummary: repository error: %v", err)
		return nil, fmt.Errorf("%w: CategorySummary - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainCategorySummaries(summaries), nil
}
