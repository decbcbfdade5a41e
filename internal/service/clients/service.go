package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	clientsRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/clients"
	"github.com/bmwdroch/detailing-bot/internal/service/clients/models"
	"github.com/bmwdroch/detailing-bot/internal/validation"
)

// Service сервис для работы с клиентами
type Service struct {
	clientRepo   ClientRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса клиентов
func NewService(clientRepo ClientRepository, logger Logger) *Service {
	return &Service{
		clientRepo:   clientRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Register регистрирует нового клиента.
// Имя и телефон нормализуются валидаторами, telegram_id уникален.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.ClientResponse, error) {
	s.logger.Info("Register: registering client telegram_id=%d", req.TelegramID)

	name, err := validation.Name(req.Name)
	if err != nil {
		s.logger.Warn("Register: invalid name for telegram_id=%d: %v", req.TelegramID, err)
		return nil, err
	}

	phone, err := validation.Phone(req.Phone)
	if err != nil {
		s.logger.Warn("Register: invalid phone for telegram_id=%d: %v", req.TelegramID, err)
		return nil, err
	}

	client := &domain.Client{
		TelegramID: req.TelegramID,
		Name:       name,
		Phone:      phone,
		CreatedAt:  s.timeProvider.Now(),
	}

	created, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		if errors.Is(err, clientsRepo.ErrDuplicateClient) {
			s.logger.Warn("Register: client telegram_id=%d already exists", req.TelegramID)
			return nil, ErrClientExists
		}
		s.logger.Error("Register: repository error for telegram_id=%d: %v", req.TelegramID, err)
		return nil, fmt.Errorf("%w: Register - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Register: successfully registered client id=%d telegram_id=%d", created.ID, created.TelegramID)
	return models.FromDomainClient(created), nil
}

// GetByTelegramID получает клиента по telegram_id
func (s *Service) GetByTelegramID(ctx context.Context, telegramID int64) (*models.ClientResponse, error) {
	client, err := s.clientRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, clientsRepo.ErrClientNotFound) {
			return nil, ErrClientNotFound
		}
		s.logger.Error("GetByTelegramID: repository error for telegram_id=%d: %v", telegramID, err)
		return nil, fmt.Errorf("%w: GetByTelegramID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainClient(client), nil
}

// GetByID получает клиента по внутреннему ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ClientResponse, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, clientsRepo.ErrClientNotFound) {
			return nil, ErrClientNotFound
		}
		s.logger.Error("GetByID: repository error for client id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainClient(client), nil
}

// UpdateProfile изменяет имя и/или телефон клиента.
// Переданные поля проходят ту же валидацию, что и при регистрации.
func (s *Service) UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.ClientResponse, error) {
	s.logger.Info("UpdateProfile: updating client telegram_id=%d", req.TelegramID)

	var upd domain.ClientUpdate

	if req.Name != nil {
		name, err := validation.Name(*req.Name)
		if err != nil {
			s.logger.Warn("UpdateProfile: invalid name for telegram_id=%d: %v", req.TelegramID, err)
			return nil, err
		}
		upd.Name = &name
	}

	if req.Phone != nil {
		phone, err := validation.Phone(*req.Phone)
		if err != nil {
			s.logger.Warn("UpdateProfile: invalid phone for telegram_id=%d: %v", req.TelegramID, err)
			return nil, err
		}
		upd.Phone = &phone
	}

	if upd.IsEmpty() {
		s.logger.Warn("UpdateProfile: empty update for telegram_id=%d", req.TelegramID)
		return nil, ErrEmptyUpdate
	}

	if err := s.clientRepo.Update(ctx, req.TelegramID, upd); err != nil {
		if errors.Is(err, clientsRepo.ErrClientNotFound) {
			s.logger.Warn("UpdateProfile: client telegram_id=%d not found", req.TelegramID)
			return nil, ErrClientNotFound
		}
		s.logger.Error("UpdateProfile: repository error for telegram_id=%d: %v", req.TelegramID, err)
		return nil, fmt.Errorf("%w: UpdateProfile - repository error: %v", ErrInternal, err)
	}

	client, err := s.clientRepo.GetByTelegramID(ctx, req.TelegramID)
	if err != nil {
		s.logger.Error("UpdateProfile: failed to reload client telegram_id=%d: %v", req.TelegramID, err)
		return nil, fmt.Errorf("%w: UpdateProfile - reload client: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateProfile: successfully updated client id=%d telegram_id=%d", client.ID, client.TelegramID)
	return models.FromDomainClient(client), nil
}

// List получает всех клиентов
func (s *Service) List(ctx context.Context) ([]*models.ClientResponse, error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainClientList(clients), nil
}
