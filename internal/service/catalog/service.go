package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	servicesRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/services"
	"github.com/bmwdroch/detailing-bot/internal/service/catalog/models"
	"github.com/bmwdroch/detailing-bot/internal/validation"
)

// Service сервис каталога услуг
type Service struct {
	serviceRepo  ServiceRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, logger Logger) *Service {
	return &Service{
		serviceRepo:  serviceRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Create добавляет новую услугу в каталог.
// Название уникально, новая услуга сразу активна.
func (s *Service) Create(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: creating service name=%q", req.Name)

	name, err := validation.ServiceName(req.Name)
	if err != nil {
		s.logger.Warn("Create: invalid service name %q: %v", req.Name, err)
		return nil, err
	}

	description, err := validation.ServiceDescription(req.Description)
	if err != nil {
		s.logger.Warn("Create: invalid description for service %q: %v", name, err)
		return nil, err
	}

	price, err := validation.ServicePrice(req.Price)
	if err != nil {
		s.logger.Warn("Create: invalid price %q for service %q: %v", req.Price, name, err)
		return nil, err
	}

	if err := validation.ServiceDuration(req.DurationMinutes); err != nil {
		s.logger.Warn("Create: invalid duration %d for service %q: %v", req.DurationMinutes, name, err)
		return nil, err
	}

	now := s.timeProvider.Now()
	service := &domain.Service{
		Name:            name,
		Description:     description,
		Price:           price,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.serviceRepo.Create(ctx, service)
	if err != nil {
		if errors.Is(err, servicesRepo.ErrDuplicateService) {
			s.logger.Warn("Create: service name=%q already exists", name)
			return nil, ErrServiceExists
		}
		s.logger.Error("Create: repository error for service %q: %v", name, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created service id=%d name=%q", created.ID, created.Name)
	return models.FromDomainService(created), nil
}

// Update изменяет услугу; переданные поля проходят валидацию создания
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: updating service id=%d", id)

	var upd domain.ServiceUpdate

	if req.Name != nil {
		name, err := validation.ServiceName(*req.Name)
		if err != nil {
			s.logger.Warn("Update: invalid name %q for service id=%d: %v", *req.Name, id, err)
			return nil, err
		}
		upd.Name = &name
	}

	if req.Description != nil {
		description, err := validation.ServiceDescription(*req.Description)
		if err != nil {
			s.logger.Warn("Update: invalid description for service id=%d: %v", id, err)
			return nil, err
		}
		upd.Description = &description
	}

	if req.Price != nil {
		price, err := validation.ServicePrice(*req.Price)
		if err != nil {
			s.logger.Warn("Update: invalid price %q for service id=%d: %v", *req.Price, id, err)
			return nil, err
		}
		upd.Price = &price
	}

	if req.DurationMinutes != nil {
		if err := validation.ServiceDuration(*req.DurationMinutes); err != nil {
			s.logger.Warn("Update: invalid duration %d for service id=%d: %v", *req.DurationMinutes, id, err)
			return nil, err
		}
		upd.DurationMinutes = req.DurationMinutes
	}

	upd.IsActive = req.IsActive

	if upd.IsEmpty() {
		s.logger.Warn("Update: empty update for service id=%d", id)
		return nil, ErrEmptyUpdate
	}

	if err := s.serviceRepo.Update(ctx, id, upd, s.timeProvider.Now()); err != nil {
		switch {
		case errors.Is(err, servicesRepo.ErrServiceNotFound):
			s.logger.Warn("Update: service id=%d not found", id)
			return nil, ErrServiceNotFound
		case errors.Is(err, servicesRepo.ErrDuplicateService):
			s.logger.Warn("Update: name conflict for service id=%d", id)
			return nil, ErrServiceExists
		default:
			s.logger.Error("Update: repository error for service id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
	}

	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Update: failed to reload service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - reload service: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated service id=%d name=%q", service.ID, service.Name)
	return models.FromDomainService(service), nil
}

// Deactivate скрывает услугу из каталога, не удаляя ее.
// История записей на услугу сохраняется.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	inactive := false
	_, err := s.Update(ctx, id, &models.UpdateServiceRequest{IsActive: &inactive})
	return err
}

// GetByID получает услугу по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ServiceResponse, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, servicesRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainService(service), nil
}

// GetByName получает услугу по точному названию
func (s *Service) GetByName(ctx context.Context, name string) (*models.ServiceResponse, error) {
	service, err := s.serviceRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, servicesRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByName: repository error for service %q: %v", name, err)
		return nil, fmt.Errorf("%w: GetByName - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainService(service), nil
}

// GetActive получает активные услуги каталога
func (s *Service) GetActive(ctx context.Context) ([]*models.ServiceResponse, error) {
	services, err := s.serviceRepo.GetActive(ctx)
	if err != nil {
		s.logger.Error("GetActive: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetActive - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(services), nil
}

// GetAll получает все услуги, включая скрытые
func (s *Service) GetAll(ctx context.Context) ([]*models.ServiceResponse, error) {
	services, err := s.serviceRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error("GetAll: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetAll - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(services), nil
}
