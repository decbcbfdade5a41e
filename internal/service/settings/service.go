package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	settingsRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/settings"
)

// Service сервис настроек вида ключ-значение
type Service struct {
	settingsRepo SettingsRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(settingsRepo SettingsRepository, logger Logger) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Get получает значение настройки по ключу
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	setting, err := s.settingsRepo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingNotFound) {
			return "", ErrSettingNotFound
		}
		s.logger.Error("Get: repository error for key=%q: %v", key, err)
		return "", fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return setting.Value, nil
}

// Set сохраняет значение настройки
func (s *Service) Set(ctx context.Context, key, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		s.logger.Warn("Set: empty value for key=%q", key)
		return ErrEmptyValue
	}

	if err := s.settingsRepo.Set(ctx, key, value, s.timeProvider.Now()); err != nil {
		s.logger.Error("Set: repository error for key=%q: %v", key, err)
		return fmt.Errorf("%w: Set - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Set: updated setting key=%q", key)
	return nil
}

// GetContacts возвращает контакты студии.
// Ключ засеивается миграцией; если его все же нет,
// возвращается значение по умолчанию.
func (s *Service) GetContacts(ctx context.Context) (string, error) {
	value, err := s.Get(ctx, domain.SettingContacts)
	if errors.Is(err, ErrSettingNotFound) {
		s.logger.Warn("GetContacts: contacts setting missing, using default")
		return domain.DefaultContacts, nil
	}
	if err != nil {
		return "", err
	}

	return value, nil
}

// SetContacts обновляет контакты студии
func (s *Service) SetContacts(ctx context.Context, value string) error {
	return s.Set(ctx, domain.SettingContacts, value)
}
