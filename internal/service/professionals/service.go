package professionals

import (
	"context"
	"errors"
	"fmt"

	professionalRepo "github.com/glowbook/booking-service/internal/infra/storage/professional"
	"github.com/glowbook/booking-service/internal/service/professionals/models"
)

// Service сервис для работы с профилем и настройками профессионала
type Service struct {
	profRepo ProfessionalRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса профессионалов
func NewService(profRepo ProfessionalRepository, logger Logger) *Service {
	return &Service{
		profRepo: profRepo,
		logger:   logger,
	}
}

// GetProfileBySlug получает публичный профиль по slug страницы записи
func (s *Service) GetProfileBySlug(ctx context.Context, slug string) (*models.ProfileResponse, error) {
	s.logger.Info("GetProfileBySlug: fetching professional slug=%s", slug)

	prof, err := s.profRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			s.logger.Warn("GetProfileBySlug: professional slug=%s not found", slug)
			return nil, ErrProfessionalNotFound
		}
		s.logger.Error("GetProfileBySlug: repository error for slug=%s: %v", slug, err)
		return nil, fmt.Errorf("%w: GetProfileBySlug - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainProfile(prof), nil
}

// GetSettings получает настройки профессионала
func (s *Service) GetSettings(ctx context.Context, professionalID int64) (*models.SettingsResponse, error) {
	s.logger.Info("GetSettings: fetching settings for professional=%d", professionalID)

	prof, err := s.profRepo.GetByID(ctx, professionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			s.logger.Warn("GetSettings: professional id=%d not found", professionalID)
			return nil, ErrProfessionalNotFound
		}
		s.logger.Error("GetSettings: repository error for professional=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: GetSettings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSettings(prof), nil
}

// UpdateSchedule обновляет рабочие часы и буфер профессионала
// Уже созданные слоты не пересчитываются, новое расписание влияет
// только на последующую генерацию слотов и расчёт свободных окон
func (s *Service) UpdateSchedule(ctx context.Context, professionalID int64, req *models.UpdateScheduleRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateSchedule: updating schedule for professional=%d, buffer=%d",
		professionalID, req.BufferMinutes)

	if err := req.Validate(); err != nil {
		s.logger.Warn("UpdateSchedule: invalid schedule for professional=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.profRepo.UpdateSchedule(ctx, professionalID, req.WorkingHours, req.BufferMinutes); err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			s.logger.Warn("UpdateSchedule: professional id=%d not found", professionalID)
			return nil, ErrProfessionalNotFound
		}
		s.logger.Error("UpdateSchedule: repository error for professional=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: UpdateSchedule - repository error: %v", ErrInternal, err)
	}

	return s.GetSettings(ctx, professionalID)
}

// UpdateSettings обновляет настройки записи и уведомлений
func (s *Service) UpdateSettings(ctx context.Context, professionalID int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateSettings: updating settings for professional=%d", professionalID)

	if err := req.Validate(); err != nil {
		s.logger.Warn("UpdateSettings: invalid settings for professional=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.profRepo.UpdateSettings(ctx, professionalID, req.ToDomainSettings()); err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			s.logger.Warn("UpdateSettings: professional id=%d not found", professionalID)
			return nil, ErrProfessionalNotFound
		}
		s.logger.Error("UpdateSettings: repository error for professional=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	return s.GetSettings(ctx, professionalID)
}
