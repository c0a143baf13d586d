package update_settings

import (
	"context"

	"github.com/glowbook/booking-service/internal/service/professionals/models"
)

type ProfessionalsService interface {
	UpdateSettings(ctx context.Context, professionalID int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
