package get_settings

import (
	"context"

	"github.com/glowbook/booking-service/internal/service/professionals/models"
)

type ProfessionalsService interface {
	GetSettings(ctx context.Context, professionalID int64) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
