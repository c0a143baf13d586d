package get_professional

import (
	"context"

	"github.com/glowbook/booking-service/internal/service/professionals/models"
)

type ProfessionalsService interface {
	GetProfileBySlug(ctx context.Context, slug string) (*models.ProfileResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
