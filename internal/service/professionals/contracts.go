package professionals

import (
	"context"

	"github.com/glowbook/booking-service/internal/domain"
)

// ProfessionalRepository интерфейс репозитория профессионалов
type ProfessionalRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Professional, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Professional, error)
	UpdateSchedule(ctx context.Context, id int64, hours domain.WeekSchedule, bufferMinutes int) error
	UpdateSettings(ctx context.Context, id int64, settings domain.ProfessionalSettings) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
