package get_clients

import (
	"context"

	clientsService "github.com/glowbook/booking-service/internal/service/clients"
)

type ClientsService interface {
	GetByProfessional(ctx context.Context, professionalID int64) (*clientsService.ClientListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
