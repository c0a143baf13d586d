package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glowbook/booking-service/internal/domain"
)

var (
	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

// ClientRepository интерфейс репозитория клиентской базы
type ClientRepository interface {
	GetByProfessional(ctx context.Context, professionalID int64) ([]*domain.Client, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ClientResponse клиент в ответе сервиса
type ClientResponse struct {
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone,omitempty"`
	TotalBookings int        `json:"totalBookings"`
	LastVisit     *time.Time `json:"lastVisit,omitempty"`
}

// ClientListResponse клиентская база профессионала
type ClientListResponse struct {
	Clients []ClientResponse `json:"clients"`
	Total   int              `json:"total"`
}

// Service сервис клиентской базы профессионала
// База выводится из истории бронирований, отдельной регистрации клиентов нет
type Service struct {
	clientRepo ClientRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса клиентов
func NewService(clientRepo ClientRepository, logger Logger) *Service {
	return &Service{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// GetByProfessional получает клиентскую базу профессионала
func (s *Service) GetByProfessional(ctx context.Context, professionalID int64) (*ClientListResponse, error) {
	s.logger.Info("GetByProfessional: fetching clients for professional=%d", professionalID)

	list, err := s.clientRepo.GetByProfessional(ctx, professionalID)
	if err != nil {
		s.logger.Error("GetByProfessional: repository error for professional=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: GetByProfessional - repository error: %v", ErrInternal, err)
	}

	items := make([]ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, ClientResponse{
			Name:          c.Name,
			Email:         c.Email,
			Phone:         c.Phone,
			TotalBookings: c.TotalBookings,
			LastVisit:     c.LastVisit,
		})
	}

	s.logger.Info("GetByProfessional: fetched %d clients for professional=%d", len(items), professionalID)
	return &ClientListResponse{Clients: items, Total: len(items)}, nil
}
