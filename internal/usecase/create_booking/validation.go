package create_booking

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/glowbook/booking-service/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalID must be positive", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ClientName) == "" {
		return fmt.Errorf("%w: clientName is required", ErrInvalidInput)
	}
	if len(req.ClientName) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: clientName is too long", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ClientEmail) == "" {
		return fmt.Errorf("%w: clientEmail is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(req.ClientEmail); err != nil {
		return fmt.Errorf("%w: invalid clientEmail format", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Service) == "" {
		return fmt.Errorf("%w: service is required", ErrInvalidInput)
	}
	if len(req.Service) > domain.MaxServiceNameLength {
		return fmt.Errorf("%w: service is too long", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are too long", ErrInvalidInput)
	}

	return nil
}
