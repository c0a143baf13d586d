package get_settings

import (
	"errors"
	"net/http"

	"github.com/glowbook/booking-service/internal/api/handlers"
	"github.com/glowbook/booking-service/internal/api/middleware"
	professionalsService "github.com/glowbook/booking-service/internal/service/professionals"
)

const (
	msgMissingAuth = "требуется аутентификация"
	msgNotFound    = "профессионал не найден"
)

type Handler struct {
	service ProfessionalsService
	logger  Logger
}

func NewHandler(service ProfessionalsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/me/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, ok := middleware.GetProfessionalID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingAuth)
		return
	}

	settings, err := h.service.GetSettings(r.Context(), professionalID)
	if err != nil {
		switch {
		case errors.Is(err, professionalsService.ErrProfessionalNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /me/settings - Failed for professional=%d: %v", professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, settings)
}
