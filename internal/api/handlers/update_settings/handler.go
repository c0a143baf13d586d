package update_settings

import (
	"errors"
	"net/http"

	"github.com/glowbook/booking-service/internal/api/handlers"
	"github.com/glowbook/booking-service/internal/api/middleware"
	professionalsService "github.com/glowbook/booking-service/internal/service/professionals"
	"github.com/glowbook/booking-service/internal/service/professionals/models"
)

const (
	msgMissingAuth        = "требуется аутентификация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSettings    = "некорректные настройки"
	msgNotFound           = "профессионал не найден"
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

// Handle PUT /api/v1/me/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, ok := middleware.GetProfessionalID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingAuth)
		return
	}

	var req models.UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /me/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	settings, err := h.service.UpdateSettings(r.Context(), professionalID, &req)
	if err != nil {
		switch {
		case errors.Is(err, professionalsService.ErrInvalidInput):
			h.logger.Warn("PUT /me/settings - Invalid settings for professional=%d: %v", professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidSettings)

		case errors.Is(err, professionalsService.ErrProfessionalNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("PUT /me/settings - Failed for professional=%d: %v", professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /me/settings - Settings updated for professional=%d", professionalID)
	handlers.RespondJSON(w, http.StatusOK, settings)
}
