package get_professional

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/glowbook/booking-service/internal/api/handlers"
	professionalsService "github.com/glowbook/booking-service/internal/service/professionals"
)

const (
	msgInvalidSlug = "некорректная ссылка страницы записи"
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

// Handle GET /api/v1/book/{slug}
// Публичный профиль для страницы записи клиента
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	if slug == "" {
		handlers.RespondBadRequest(w, msgInvalidSlug)
		return
	}

	profile, err := h.service.GetProfileBySlug(r.Context(), slug)
	if err != nil {
		switch {
		case errors.Is(err, professionalsService.ErrProfessionalNotFound):
			h.logger.Warn("GET /book/%s - Professional not found", slug)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /book/%s - Failed to fetch profile: %v", slug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, profile)
}
