package generate_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/glowbook/booking-service/internal/api/handlers"
	"github.com/glowbook/booking-service/internal/api/middleware"
	"github.com/glowbook/booking-service/internal/domain"
	generateSlots "github.com/glowbook/booking-service/internal/usecase/generate_slots"
)

const (
	msgMissingAuth        = "требуется аутентификация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidPeriod      = "некорректный период генерации"
	msgStorageUnavailable = "сервис временно недоступен, попробуйте позже"
)

// GenerateSlotsRequest HTTP request model
type GenerateSlotsRequest struct {
	From string `json:"from"` // "2026-09-14"
	To   string `json:"to"`   // "2026-09-20"
}

type Handler struct {
	useCase GenerateSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GenerateSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/me/slots/generate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, ok := middleware.GetProfessionalID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingAuth)
		return
	}

	var req GenerateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /me/slots/generate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	from, err := time.Parse(domain.DateFormat, req.From)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}
	to, err := time.Parse(domain.DateFormat, req.To)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &generateSlots.Request{
		ProfessionalID: professionalID,
		From:           from,
		To:             to,
	})
	if err != nil {
		switch {
		case errors.Is(err, generateSlots.ErrInvalidInput):
			h.logger.Warn("POST /me/slots/generate - Invalid period for professional=%d: %v", professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		case errors.Is(err, generateSlots.ErrStorageUnavailable):
			h.logger.Error("POST /me/slots/generate - Storage unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgStorageUnavailable)

		default:
			h.logger.Error("POST /me/slots/generate - Failed for professional=%d: %v", professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /me/slots/generate - Created %d slots for professional=%d",
		len(result.Created), professionalID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
