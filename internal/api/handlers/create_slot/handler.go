package create_slot

import (
	"errors"
	"net/http"
	"time"

	"github.com/glowbook/booking-service/internal/api/handlers"
	"github.com/glowbook/booking-service/internal/api/middleware"
	"github.com/glowbook/booking-service/internal/domain"
	createSlot "github.com/glowbook/booking-service/internal/usecase/create_slot"
	"github.com/glowbook/booking-service/pkg/types"
)

const (
	msgMissingAuth        = "требуется аутентификация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректная дата, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректное время, ожидается HH:MM"
	msgInvalidSlot        = "некорректные параметры слота"
	msgSlotOverlap        = "слот пересекается с существующим"
	msgStorageUnavailable = "сервис временно недоступен, попробуйте позже"
)

// CreateSlotRequest HTTP request model
type CreateSlotRequest struct {
	Date      string `json:"date"`      // "2026-09-14"
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "11:00"
}

type Handler struct {
	useCase CreateSlotUseCase
	logger  Logger
}

func NewHandler(useCase CreateSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/me/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, ok := middleware.GetProfessionalID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingAuth)
		return
	}

	var req CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /me/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}
	endTime, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &createSlot.Request{
		ProfessionalID: professionalID,
		Date:           date,
		StartTime:      startTime,
		EndTime:        endTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, createSlot.ErrInvalidInput):
			h.logger.Warn("POST /me/slots - Invalid input for professional=%d: %v", professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, createSlot.ErrSlotOverlap):
			h.logger.Warn("POST /me/slots - Overlap for professional=%d: %s %s-%s",
				professionalID, req.Date, req.StartTime, req.EndTime)
			handlers.RespondConflict(w, msgSlotOverlap)

		case errors.Is(err, createSlot.ErrStorageUnavailable):
			h.logger.Error("POST /me/slots - Storage unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgStorageUnavailable)

		default:
			h.logger.Error("POST /me/slots - Failed for professional=%d: %v", professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /me/slots - Slot created: slot_id=%d, professional=%d", result.ID, professionalID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
