package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/glowbook/booking-service/internal/api/handlers"
	"github.com/glowbook/booking-service/internal/api/middleware"
	"github.com/glowbook/booking-service/internal/domain"
	getAvailableSlots "github.com/glowbook/booking-service/internal/usecase/get_available_slots"
	"github.com/glowbook/booking-service/pkg/ptr"
)

const (
	msgInvalidProfessionalID = "некорректный идентификатор профессионала"
	msgInvalidPeriod         = "некорректный период, ожидается YYYY-MM-DD"
	msgMissingAuth           = "требуется аутентификация"
	msgProfessionalNotFound  = "профессионал не найден"
	msgStorageUnavailable    = "сервис временно недоступен, попробуйте позже"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/slots
// Публичное расписание для страницы записи клиента
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := strconv.ParseInt(mux.Vars(r)["professionalId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}
	h.serve(w, r, professionalID, false)
}

// HandleOwner GET /api/v1/me/slots
// Расписание владельца со статусами и привязками к бронированиям
func (h *Handler) HandleOwner(w http.ResponseWriter, r *http.Request) {
	professionalID, ok := middleware.GetProfessionalID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingAuth)
		return
	}
	h.serve(w, r, professionalID, true)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, professionalID int64, owner bool) {
	from, to, err := parsePeriod(r)
	if err != nil {
		h.logger.Warn("GET slots - Invalid period for professional=%d: %v", professionalID, err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		ProfessionalID: professionalID,
		From:           from,
		To:             to,
		Owner:          owner,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		case errors.Is(err, getAvailableSlots.ErrProfessionalNotFound):
			h.logger.Warn("GET slots - Professional not found: professional_id=%d", professionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, getAvailableSlots.ErrStorageUnavailable):
			h.logger.Error("GET slots - Storage unavailable for professional=%d: %v", professionalID, err)
			handlers.RespondServiceUnavailable(w, msgStorageUnavailable)

		default:
			h.logger.Error("GET slots - Failed for professional=%d: %v", professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// parsePeriod читает опциональные query-параметры from и to
func parsePeriod(r *http.Request) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, nil, err
		}
		from = ptr.Ptr(t)
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, nil, err
		}
		// Обе границы включительные, хранилище фильтрует date <= to
		to = ptr.Ptr(t)
	}
	return from, to, nil
}
