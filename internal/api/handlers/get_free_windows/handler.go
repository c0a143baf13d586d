package get_free_windows

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/glowbook/booking-service/internal/api/handlers"
	"github.com/glowbook/booking-service/internal/domain"
	getFreeWindows "github.com/glowbook/booking-service/internal/usecase/get_free_windows"
)

const (
	msgInvalidProfessionalID = "некорректный идентификатор профессионала"
	msgInvalidPeriod         = "некорректный период, ожидаются from и to в формате YYYY-MM-DD"
	msgProfessionalNotFound  = "профессионал не найден"
	msgStorageUnavailable    = "сервис временно недоступен, попробуйте позже"
)

type Handler struct {
	useCase GetFreeWindowsUseCase
	logger  Logger
}

func NewHandler(useCase GetFreeWindowsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/free-windows?from=...&to=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := strconv.ParseInt(mux.Vars(r)["professionalId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	from, err := time.Parse(domain.DateFormat, r.URL.Query().Get("from"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}
	to, err := time.Parse(domain.DateFormat, r.URL.Query().Get("to"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getFreeWindows.Request{
		ProfessionalID: professionalID,
		From:           from,
		To:             to,
	})
	if err != nil {
		switch {
		case errors.Is(err, getFreeWindows.ErrInvalidInput):
			h.logger.Warn("GET /professionals/%d/free-windows - Invalid period: %v", professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		case errors.Is(err, getFreeWindows.ErrProfessionalNotFound):
			h.logger.Warn("GET /professionals/%d/free-windows - Professional not found", professionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, getFreeWindows.ErrStorageUnavailable):
			h.logger.Error("GET /professionals/%d/free-windows - Storage unavailable: %v", professionalID, err)
			handlers.RespondServiceUnavailable(w, msgStorageUnavailable)

		default:
			h.logger.Error("GET /professionals/%d/free-windows - Failed: %v", professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
