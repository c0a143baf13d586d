package get_professional_bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/glowbook/booking-service/internal/api/handlers"
	"github.com/glowbook/booking-service/internal/api/middleware"
	"github.com/glowbook/booking-service/internal/domain"
	bookingsService "github.com/glowbook/booking-service/internal/service/bookings"
	"github.com/glowbook/booking-service/internal/service/bookings/models"
)

const (
	msgMissingAuth   = "требуется аутентификация"
	msgInvalidFilter = "некорректные параметры фильтрации"
)

type Handler struct {
	service BookingsService
	logger  Logger
}

func NewHandler(service BookingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/me/bookings?from=...&to=...&status=...&includeInactive=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, ok := middleware.GetProfessionalID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingAuth)
		return
	}

	req := &models.GetProfessionalBookingsRequest{ProfessionalID: professionalID}

	query := r.URL.Query()
	if v := query.Get("from"); v != "" {
		t, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		req.StartDate = &t
	}
	if v := query.Get("to"); v != "" {
		t, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		req.EndDate = &t
	}
	if v := query.Get("status"); v != "" {
		req.Status = &v
	}
	req.IncludeInactive = query.Get("includeInactive") == "true"

	result, err := h.service.GetProfessionalBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /me/bookings - Failed for professional=%d: %v", professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
