package decide_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/glowbook/booking-service/internal/api/handlers"
	"github.com/glowbook/booking-service/internal/api/middleware"
	decideBooking "github.com/glowbook/booking-service/internal/usecase/decide_booking"
)

const (
	msgInvalidBookingID   = "некорректный идентификатор бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDecision    = "ожидается решение approve или reject"
	msgMissingAuth        = "требуется аутентификация"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "нет доступа к этому бронированию"
	msgAlreadyDecided     = "по заявке уже принято решение"
	msgStorageUnavailable = "сервис временно недоступен, попробуйте позже"
)

// DecideBookingRequest HTTP request model
type DecideBookingRequest struct {
	Decision string `json:"decision"` // "approve" или "reject"
}

type Handler struct {
	useCase DecideBookingUseCase
	logger  Logger
}

func NewHandler(useCase DecideBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/me/bookings/{bookingId}/decision
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	professionalID, ok := middleware.GetProfessionalID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingAuth)
		return
	}

	var req DecideBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /me/bookings/%d/decision - Invalid request body: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &decideBooking.Request{
		BookingID:      bookingID,
		ProfessionalID: professionalID,
		Decision:       decideBooking.Decision(req.Decision),
	})
	if err != nil {
		switch {
		case errors.Is(err, decideBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /me/bookings/%d/decision - Invalid decision %q", bookingID, req.Decision)
			handlers.RespondBadRequest(w, msgInvalidDecision)

		case errors.Is(err, decideBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /me/bookings/%d/decision - Booking not found", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, decideBooking.ErrAccessDenied):
			h.logger.Warn("PATCH /me/bookings/%d/decision - Access denied for professional=%d", bookingID, professionalID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, decideBooking.ErrInvalidTransition):
			h.logger.Warn("PATCH /me/bookings/%d/decision - Already decided: %v", bookingID, err)
			handlers.RespondConflict(w, msgAlreadyDecided)

		case errors.Is(err, decideBooking.ErrStorageUnavailable):
			h.logger.Error("PATCH /me/bookings/%d/decision - Storage unavailable: %v", bookingID, err)
			handlers.RespondServiceUnavailable(w, msgStorageUnavailable)

		default:
			h.logger.Error("PATCH /me/bookings/%d/decision - Failed: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /me/bookings/%d/decision - Booking is now %s", bookingID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
