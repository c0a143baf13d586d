package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/glowbook/booking-service/internal/api/handlers"
	"github.com/glowbook/booking-service/internal/api/middleware"
	cancelBooking "github.com/glowbook/booking-service/internal/usecase/cancel_booking"
)

const (
	msgInvalidBookingID     = "некорректный идентификатор бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidInput         = "некорректные данные отмены"
	msgMissingAuth          = "требуется аутентификация"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "нет доступа к этому бронированию"
	msgCancellationDisabled = "профессионал не разрешает отмену подтверждённых записей"
	msgAlreadyTerminal      = "бронирование уже завершено"
	msgStorageUnavailable   = "сервис временно недоступен, попробуйте позже"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleClient PATCH /api/v1/bookings/{bookingId}/cancel
// Отмена клиентом по ссылке из письма-подтверждения
func (h *Handler) HandleClient(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, cancelBooking.ActorClient, 0)
}

// HandleProfessional PATCH /api/v1/me/bookings/{bookingId}/cancel
func (h *Handler) HandleProfessional(w http.ResponseWriter, r *http.Request) {
	professionalID, ok := middleware.GetProfessionalID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingAuth)
		return
	}
	h.serve(w, r, cancelBooking.ActorProfessional, professionalID)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, actor cancelBooking.Actor, professionalID int64) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH bookings/%d/cancel - Invalid request body: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelBooking.Request{
		BookingID:      bookingID,
		Actor:          actor,
		ProfessionalID: professionalID,
		Reason:         req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelBooking.ErrInvalidInput):
			h.logger.Warn("PATCH bookings/%d/cancel - Invalid input: %v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, cancelBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH bookings/%d/cancel - Booking not found", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancelBooking.ErrAccessDenied):
			h.logger.Warn("PATCH bookings/%d/cancel - Access denied for professional=%d", bookingID, professionalID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancelBooking.ErrCancellationDisabled):
			h.logger.Warn("PATCH bookings/%d/cancel - Cancellations disabled", bookingID)
			handlers.RespondForbidden(w, msgCancellationDisabled)

		case errors.Is(err, cancelBooking.ErrInvalidTransition):
			h.logger.Warn("PATCH bookings/%d/cancel - Already terminal: %v", bookingID, err)
			handlers.RespondConflict(w, msgAlreadyTerminal)

		case errors.Is(err, cancelBooking.ErrStorageUnavailable):
			h.logger.Error("PATCH bookings/%d/cancel - Storage unavailable: %v", bookingID, err)
			handlers.RespondServiceUnavailable(w, msgStorageUnavailable)

		default:
			h.logger.Error("PATCH bookings/%d/cancel - Failed: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH bookings/%d/cancel - Booking cancelled by %s", bookingID, actor)
	handlers.RespondJSON(w, http.StatusOK, result)
}
