package create_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/glowbook/booking-service/internal/api/handlers"
	createBooking "github.com/glowbook/booking-service/internal/usecase/create_booking"
)

const (
	msgInvalidProfessionalID = "некорректный идентификатор профессионала"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidInput          = "некорректные данные бронирования"
	msgProfessionalNotFound  = "профессионал не найден"
	msgSlotNotFound          = "слот не найден"
	msgSlotConflict          = "выбранный слот уже занят"
	msgStorageUnavailable    = "сервис временно недоступен, попробуйте позже"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/professionals/{professionalId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := strconv.ParseInt(mux.Vars(r)["professionalId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /professionals/%d/bookings - Invalid request body: %v", professionalID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(professionalID))
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /professionals/%d/bookings - Invalid input: %v", professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrProfessionalNotFound):
			h.logger.Warn("POST /professionals/%d/bookings - Professional not found", professionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, createBooking.ErrSlotNotFound):
			h.logger.Warn("POST /professionals/%d/bookings - Slot not found: slot_id=%d", professionalID, req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /professionals/%d/bookings - Slot conflict: slot_id=%d", professionalID, req.SlotID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, createBooking.ErrStorageUnavailable):
			h.logger.Error("POST /professionals/%d/bookings - Storage unavailable: %v", professionalID, err)
			handlers.RespondServiceUnavailable(w, msgStorageUnavailable)

		default:
			h.logger.Error("POST /professionals/%d/bookings - Failed to create booking: %v", professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /professionals/%d/bookings - Booking created: booking_id=%d, slot_id=%d",
		professionalID, result.ID, result.SlotID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
