package delete_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/glowbook/booking-service/internal/api/handlers"
	"github.com/glowbook/booking-service/internal/api/middleware"
	deleteSlot "github.com/glowbook/booking-service/internal/usecase/delete_slot"
)

const (
	msgInvalidSlotID      = "некорректный идентификатор слота"
	msgMissingAuth        = "требуется аутентификация"
	msgNotFound           = "слот не найден"
	msgForbidden          = "нет доступа к этому слоту"
	msgSlotInUse          = "слот с активным бронированием удалить нельзя"
	msgStorageUnavailable = "сервис временно недоступен, попробуйте позже"
)

type Handler struct {
	useCase DeleteSlotUseCase
	logger  Logger
}

func NewHandler(useCase DeleteSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/me/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	professionalID, ok := middleware.GetProfessionalID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingAuth)
		return
	}

	if err := h.useCase.Execute(r.Context(), &deleteSlot.Request{
		SlotID:         slotID,
		ProfessionalID: professionalID,
	}); err != nil {
		switch {
		case errors.Is(err, deleteSlot.ErrSlotNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, deleteSlot.ErrAccessDenied):
			h.logger.Warn("DELETE /me/slots/%d - Access denied for professional=%d", slotID, professionalID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, deleteSlot.ErrSlotInUse):
			h.logger.Warn("DELETE /me/slots/%d - Slot in use", slotID)
			handlers.RespondConflict(w, msgSlotInUse)

		case errors.Is(err, deleteSlot.ErrStorageUnavailable):
			h.logger.Error("DELETE /me/slots/%d - Storage unavailable: %v", slotID, err)
			handlers.RespondServiceUnavailable(w, msgStorageUnavailable)

		default:
			h.logger.Error("DELETE /me/slots/%d - Failed: %v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /me/slots/%d - Slot deleted by professional=%d", slotID, professionalID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
