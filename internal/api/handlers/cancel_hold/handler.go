package cancel_hold

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HoldService/internal/api/handlers"
	"github.com/m04kA/SMC-HoldService/internal/api/middleware"
	holdsService "github.com/m04kA/SMC-HoldService/internal/service/holds"
	"github.com/m04kA/SMC-HoldService/internal/service/holds/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidHoldID      = "некорректный идентификатор hold'а"
	msgMissingUserID      = "не удалось определить оператора"
	msgReasonRequired     = "причина отмены обязательна"
	msgHoldNotFound       = "hold не найден"
	msgCannotCancel       = "hold уже в терминальном статусе"
)

type Handler struct {
	service HoldsService
	logger  Logger
}

func NewHandler(service HoldsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/holds/{holdId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	holdID, err := strconv.ParseInt(mux.Vars(r)["holdId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /holds/{holdId}/cancel - Invalid hold id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHoldID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("PATCH /holds/%d/cancel - Missing user ID", holdID)
		handlers.RespondForbidden(w, msgMissingUserID)
		return
	}

	var req models.CancelHoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /holds/%d/cancel - Invalid request body: %v", holdID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.Cancel(r.Context(), holdID, &req); err != nil {
		switch {
		case errors.Is(err, holdsService.ErrHoldNotFound):
			h.logger.Warn("PATCH /holds/%d/cancel - Hold not found", holdID)
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, holdsService.ErrCannotCancel):
			h.logger.Warn("PATCH /holds/%d/cancel - Hold cannot be cancelled", holdID)
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, holdsService.ErrInvalidInput):
			h.logger.Warn("PATCH /holds/%d/cancel - Invalid input: %v", holdID, err)
			handlers.RespondBadRequest(w, msgReasonRequired)

		default:
			h.logger.Error("PATCH /holds/%d/cancel - Failed to cancel hold: %v", holdID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /holds/%d/cancel - Hold cancelled by user_id=%d", holdID, userID)
	w.WriteHeader(http.StatusNoContent)
}
