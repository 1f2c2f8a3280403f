package get_hold

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HoldService/internal/api/handlers"
	holdsService "github.com/m04kA/SMC-HoldService/internal/service/holds"
)

const (
	msgInvalidHoldID = "некорректный идентификатор hold'а"
	msgHoldNotFound  = "hold не найден"
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

// Handle GET /api/v1/holds/{holdId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	holdID, err := strconv.ParseInt(mux.Vars(r)["holdId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /holds/{holdId} - Invalid hold id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHoldID)
		return
	}

	result, err := h.service.GetByID(r.Context(), holdID)
	if err != nil {
		switch {
		case errors.Is(err, holdsService.ErrHoldNotFound):
			h.logger.Warn("GET /holds/%d - Hold not found", holdID)
			handlers.RespondNotFound(w, msgHoldNotFound)

		default:
			h.logger.Error("GET /holds/%d - Failed to fetch hold: %v", holdID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /holds/%d - Hold fetched successfully, status=%s", holdID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
