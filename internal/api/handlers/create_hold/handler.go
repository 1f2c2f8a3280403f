package create_hold

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-HoldService/internal/api/handlers"
	createHold "github.com/m04kA/SMC-HoldService/internal/usecase/create_hold"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput       = "некорректные данные запроса"
	msgDateInPast         = "дата мероприятия уже прошла"
	msgSlotUnavailable    = "выбранный слот уже занят"
)

type Handler struct {
	useCase CreateHoldUseCase
	logger  Logger
}

func NewHandler(useCase CreateHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/holds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateHoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /holds - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /holds - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createHold.ErrCapacityExhausted):
			h.logger.Warn("POST /holds - Slot unavailable: date=%s, slot=%s, station=%d",
				req.EventDate, req.TimeSlot, req.StationID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, createHold.ErrInvalidDate):
			h.logger.Warn("POST /holds - Event date in the past: date=%s", req.EventDate)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createHold.ErrInvalidInput):
			h.logger.Warn("POST /holds - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /holds - Failed to create hold: date=%s, slot=%s, station=%d, error=%v",
				req.EventDate, req.TimeSlot, req.StationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /holds - Hold created successfully: hold_id=%d, slot=%s %s, station=%d",
		result.ID, req.EventDate, req.TimeSlot, req.StationID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
