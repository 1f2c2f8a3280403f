package send_signing_link

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HoldService/internal/api/handlers"
	sendLink "github.com/m04kA/SMC-HoldService/internal/usecase/send_signing_link"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidHoldID      = "некорректный идентификатор hold'а"
	msgInvalidChannel     = "некорректный канал доставки, ожидается sms или email"
	msgHoldNotFound       = "hold не найден"
	msgHoldNotSendable    = "отправка ссылки недоступна в текущем статусе"
	msgDeadlinePassed     = "срок подписания истек"
	msgRateLimitExceeded  = "исчерпан лимит отправок ссылки"
	msgSendConflict       = "конкурентная отправка, повторите запрос"
)

type Handler struct {
	useCase SendSigningLinkUseCase
	logger  Logger
}

func NewHandler(useCase SendSigningLinkUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/holds/{holdId}/send-link
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	holdID, err := strconv.ParseInt(mux.Vars(r)["holdId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /holds/{holdId}/send-link - Invalid hold id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHoldID)
		return
	}

	var req SendLinkRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /holds/%d/send-link - Invalid request body: %v", holdID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(holdID))
	if err != nil {
		switch {
		case errors.Is(err, sendLink.ErrHoldNotFound):
			h.logger.Warn("POST /holds/%d/send-link - Hold not found", holdID)
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, sendLink.ErrRateLimitExceeded):
			h.logger.Warn("POST /holds/%d/send-link - Send limit exceeded", holdID)
			handlers.RespondTooManyRequests(w, msgRateLimitExceeded)

		case errors.Is(err, sendLink.ErrDeadlinePassed):
			h.logger.Warn("POST /holds/%d/send-link - Signing deadline passed", holdID)
			handlers.RespondGone(w, msgDeadlinePassed)

		case errors.Is(err, sendLink.ErrHoldNotSendable):
			h.logger.Warn("POST /holds/%d/send-link - Hold not sendable: %v", holdID, err)
			handlers.RespondConflict(w, msgHoldNotSendable)

		case errors.Is(err, sendLink.ErrSendConflict):
			h.logger.Warn("POST /holds/%d/send-link - Concurrent send attempt", holdID)
			handlers.RespondConflict(w, msgSendConflict)

		case errors.Is(err, sendLink.ErrInvalidInput):
			h.logger.Warn("POST /holds/%d/send-link - Invalid input: %v", holdID, err)
			handlers.RespondBadRequest(w, msgInvalidChannel)

		default:
			h.logger.Error("POST /holds/%d/send-link - Failed to send link: %v", holdID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /holds/%d/send-link - Attempt %d recorded, delivered=%t",
		holdID, result.SendCount, result.Delivered)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
