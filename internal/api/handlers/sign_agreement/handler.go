package sign_agreement

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HoldService/internal/api/handlers"
	signAgreement "github.com/m04kA/SMC-HoldService/internal/usecase/sign_agreement"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные запроса"
	msgHoldNotFound       = "ссылка на подписание недействительна"
	msgHoldNotSignable    = "подписание недоступно в текущем статусе"
	msgDeadlinePassed     = "срок подписания истек"
)

type Handler struct {
	useCase SignAgreementUseCase
	logger  Logger
}

func NewHandler(useCase SignAgreementUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/signing/{token}/agreements
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var req SignAgreementRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /signing/{token}/agreements - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(token))
	if err != nil {
		switch {
		case errors.Is(err, signAgreement.ErrHoldNotFound):
			// Токен не раскрываем в логах целиком
			h.logger.Warn("POST /signing/{token}/agreements - Unknown signing token")
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, signAgreement.ErrDeadlinePassed):
			h.logger.Warn("POST /signing/{token}/agreements - Signing deadline passed")
			handlers.RespondGone(w, msgDeadlinePassed)

		case errors.Is(err, signAgreement.ErrHoldNotSignable):
			h.logger.Warn("POST /signing/{token}/agreements - Hold not signable: %v", err)
			handlers.RespondConflict(w, msgHoldNotSignable)

		case errors.Is(err, signAgreement.ErrInvalidInput):
			h.logger.Warn("POST /signing/{token}/agreements - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /signing/{token}/agreements - Failed to sign agreement: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /signing/{token}/agreements - Agreement %s signed for hold_id=%d, status=%s, alreadySigned=%t",
		result.AgreementType, result.HoldID, result.HoldStatus, result.AlreadySigned)

	// Повтор запроса на уже подписанный тип - идемпотентный успех
	status := http.StatusCreated
	if result.AlreadySigned {
		status = http.StatusOK
	}
	handlers.RespondJSON(w, status, FromUseCaseResponse(result))
}
