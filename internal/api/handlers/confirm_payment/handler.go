package confirm_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-HoldService/internal/api/handlers"
	confirmPayment "github.com/m04kA/SMC-HoldService/internal/usecase/confirm_payment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные запроса"
	msgHoldNotFound       = "hold не найден"
	msgHoldNotPayable     = "hold не ожидает оплату"
	msgDeadlinePassed     = "срок оплаты истек"
	msgRefMismatch        = "hold уже подтвержден с другим платежным референсом"
)

type Handler struct {
	useCase ConfirmPaymentUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/webhooks/payment-confirmed
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req PaymentWebhookRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /webhooks/payment-confirmed - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, confirmPayment.ErrHoldNotFound):
			h.logger.Warn("POST /webhooks/payment-confirmed - Hold not found: hold_id=%d", req.HoldID)
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, confirmPayment.ErrDeadlinePassed):
			h.logger.Warn("POST /webhooks/payment-confirmed - Payment deadline passed: hold_id=%d", req.HoldID)
			handlers.RespondGone(w, msgDeadlinePassed)

		case errors.Is(err, confirmPayment.ErrHoldNotPayable):
			h.logger.Warn("POST /webhooks/payment-confirmed - Hold not payable: hold_id=%d, %v", req.HoldID, err)
			handlers.RespondConflict(w, msgHoldNotPayable)

		case errors.Is(err, confirmPayment.ErrPaymentRefMismatch):
			h.logger.Warn("POST /webhooks/payment-confirmed - Reference mismatch: hold_id=%d", req.HoldID)
			handlers.RespondConflict(w, msgRefMismatch)

		case errors.Is(err, confirmPayment.ErrInvalidInput):
			h.logger.Warn("POST /webhooks/payment-confirmed - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /webhooks/payment-confirmed - Failed to confirm payment: hold_id=%d, error=%v",
				req.HoldID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /webhooks/payment-confirmed - Hold confirmed: hold_id=%d, ref=%s, amount=%d, replayed=%t",
		result.HoldID, result.PaymentReference, req.Amount, result.Replayed)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
