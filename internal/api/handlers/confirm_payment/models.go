package confirm_payment

import (
	confirmPayment "github.com/m04kA/SMC-HoldService/internal/usecase/confirm_payment"
)

// PaymentWebhookRequest HTTP request model для webhook'а платежной системы
type PaymentWebhookRequest struct {
	HoldID           int64  `json:"holdId"`
	PaymentReference string `json:"paymentReference"`
	Amount           int64  `json:"amount"` // сумма платежа в минорных единицах
}

// PaymentWebhookResponse HTTP response model
type PaymentWebhookResponse struct {
	HoldID           int64   `json:"holdId"`
	Status           string  `json:"status"`
	PaymentReference string  `json:"paymentReference"`
	AgreementIDs     []int64 `json:"agreementIds"`
	Replayed         bool    `json:"replayed"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *PaymentWebhookRequest) ToUseCaseRequest() *confirmPayment.Request {
	return &confirmPayment.Request{
		HoldID:           r.HoldID,
		PaymentReference: r.PaymentReference,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmPayment.Response) *PaymentWebhookResponse {
	return &PaymentWebhookResponse{
		HoldID:           resp.HoldID,
		Status:           resp.Status,
		PaymentReference: resp.PaymentReference,
		AgreementIDs:     resp.AgreementIDs,
		Replayed:         resp.Replayed,
	}
}
