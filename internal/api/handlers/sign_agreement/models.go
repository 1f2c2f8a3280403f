package sign_agreement

import (
	"time"

	"github.com/m04kA/SMC-HoldService/internal/domain"
	signAgreement "github.com/m04kA/SMC-HoldService/internal/usecase/sign_agreement"
)

// SignAgreementRequest HTTP request model
type SignAgreementRequest struct {
	AgreementType string `json:"agreementType"` // "waiver" или "payment_terms"
	SignerName    string `json:"signerName"`
	SignerEmail   string `json:"signerEmail"`
}

// SignAgreementResponse HTTP response model
type SignAgreementResponse struct {
	AgreementID   int64  `json:"agreementId"`
	HoldID        int64  `json:"holdId"`
	HoldStatus    string `json:"holdStatus"`
	AgreementType string `json:"agreementType"`
	SignedAt      string `json:"signedAt"`
	AlreadySigned bool   `json:"alreadySigned"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SignAgreementRequest) ToUseCaseRequest(token string) *signAgreement.Request {
	return &signAgreement.Request{
		SigningToken:  token,
		AgreementType: domain.AgreementType(r.AgreementType),
		SignerName:    r.SignerName,
		SignerEmail:   r.SignerEmail,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *signAgreement.Response) *SignAgreementResponse {
	return &SignAgreementResponse{
		AgreementID:   resp.AgreementID,
		HoldID:        resp.HoldID,
		HoldStatus:    resp.HoldStatus,
		AgreementType: resp.AgreementType,
		SignedAt:      resp.SignedAt.Format(time.RFC3339),
		AlreadySigned: resp.AlreadySigned,
	}
}
