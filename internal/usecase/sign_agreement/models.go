package sign_agreement

import (
	"time"

	"github.com/m04kA/SMC-HoldService/internal/domain"
)

// Request модель запроса на подписание соглашения
type Request struct {
	SigningToken  string               // Токен из ссылки на подписание
	AgreementType domain.AgreementType // Тип соглашения (waiver, payment_terms)
	SignerName    string               // Имя подписанта
	SignerEmail   string               // Email подписанта
}

// Response модель ответа после подписания
type Response struct {
	AgreementID   int64     // ID записи о подписании
	HoldID        int64     // ID hold'а
	HoldStatus    string    // Статус hold'а после подписания
	AgreementType string    // Тип подписанного соглашения
	SignedAt      time.Time // Время подписания
	AlreadySigned bool      // true, если соглашение этого типа уже было подписано ранее
}
