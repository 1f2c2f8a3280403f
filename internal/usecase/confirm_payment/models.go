package confirm_payment

// Request модель запроса подтверждения оплаты от платежной системы
type Request struct {
	HoldID           int64  // ID hold'а
	PaymentReference string // Идемпотентный референс платежа
}

// Response модель ответа после подтверждения оплаты
type Response struct {
	HoldID           int64   // ID hold'а
	Status           string  // Статус hold'а (confirmed)
	PaymentReference string  // Референс платежа, закрепленный за hold'ом
	AgreementIDs     []int64 // ID подписанных соглашений
	Replayed         bool    // true, если webhook пришел повторно
}
