package confirm_payment

import "errors"

var (
	// ErrHoldNotFound возвращается, когда hold не найден
	ErrHoldNotFound = errors.New("confirm_payment: hold not found")

	// ErrHoldNotPayable возвращается, когда hold не ожидает оплату
	ErrHoldNotPayable = errors.New("confirm_payment: hold is not awaiting payment")

	// ErrDeadlinePassed возвращается, когда дедлайн оплаты истек
	// на момент подтверждения
	ErrDeadlinePassed = errors.New("confirm_payment: payment deadline has passed")

	// ErrPaymentRefMismatch возвращается, когда hold уже подтвержден
	// с другим платежным референсом
	ErrPaymentRefMismatch = errors.New("confirm_payment: hold already confirmed with a different payment reference")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_payment: internal error")
)
