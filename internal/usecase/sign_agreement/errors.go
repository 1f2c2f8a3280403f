package sign_agreement

import "errors"

var (
	// ErrHoldNotFound возвращается, когда токен не соответствует ни одному hold'у
	ErrHoldNotFound = errors.New("sign_agreement: hold not found")

	// ErrHoldNotSignable возвращается, когда hold в статусе,
	// не допускающем подписание
	ErrHoldNotSignable = errors.New("sign_agreement: hold is not in a signable state")

	// ErrDeadlinePassed возвращается, когда дедлайн подписания истек,
	// даже если sweeper еще не перевел hold в expired
	ErrDeadlinePassed = errors.New("sign_agreement: signing deadline has passed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("sign_agreement: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("sign_agreement: internal error")
)
