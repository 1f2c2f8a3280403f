package send_signing_link

import "errors"

var (
	// ErrHoldNotFound возвращается, когда hold не найден
	ErrHoldNotFound = errors.New("send_signing_link: hold not found")

	// ErrRateLimitExceeded возвращается при исчерпании лимита попыток
	// отправки ссылки. Состояние hold'а при этом не меняется.
	ErrRateLimitExceeded = errors.New("send_signing_link: send attempt limit exceeded")

	// ErrHoldNotSendable возвращается, когда hold в статусе,
	// не допускающем отправку ссылки
	ErrHoldNotSendable = errors.New("send_signing_link: hold is not in a sendable state")

	// ErrDeadlinePassed возвращается, когда дедлайн подписания уже истек,
	// даже если sweeper еще не успел перевести hold в expired
	ErrDeadlinePassed = errors.New("send_signing_link: signing deadline has passed")

	// ErrSendConflict возвращается, когда конкурентный запрос учел
	// попытку отправки первым
	ErrSendConflict = errors.New("send_signing_link: concurrent send attempt")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("send_signing_link: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("send_signing_link: internal error")
)
