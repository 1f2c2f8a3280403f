package emailgateway

import "errors"

var (
	// ErrInternal возвращается при ошибках формирования письма
	ErrInternal = errors.New("emailgateway client: internal error")

	// ErrSendFailed возвращается при ошибке доставки через SMTP
	ErrSendFailed = errors.New("emailgateway client: failed to send message")
)
