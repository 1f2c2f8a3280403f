package smsgateway

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("smsgateway client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от провайдера
	ErrInvalidResponse = errors.New("smsgateway client: invalid response")

	// ErrProviderRejected возвращается, когда провайдер отклонил сообщение
	// (некорректный номер, заблокированный получатель)
	ErrProviderRejected = errors.New("smsgateway client: message rejected by provider")
)
