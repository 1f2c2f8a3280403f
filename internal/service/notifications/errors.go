package notifications

import "errors"

var (
	// ErrUnsupportedChannel возвращается для неизвестного канала доставки
	ErrUnsupportedChannel = errors.New("notifications: unsupported delivery channel")

	// ErrDeliveryFailed возвращается, когда шлюз не смог выполнить отправку.
	// Попытка при этом уже учтена вызывающей стороной.
	ErrDeliveryFailed = errors.New("notifications: delivery failed")
)
