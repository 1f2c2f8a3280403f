package holds

import "errors"

var (
	// ErrHoldNotFound возвращается, когда hold не найден
	ErrHoldNotFound = errors.New("holds: hold not found")

	// ErrCannotCancel возвращается при попытке отменить hold
	// в терминальном статусе
	ErrCannotCancel = errors.New("holds: hold cannot be cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("holds: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("holds: internal error")
)
