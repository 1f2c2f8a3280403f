package create_hold

import "errors"

var (
	// ErrCapacityExhausted возвращается, когда слот уже занят активным
	// hold'ом или подтвержденным бронированием
	ErrCapacityExhausted = errors.New("create_hold: slot capacity exhausted")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_hold: invalid input data")

	// ErrInvalidDate возвращается, когда дата мероприятия в прошлом
	ErrInvalidDate = errors.New("create_hold: invalid event date")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_hold: internal error")
)
