package capacity

import "errors"

var (
	// ErrSlotUnavailable возвращается, когда слот уже занят активным
	// hold'ом или подтвержденным бронированием
	ErrSlotUnavailable = errors.New("capacity.repository: slot is already claimed")

	// ErrClaimNotFound возвращается, когда запись о занятости не найдена
	ErrClaimNotFound = errors.New("capacity.repository: slot claim not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("capacity.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("capacity.repository: failed to execute query")
)
