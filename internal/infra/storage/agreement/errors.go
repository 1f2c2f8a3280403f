package agreement

import "errors"

var (
	// ErrDuplicateAgreement возвращается при попытке повторно подписать
	// соглашение того же типа для того же hold'а
	ErrDuplicateAgreement = errors.New("agreement.repository: agreement of this type already signed for hold")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("agreement.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("agreement.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("agreement.repository: failed to scan row")
)
