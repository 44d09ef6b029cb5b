package outbox

import "errors"

var (
	// ErrEventNotFound возвращается, когда событие не найдено или уже доставлено
	ErrEventNotFound = errors.New("outbox.repository: event not found or already delivered")

	// ErrMarshalPayload возвращается при ошибке сериализации payload
	ErrMarshalPayload = errors.New("outbox.repository: failed to marshal payload")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("outbox.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("outbox.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("outbox.repository: failed to scan row")
)
