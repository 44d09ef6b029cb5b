package timeentry

import "errors"

var (
	// ErrOpenEntryExists возвращается, когда у сотрудника уже есть незакрытая отметка
	ErrOpenEntryExists = errors.New("timeentry.repository: open time entry already exists")

	// ErrNoOpenEntry возвращается, когда у сотрудника нет незакрытой отметки
	ErrNoOpenEntry = errors.New("timeentry.repository: no open time entry")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("timeentry.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("timeentry.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("timeentry.repository: failed to scan row")
)
