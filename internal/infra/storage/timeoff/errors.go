package timeoff

import "errors"

var (
	// ErrRequestNotFound возвращается, когда заявка на отсутствие не найдена
	ErrRequestNotFound = errors.New("timeoff.repository: time-off request not found")

	// ErrAlreadyDecided возвращается, когда заявка уже одобрена или отклонена
	ErrAlreadyDecided = errors.New("timeoff.repository: time-off request already decided")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("timeoff.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("timeoff.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("timeoff.repository: failed to scan row")
)
