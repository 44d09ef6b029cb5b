package shift

import "errors"

var (
	// ErrDefaultShiftNotFound возвращается, когда шаблон на день недели не задан
	ErrDefaultShiftNotFound = errors.New("shift.repository: default shift not found")

	// ErrFlexibleShiftNotFound возвращается, когда гибкая смена не найдена
	ErrFlexibleShiftNotFound = errors.New("shift.repository: flexible shift not found")

	// ErrAlreadyDecided возвращается, когда смена уже одобрена или отклонена
	ErrAlreadyDecided = errors.New("shift.repository: flexible shift already decided")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("shift.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("shift.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("shift.repository: failed to scan row")
)
