package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrStatusChanged возвращается, когда условное обновление не нашло запись в ожидаемом статусе
	ErrStatusChanged = errors.New("appointment.repository: appointment status changed concurrently")

	// ErrStaffBusy возвращается при пересечении интервала сотрудника с другой записью
	// (EXCLUDE ограничение, serialization failure)
	ErrStaffBusy = errors.New("appointment.repository: staff already booked for the interval")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
