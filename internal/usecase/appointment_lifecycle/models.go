package appointment_lifecycle

// CancelRequest модель запроса на отмену записи
type CancelRequest struct {
	AppointmentID int64  // ID записи
	Reason        string // Причина отмены (обязательна)
}
