package reschedule_appointment

import "time"

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID int64     // ID записи
	StartTime     time.Time // Новое начало; длительность сохраняется
	StaffIDs      []int64   // nil - прежние мастера, [0] - любой подходящий мастер
}

// keepsStaff возвращает true, если состав мастеров не меняется
func (r *Request) keepsStaff() bool {
	return len(r.StaffIDs) == 0
}

// isAnyStaff возвращает true, если мастер подбирается заново
func (r *Request) isAnyStaff() bool {
	return len(r.StaffIDs) == 1 && r.StaffIDs[0] == 0
}
