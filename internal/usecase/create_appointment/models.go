package create_appointment

import (
	"time"
)

// Assignment modes для метрик
const (
	modeStaff = "staff"
	modeAny   = "any"
)

// Request модель запроса на создание записи
type Request struct {
	CustomerID       *int64    // ID клиента (или GuestName)
	GuestName        *string   // Имя гостя без регистрации
	ServiceID        int64     // ID услуги
	StaffIDs         []int64   // Мастера; пусто или [0] - любой подходящий мастер
	StartTime        time.Time // Начало записи
	PackageID        *int64    // Пакет процедур (опционально)
	PackageSessionID *int64    // Сеанс пакета (опционально)
	Notes            *string   // Заметки (опционально)
}

// IsAnyStaff возвращает true, если мастер подбирается при подтверждении
func (r *Request) IsAnyStaff() bool {
	return len(r.StaffIDs) == 0 || (len(r.StaffIDs) == 1 && r.StaffIDs[0] == 0)
}
