package get_available_slots

import (
	"time"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	StaffID            int64     // domain.AnyStaff - любой мастер, выполняющий услугу
	ServiceID          *int64    // Длительность берется из каталога, если не задана явно
	DurationMinutes    *int      // Явная длительность (опционально)
	Date               time.Time // Дата в часовом поясе салона (без времени)
	GranularityMinutes int       // 0 - шаг из конфигурации
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time // Дата, на которую запрашивались слоты
	StaffID         int64     // domain.AnyStaff для объединенного списка
	ServiceID       *int64
	DurationMinutes int
	Slots           []Slot // Слоты, отсортированные по началу
}

// Slot модель временного слота
type Slot struct {
	StartTime time.Time
	EndTime   time.Time
	StaffIDs  []int64 // Свободные мастера (для любого мастера - все подходящие)
}
