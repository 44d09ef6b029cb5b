package catalogservice

// Service услуга каталога
type Service struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	IsActive        bool    `json:"is_active"`
}

// QualifiedStaffResponse сотрудники, которые могут выполнять услугу
type QualifiedStaffResponse struct {
	ServiceID int64   `json:"service_id"`
	StaffIDs  []int64 `json:"staff_ids"`
}

// Package купленный клиентом пакет процедур
type Package struct {
	ID                int64 `json:"id"`
	CustomerID        int64 `json:"customer_id"`
	ServiceID         int64 `json:"service_id"`
	TotalSessions     int   `json:"total_sessions"`
	RemainingSessions int   `json:"remaining_sessions"`
}

// HasRemainingSessions возвращает true, если в пакете остались сеансы
func (p *Package) HasRemainingSessions() bool {
	return p.RemainingSessions > 0
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
