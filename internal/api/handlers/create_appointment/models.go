package create_appointment

import (
	"time"

	createAppointment "github.com/m04kA/SMC-SalonScheduling/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	CustomerID       *int64    `json:"customerId,omitempty"`
	GuestName        *string   `json:"guestName,omitempty"`
	ServiceID        int64     `json:"serviceId"`
	StaffIDs         []int64   `json:"staffIds,omitempty"` // пусто или [0] - любой мастер
	StartTime        time.Time `json:"startTime"`          // RFC3339
	PackageID        *int64    `json:"packageId,omitempty"`
	PackageSessionID *int64    `json:"packageSessionId,omitempty"`
	Notes            *string   `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() *createAppointment.Request {
	return &createAppointment.Request{
		CustomerID:       r.CustomerID,
		GuestName:        r.GuestName,
		ServiceID:        r.ServiceID,
		StaffIDs:         r.StaffIDs,
		StartTime:        r.StartTime,
		PackageID:        r.PackageID,
		PackageSessionID: r.PackageSessionID,
		Notes:            r.Notes,
	}
}
