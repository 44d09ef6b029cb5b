package reschedule_appointment

import (
	"time"

	rescheduleAppointment "github.com/m04kA/SMC-SalonScheduling/internal/usecase/reschedule_appointment"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	StartTime time.Time `json:"startTime"`          // RFC3339
	StaffIDs  []int64   `json:"staffIds,omitempty"` // не передано - прежние мастера, [0] - любой
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(appointmentID int64) *rescheduleAppointment.Request {
	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		StartTime:     r.StartTime,
		StaffIDs:      r.StaffIDs,
	}
}
