package appointment_lifecycle

import (
	appointmentLifecycle "github.com/m04kA/SMC-SalonScheduling/internal/usecase/appointment_lifecycle"
)

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CancelAppointmentRequest) ToUseCaseRequest(appointmentID int64) *appointmentLifecycle.CancelRequest {
	return &appointmentLifecycle.CancelRequest{
		AppointmentID: appointmentID,
		Reason:        r.CancellationReason,
	}
}
