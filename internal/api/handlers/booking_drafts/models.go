package booking_drafts

import (
	"time"

	bookingFlow "github.com/m04kA/SMC-SalonScheduling/internal/usecase/booking_flow"
)

// StartDraftRequest HTTP request model (тело необязательно)
type StartDraftRequest struct {
	ServiceID    *int64 `json:"serviceId,omitempty"`
	RescheduleID *int64 `json:"rescheduleId,omitempty"`
}

// ServiceStepRequest выбор услуги
type ServiceStepRequest struct {
	ServiceID int64 `json:"serviceId"`
}

// TechnicianStepRequest выбор мастера (0 - любой)
type TechnicianStepRequest struct {
	StaffID int64 `json:"staffId"`
}

// TimeStepRequest выбор времени
type TimeStepRequest struct {
	StartTime time.Time `json:"startTime"` // RFC3339
}

// CustomerStepRequest данные клиента
type CustomerStepRequest struct {
	CustomerID *int64  `json:"customerId,omitempty"`
	GuestName  *string `json:"guestName,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// BackStepRequest возврат к шагу
type BackStepRequest struct {
	Stage int `json:"stage"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *StartDraftRequest) ToUseCaseRequest() *bookingFlow.StartRequest {
	return &bookingFlow.StartRequest{
		ServiceID:    r.ServiceID,
		RescheduleID: r.RescheduleID,
	}
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *TechnicianStepRequest) ToUseCaseRequest(draftID string) *bookingFlow.TechnicianRequest {
	return &bookingFlow.TechnicianRequest{DraftID: draftID, StaffID: r.StaffID}
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *TimeStepRequest) ToUseCaseRequest(draftID string) *bookingFlow.TimeRequest {
	return &bookingFlow.TimeRequest{DraftID: draftID, StartTime: r.StartTime}
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CustomerStepRequest) ToUseCaseRequest(draftID string) *bookingFlow.CustomerRequest {
	return &bookingFlow.CustomerRequest{
		DraftID:    draftID,
		CustomerID: r.CustomerID,
		GuestName:  r.GuestName,
		Notes:      r.Notes,
	}
}
