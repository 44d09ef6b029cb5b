package booking_flow

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// StartRequest запрос на создание черновика
type StartRequest struct {
	ServiceID    *int64 // Услуга выбрана заранее - начинаем со второго шага
	RescheduleID *int64 // Перенос существующей записи
}

// TechnicianRequest выбор мастера (0 - любой)
type TechnicianRequest struct {
	DraftID string
	StaffID int64
}

// TimeRequest выбор времени
type TimeRequest struct {
	DraftID   string
	StartTime time.Time
}

// CustomerRequest данные клиента
type CustomerRequest struct {
	DraftID    string
	CustomerID *int64
	GuestName  *string
	Notes      *string
}

// BackRequest возврат к более раннему шагу
type BackRequest struct {
	DraftID string
	Stage   int
}

// DraftResponse состояние черновика
type DraftResponse struct {
	ID               string     `json:"id"`
	Stage            int        `json:"stage"`
	StageName        string     `json:"stageName"`
	ServiceID        *int64     `json:"serviceId,omitempty"`
	DurationMinutes  int        `json:"durationMinutes,omitempty"`
	TechnicianID     *int64     `json:"technicianId,omitempty"`
	StartTime        *time.Time `json:"startTime,omitempty"`
	EndTime          *time.Time `json:"endTime,omitempty"`
	CustomerID       *int64     `json:"customerId,omitempty"`
	GuestName        *string    `json:"guestName,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
	RescheduleID     *int64     `json:"rescheduleId,omitempty"`
	RescheduleStaff  []int64    `json:"rescheduleStaffIds,omitempty"`
	PackageID        *int64     `json:"packageId,omitempty"`
	PackageSessionID *int64     `json:"packageSessionId,omitempty"`
	LastError        string     `json:"lastError,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// FromDomainDraft конвертирует черновик в DTO
func FromDomainDraft(d domain.BookingDraft) *DraftResponse {
	resp := &DraftResponse{
		ID:               d.ID,
		Stage:            int(d.Stage),
		StageName:        d.Stage.String(),
		ServiceID:        d.ServiceID,
		DurationMinutes:  d.DurationMinutes,
		TechnicianID:     d.TechnicianID,
		StartTime:        d.StartTime,
		CustomerID:       d.CustomerID,
		GuestName:        d.GuestName,
		Notes:            d.Notes,
		RescheduleID:     d.RescheduleID,
		RescheduleStaff:  d.RescheduleStaffIDs,
		PackageID:        d.PackageID,
		PackageSessionID: d.PackageSessionID,
		LastError:        d.LastError,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if interval, ok := d.Interval(); ok {
		end := interval.End
		resp.EndTime = &end
	}
	return resp
}
