package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SalonScheduling/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	StaffID         int64           `json:"staffId"`
	ServiceID       *int64          `json:"serviceId,omitempty"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	StaffIDs  []int64   `json:"staffIds"`
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(serviceID, staffID *int64, duration, granularity *int, date time.Time) *getAvailableSlots.Request {
	req := &getAvailableSlots.Request{
		StaffID:         domain.AnyStaff,
		ServiceID:       serviceID,
		DurationMinutes: duration,
		Date:            date,
	}
	if staffID != nil {
		req.StaffID = *staffID
	}
	if granularity != nil {
		req.GranularityMinutes = *granularity
	}
	return req
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			StaffIDs:  slot.StaffIDs,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		StaffID:         resp.StaffID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
