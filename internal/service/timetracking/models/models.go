package models

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// CheckRequest отметка прихода или ухода сотрудника
type CheckRequest struct {
	StaffID  int64   `json:"-"`
	Location *string `json:"location,omitempty"`
}

// TimeEntryResponse отметка рабочего времени
type TimeEntryResponse struct {
	ID               int64      `json:"id"`
	StaffID          int64      `json:"staffId"`
	ScheduleID       *int64     `json:"scheduleId,omitempty"`
	CheckInTime      time.Time  `json:"checkInTime"`
	CheckOutTime     *time.Time `json:"checkOutTime,omitempty"`
	CheckInLocation  *string    `json:"checkInLocation,omitempty"`
	CheckOutLocation *string    `json:"checkOutLocation,omitempty"`
	IsOpen           bool       `json:"isOpen"`
}

// FromDomain конвертирует отметку из domain
func FromDomain(e *domain.TimeEntry) *TimeEntryResponse {
	return &TimeEntryResponse{
		ID:               e.ID,
		StaffID:          e.StaffID,
		ScheduleID:       e.ScheduleID,
		CheckInTime:      e.CheckInTime,
		CheckOutTime:     e.CheckOutTime,
		CheckInLocation:  e.CheckInLocation,
		CheckOutLocation: e.CheckOutLocation,
		IsOpen:           e.IsOpen(),
	}
}
