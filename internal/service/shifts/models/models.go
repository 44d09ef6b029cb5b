package models

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

// Request модели

// DefaultShiftInput шаблон смены на один день недели
type DefaultShiftInput struct {
	Weekday   int              `json:"weekday"`
	IsActive  bool             `json:"isActive"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
}

// UpdateDefaultShiftsRequest запрос на обновление недельного шаблона
type UpdateDefaultShiftsRequest struct {
	StaffID int64               `json:"-"`
	Shifts  []DefaultShiftInput `json:"shifts"`
}

// CreateOverrideRequest запрос на создание исключения из расписания
type CreateOverrideRequest struct {
	StaffID   int64            `json:"-"`
	Date      string           `json:"date"` // YYYY-MM-DD
	StartTime types.TimeString `json:"startTime,omitempty"`
	EndTime   types.TimeString `json:"endTime,omitempty"`
	Kind      string           `json:"kind"`
	Note      *string          `json:"note,omitempty"`
	CreatedBy *int64           `json:"-"`
}

// SubmitFlexibleShiftRequest запрос сотрудника на гибкую смену
type SubmitFlexibleShiftRequest struct {
	StaffID   int64     `json:"-"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// DecideFlexibleShiftRequest решение администратора по гибкой смене
type DecideFlexibleShiftRequest struct {
	ShiftID   int64 `json:"-"`
	Approve   bool  `json:"approve"`
	DecidedBy int64 `json:"-"`
}

// ListFlexibleShiftsRequest фильтр списка гибких смен
type ListFlexibleShiftsRequest struct {
	StaffID *int64
	From    *time.Time
	To      *time.Time
	Status  *string
}

// Response модели

// DefaultShiftResponse шаблон смены на день недели
type DefaultShiftResponse struct {
	Weekday   int              `json:"weekday"`
	IsActive  bool             `json:"isActive"`
	StartTime types.TimeString `json:"startTime,omitempty"`
	EndTime   types.TimeString `json:"endTime,omitempty"`
}

// DefaultShiftsResponse недельный шаблон сотрудника
type DefaultShiftsResponse struct {
	StaffID int64                  `json:"staffId"`
	Shifts  []DefaultShiftResponse `json:"shifts"`
}

// OverrideResponse исключение из расписания
type OverrideResponse struct {
	ID        int64            `json:"id"`
	StaffID   int64            `json:"staffId"`
	Date      string           `json:"date"`
	StartTime types.TimeString `json:"startTime,omitempty"`
	EndTime   types.TimeString `json:"endTime,omitempty"`
	Kind      string           `json:"kind"`
	Note      *string          `json:"note,omitempty"`
	CreatedBy *int64           `json:"createdBy,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// OrphanedAppointment запись, оказавшаяся вне рабочего времени после исключения
type OrphanedAppointment struct {
	AppointmentID int64     `json:"appointmentId"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Status        string    `json:"status"`
}

// CreateOverrideResponse созданное исключение с предупреждениями
type CreateOverrideResponse struct {
	Override OverrideResponse      `json:"override"`
	Warnings []OrphanedAppointment `json:"warnings"`
}

// FlexibleShiftResponse гибкая смена
type FlexibleShiftResponse struct {
	ID        int64      `json:"id"`
	StaffID   int64      `json:"staffId"`
	StartTime time.Time  `json:"startTime"`
	EndTime   time.Time  `json:"endTime"`
	Status    string     `json:"status"`
	DecidedBy *int64     `json:"decidedBy,omitempty"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// FromDomainDefaultShifts конвертирует шаблон недели, заполняя пропущенные дни неактивными
func FromDomainDefaultShifts(staffID int64, shifts []domain.DefaultShift) *DefaultShiftsResponse {
	byWeekday := make(map[int]domain.DefaultShift, len(shifts))
	for _, s := range shifts {
		byWeekday[s.Weekday] = s
	}

	result := make([]DefaultShiftResponse, 0, domain.DaysInWeek)
	for wd := domain.Monday; wd <= domain.Sunday; wd++ {
		s, ok := byWeekday[wd]
		if !ok {
			result = append(result, DefaultShiftResponse{Weekday: wd})
			continue
		}
		result = append(result, DefaultShiftResponse{
			Weekday:   wd,
			IsActive:  s.IsActive,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
	}
	return &DefaultShiftsResponse{StaffID: staffID, Shifts: result}
}

// FromDomainOverride конвертирует исключение из domain
func FromDomainOverride(o *domain.ScheduleOverride) OverrideResponse {
	return OverrideResponse{
		ID:        o.ID,
		StaffID:   o.StaffID,
		Date:      o.Date.Format(domain.DateFormat),
		StartTime: o.StartTime,
		EndTime:   o.EndTime,
		Kind:      string(o.Kind),
		Note:      o.Note,
		CreatedBy: o.CreatedBy,
		CreatedAt: o.CreatedAt,
	}
}

// FromDomainFlexibleShift конвертирует гибкую смену из domain
func FromDomainFlexibleShift(f *domain.FlexibleShift) *FlexibleShiftResponse {
	return &FlexibleShiftResponse{
		ID:        f.ID,
		StaffID:   f.StaffID,
		StartTime: f.StartTime,
		EndTime:   f.EndTime,
		Status:    string(f.Status),
		DecidedBy: f.DecidedBy,
		DecidedAt: f.DecidedAt,
		CreatedAt: f.CreatedAt,
	}
}
