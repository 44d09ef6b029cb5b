package models

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// Request модели

// SubmitRequest заявка сотрудника на отсутствие
type SubmitRequest struct {
	StaffID   int64     `json:"-"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Reason    string    `json:"reason"`
}

// DecideRequest решение администратора по заявке
type DecideRequest struct {
	RequestID int64 `json:"-"`
	DecidedBy int64 `json:"-"`
	Force     bool  `json:"force"` // Одобрить, несмотря на конфликтующие записи
}

// ListRequest фильтр списка заявок
type ListRequest struct {
	StaffID *int64
	From    *time.Time
	To      *time.Time
	Status  *string
}

// Response модели

// TimeOffResponse заявка на отсутствие
type TimeOffResponse struct {
	ID                        int64      `json:"id"`
	StaffID                   int64      `json:"staffId"`
	StartTime                 time.Time  `json:"startTime"`
	EndTime                   time.Time  `json:"endTime"`
	Reason                    string     `json:"reason"`
	Status                    string     `json:"status"`
	ConflictingAppointmentIDs []int64    `json:"conflictingAppointmentIds"`
	DecidedBy                 *int64     `json:"decidedBy,omitempty"`
	DecidedAt                 *time.Time `json:"decidedAt,omitempty"`
	CreatedAt                 time.Time  `json:"createdAt"`
}

// FromDomain конвертирует заявку из domain
func FromDomain(r *domain.TimeOffRequest) *TimeOffResponse {
	ids := r.ConflictingAppointmentIDs
	if ids == nil {
		ids = []int64{}
	}
	return &TimeOffResponse{
		ID:                        r.ID,
		StaffID:                   r.StaffID,
		StartTime:                 r.StartTime,
		EndTime:                   r.EndTime,
		Reason:                    r.Reason,
		Status:                    string(r.Status),
		ConflictingAppointmentIDs: ids,
		DecidedBy:                 r.DecidedBy,
		DecidedAt:                 r.DecidedAt,
		CreatedAt:                 r.CreatedAt,
	}
}
