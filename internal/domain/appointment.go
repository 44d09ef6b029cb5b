package domain

import (
	"fmt"
	"strings"
	"time"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusUpcoming   AppointmentStatus = "upcoming"
	StatusCheckedIn  AppointmentStatus = "checked-in"
	StatusInProgress AppointmentStatus = "in-progress"
	StatusPaused     AppointmentStatus = "paused"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no-show"
)

// ActiveStatuses statuses that occupy a staff member's time for conflict detection
var ActiveStatuses = []AppointmentStatus{
	StatusUpcoming,
	StatusCheckedIn,
	StatusInProgress,
	StatusPaused,
}

// PaymentStatus payment state of an appointment; settled by collaborators
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentPackage  PaymentStatus = "package"
	PaymentRefunded PaymentStatus = "refunded"
)

// IsValid returns true for a known status
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusUpcoming, StatusCheckedIn, StatusInProgress, StatusPaused,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for completed, cancelled and no-show
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// IsActive returns true if the status is in the active set
func (s AppointmentStatus) IsActive() bool {
	for _, active := range ActiveStatuses {
		if s == active {
			return true
		}
	}
	return false
}

// OccupiesTime returns true if an appointment in this status is subtracted from availability.
// Completed appointments keep their window; cancelled and no-show free it.
func (s AppointmentStatus) OccupiesTime() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// Appointment represents a booked service for one or more staff members
type Appointment struct {
	ID               int64
	CustomerID       *int64
	GuestName        *string
	ServiceID        int64
	StaffIDs         []int64
	StartTime        time.Time
	EndTime          time.Time
	Status           AppointmentStatus
	PaymentStatus    PaymentStatus
	PackageID        *int64
	PackageSessionID *int64
	Notes            *string

	CancellationReason *string
	CancelledAt        *time.Time
	CheckedInAt        *time.Time
	CompletedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the appointment window
func (a *Appointment) Interval() Interval {
	return Interval{Start: a.StartTime, End: a.EndTime}
}

// HasStaff returns true if staffID is assigned
func (a *Appointment) HasStaff(staffID int64) bool {
	for _, id := range a.StaffIDs {
		if id == staffID {
			return true
		}
	}
	return false
}

// CanBeRescheduled returns true only while upcoming
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusUpcoming
}

// Validate checks the invariants of a new or rescheduled appointment
func (a *Appointment) Validate() error {
	if a.CustomerID == nil && (a.GuestName == nil || strings.TrimSpace(*a.GuestName) == "") {
		return fmt.Errorf("%w: customer id or guest name is required", ErrValidation)
	}
	if a.GuestName != nil && len(*a.GuestName) > MaxGuestNameLength {
		return fmt.Errorf("%w: guest name exceeds %d characters", ErrValidation, MaxGuestNameLength)
	}
	if a.ServiceID <= 0 {
		return fmt.Errorf("%w: service id is required", ErrValidation)
	}
	if len(a.StaffIDs) == 0 {
		return fmt.Errorf("%w: at least one staff member must be assigned", ErrValidation)
	}
	seen := make(map[int64]struct{}, len(a.StaffIDs))
	for _, id := range a.StaffIDs {
		if id <= 0 {
			return fmt.Errorf("%w: invalid staff id %d", ErrValidation, id)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: staff id %d assigned twice", ErrValidation, id)
		}
		seen[id] = struct{}{}
	}
	if !a.StartTime.Before(a.EndTime) {
		return fmt.Errorf("%w: appointment start must be before end", ErrValidation)
	}
	if a.Notes != nil && len(*a.Notes) > MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrValidation, MaxNotesLength)
	}
	return nil
}

// AppointmentFilter фильтр для выборки записей
type AppointmentFilter struct {
	StaffIDs   []int64             // Пустой список - все сотрудники
	CustomerID *int64              // Фильтр по клиенту (опционально)
	From       *time.Time          // Запись заканчивается после From
	To         *time.Time          // Запись начинается до To
	Statuses   []AppointmentStatus // Пустой список - все статусы
}
