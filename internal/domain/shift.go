package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

// DefaultShift weekly template entry, one per weekday per staff member
type DefaultShift struct {
	StaffID   int64
	Weekday   int // 1 = Monday ... 7 = Sunday
	IsActive  bool
	StartTime types.TimeString // empty when inactive
	EndTime   types.TimeString // empty when inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the default shift invariant: active ⇒ both times present and start < end
func (s DefaultShift) Validate() error {
	if s.Weekday < Monday || s.Weekday > Sunday {
		return fmt.Errorf("%w: weekday must be in 1..7, got %d", ErrValidation, s.Weekday)
	}
	if !s.IsActive {
		return nil
	}
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return fmt.Errorf("%w: active shift requires start and end time", ErrValidation)
	}
	if err := s.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrValidation, err)
	}
	if err := s.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end time: %v", ErrValidation, err)
	}
	if !s.StartTime.IsBefore(s.EndTime) {
		return fmt.Errorf("%w: shift start %s must be before end %s", ErrValidation, s.StartTime, s.EndTime)
	}
	return nil
}

// WindowOn returns the working window on date, if the shift is active
func (s DefaultShift) WindowOn(date time.Time) (Interval, bool) {
	if !s.IsActive || s.StartTime.IsZero() || s.EndTime.IsZero() {
		return Interval{}, false
	}
	w := Interval{Start: s.StartTime.On(date), End: s.EndTime.On(date)}
	return w, !w.IsEmpty()
}

// OverrideKind kind of a date-specific schedule override
type OverrideKind string

const (
	OverrideWork   OverrideKind = "WORK"
	OverrideDayOff OverrideKind = "DAY_OFF"
	OverrideBlock  OverrideKind = "BLOCK"
	OverrideTask   OverrideKind = "TASK"
)

// IsValid returns true for a known kind
func (k OverrideKind) IsValid() bool {
	switch k {
	case OverrideWork, OverrideDayOff, OverrideBlock, OverrideTask:
		return true
	default:
		return false
	}
}

// ScheduleOverride date-specific replacement or modification of the default shift.
// Immutable once created; a newer override replaces an older one.
type ScheduleOverride struct {
	ID        int64
	StaffID   int64
	Date      time.Time
	StartTime types.TimeString // empty = whole day
	EndTime   types.TimeString // empty = whole day
	Kind      OverrideKind
	Note      *string
	CreatedBy *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks kind and the optional window
func (o ScheduleOverride) Validate() error {
	if !o.Kind.IsValid() {
		return fmt.Errorf("%w: unknown override kind %q", ErrValidation, o.Kind)
	}
	if o.Date.IsZero() {
		return fmt.Errorf("%w: override date is required", ErrValidation)
	}
	if o.StartTime.IsZero() != o.EndTime.IsZero() {
		return fmt.Errorf("%w: override requires both start and end time or neither", ErrValidation)
	}
	if o.Kind == OverrideWork && !o.HasWindow() {
		return fmt.Errorf("%w: WORK override requires start and end time", ErrValidation)
	}
	if o.HasWindow() {
		if err := o.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: start time: %v", ErrValidation, err)
		}
		if err := o.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: end time: %v", ErrValidation, err)
		}
		if !o.StartTime.IsBefore(o.EndTime) {
			return fmt.Errorf("%w: override start %s must be before end %s", ErrValidation, o.StartTime, o.EndTime)
		}
	}
	return nil
}

// HasWindow returns true if the override covers a stated window rather than the whole day
func (o ScheduleOverride) HasWindow() bool {
	return !o.StartTime.IsZero() && !o.EndTime.IsZero()
}

// Window returns the affected interval; whole day when no times are set
func (o ScheduleOverride) Window() Interval {
	if !o.HasWindow() {
		return DayBounds(o.Date)
	}
	return Interval{Start: o.StartTime.On(o.Date), End: o.EndTime.On(o.Date)}
}

// ReplacesDefault returns true for kinds that replace the default shift (latest wins)
func (o ScheduleOverride) ReplacesDefault() bool {
	return o.Kind == OverrideWork || o.Kind == OverrideDayOff
}

// IsBlocking returns true if the override makes the staff member unavailable
func (o ScheduleOverride) IsBlocking() bool {
	return o.Kind == OverrideDayOff || o.Kind == OverrideBlock
}

// FlexibleShiftStatus status of a staff-submitted shift
type FlexibleShiftStatus string

const (
	FlexibleShiftPending  FlexibleShiftStatus = "pending"
	FlexibleShiftApproved FlexibleShiftStatus = "approved"
	FlexibleShiftRejected FlexibleShiftStatus = "rejected"
)

// FlexibleShift staff-submitted ad-hoc shift; only approved shifts grant availability
type FlexibleShift struct {
	ID        int64
	StaffID   int64
	StartTime time.Time
	EndTime   time.Time
	Status    FlexibleShiftStatus
	DecidedBy *int64
	DecidedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the shift window
func (f FlexibleShift) Interval() Interval {
	return Interval{Start: f.StartTime, End: f.EndTime}
}

// IsApproved returns true if the shift grants availability
func (f FlexibleShift) IsApproved() bool {
	return f.Status == FlexibleShiftApproved
}

// CanBeDecided returns true while the shift awaits an admin decision
func (f FlexibleShift) CanBeDecided() bool {
	return f.Status == FlexibleShiftPending
}
