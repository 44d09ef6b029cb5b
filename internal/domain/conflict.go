package domain

import "time"

// ConflictKind source of a conflict
type ConflictKind string

const (
	ConflictAppointment ConflictKind = "appointment"
	ConflictBlock       ConflictKind = "block"
	ConflictTimeOff     ConflictKind = "time_off"
	ConflictTimeEntry   ConflictKind = "time_entry"
	ConflictOffShift    ConflictKind = "off_shift"
	// ConflictUnavailable the interval is hidden from availability (pending time-off, completed appointment)
	ConflictUnavailable ConflictKind = "unavailable"
)

// Conflict an existing item overlapping a proposed interval for the same staff member
type Conflict struct {
	Kind    ConflictKind
	ID      int64
	StaffID int64
	Start   time.Time
	End     time.Time
	Status  string
}

// Interval returns the conflicting window
func (c Conflict) Interval() Interval {
	return Interval{Start: c.Start, End: c.End}
}

// HasAppointments returns true if any conflict is an appointment
func HasAppointments(conflicts []Conflict) bool {
	for _, c := range conflicts {
		if c.Kind == ConflictAppointment {
			return true
		}
	}
	return false
}

// AppointmentIDs returns ids of conflicting appointments in input order
func AppointmentIDs(conflicts []Conflict) []int64 {
	ids := make([]int64, 0, len(conflicts))
	for _, c := range conflicts {
		if c.Kind == ConflictAppointment {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
