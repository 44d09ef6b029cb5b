package domain

import "time"

// Slot represents a bookable start time of fixed duration
type Slot struct {
	Start    time.Time
	End      time.Time
	StaffIDs []int64 // Staff members free for the whole slot
}

// Interval returns the slot window
func (s Slot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// AvailableStaff returns the number of free staff members
func (s Slot) AvailableStaff() int {
	return len(s.StaffIDs)
}

// HasStaff returns true if staffID is free for the slot
func (s Slot) HasStaff(staffID int64) bool {
	for _, id := range s.StaffIDs {
		if id == staffID {
			return true
		}
	}
	return false
}

// AnyStaff sentinel selector: resolved to a concrete staff member at commit
const AnyStaff int64 = 0
