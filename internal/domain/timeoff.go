package domain

import "time"

// TimeOffStatus status of a time-off request
type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "PENDING"
	TimeOffApproved TimeOffStatus = "APPROVED"
	TimeOffRejected TimeOffStatus = "REJECTED"
)

// TimeOffRequest staff request for time off
type TimeOffRequest struct {
	ID                        int64
	StaffID                   int64
	StartTime                 time.Time
	EndTime                   time.Time
	Reason                    string
	Status                    TimeOffStatus
	ConflictingAppointmentIDs []int64 // computed at request time
	DecidedBy                 *int64
	DecidedAt                 *time.Time
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// Interval returns the requested window
func (r TimeOffRequest) Interval() Interval {
	return Interval{Start: r.StartTime, End: r.EndTime}
}

// IsPending returns true while the request awaits a decision
func (r TimeOffRequest) IsPending() bool {
	return r.Status == TimeOffPending
}

// BlocksAvailability returns true if no slots may be offered inside the window
func (r TimeOffRequest) BlocksAvailability() bool {
	return r.Status == TimeOffPending || r.Status == TimeOffApproved
}

// TimeEntry check-in / check-out pair. At most one open entry per staff member.
type TimeEntry struct {
	ID               int64
	StaffID          int64
	ScheduleID       *int64 // approved flexible shift this entry fulfills
	CheckInTime      time.Time
	CheckOutTime     *time.Time
	CheckInLocation  *string
	CheckOutLocation *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsOpen returns true until check-out
func (e TimeEntry) IsOpen() bool {
	return e.CheckOutTime == nil
}
