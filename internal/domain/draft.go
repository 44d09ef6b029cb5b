package domain

import (
	"fmt"
	"strings"
	"time"
)

// BookingStage step of the booking flow
type BookingStage int

const (
	StageService      BookingStage = 1
	StageTechnician   BookingStage = 2
	StageDateTime     BookingStage = 3
	StageCustomerInfo BookingStage = 4
	StageConfirmation BookingStage = 5
)

// IsValid returns true for a known stage
func (s BookingStage) IsValid() bool {
	return s >= StageService && s <= StageConfirmation
}

// String returns the stage name
func (s BookingStage) String() string {
	switch s {
	case StageService:
		return "service"
	case StageTechnician:
		return "technician"
	case StageDateTime:
		return "date_time"
	case StageCustomerInfo:
		return "customer_info"
	case StageConfirmation:
		return "confirmation"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// BookingDraft accumulating state of the booking flow.
// Every With* method returns a modified copy; the receiver is never changed.
type BookingDraft struct {
	ID    string       `json:"id"`
	Stage BookingStage `json:"stage"`

	ServiceID       *int64 `json:"serviceId,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`

	// TechnicianID nil = not chosen yet, AnyStaff = any qualified technician
	TechnicianID *int64 `json:"technicianId,omitempty"`

	StartTime *time.Time `json:"startTime,omitempty"`

	CustomerID *int64  `json:"customerId,omitempty"`
	GuestName  *string `json:"guestName,omitempty"`
	Notes      *string `json:"notes,omitempty"`

	RescheduleID       *int64  `json:"rescheduleId,omitempty"`
	// RescheduleStaffIDs staff of the moved appointment, kept until another technician is chosen
	RescheduleStaffIDs []int64 `json:"rescheduleStaffIds,omitempty"`

	PackageID        *int64 `json:"packageId,omitempty"`
	PackageSessionID *int64 `json:"packageSessionId,omitempty"`

	LastError string `json:"lastError,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBookingDraft creates an empty draft at the service stage
func NewBookingDraft(id string, now time.Time) BookingDraft {
	return BookingDraft{
		ID:        id,
		Stage:     StageService,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsReschedule returns true if confirming the draft moves an existing appointment
func (d BookingDraft) IsReschedule() bool {
	return d.RescheduleID != nil
}

// KeepsRescheduleStaff returns true if confirming leaves the appointment with its current staff
func (d BookingDraft) KeepsRescheduleStaff() bool {
	return d.IsReschedule() && len(d.RescheduleStaffIDs) > 0
}

// HasTechnician returns true if the technician stage is settled
func (d BookingDraft) HasTechnician() bool {
	return d.TechnicianID != nil || d.KeepsRescheduleStaff()
}

// StaffIDs returns the staff the appointment is booked for; [AnyStaff] when resolved at commit
func (d BookingDraft) StaffIDs() []int64 {
	if d.KeepsRescheduleStaff() {
		return append([]int64(nil), d.RescheduleStaffIDs...)
	}
	if d.TechnicianID != nil {
		return []int64{*d.TechnicianID}
	}
	return nil
}

// IsAnyTechnician returns true if the technician is resolved only at commit
func (d BookingDraft) IsAnyTechnician() bool {
	return d.TechnicianID != nil && *d.TechnicianID == AnyStaff
}

// Interval returns the chosen window, if service and time are set
func (d BookingDraft) Interval() (Interval, bool) {
	if d.StartTime == nil || d.DurationMinutes <= 0 {
		return Interval{}, false
	}
	start := *d.StartTime
	return Interval{Start: start, End: start.Add(time.Duration(d.DurationMinutes) * time.Minute)}, true
}

// WithService sets the service and its duration
func (d BookingDraft) WithService(serviceID int64, durationMinutes int, now time.Time) (BookingDraft, error) {
	if serviceID <= 0 {
		return d, fmt.Errorf("%w: service id is required", ErrValidation)
	}
	if durationMinutes < MinDurationMinutes || durationMinutes > MaxDurationMinutes {
		return d, fmt.Errorf("%w: duration must be between %d and %d minutes, got %d",
			ErrValidation, MinDurationMinutes, MaxDurationMinutes, durationMinutes)
	}
	next := d.clone()
	next.ServiceID = &serviceID
	next.DurationMinutes = durationMinutes
	return next.advance(now), nil
}

// WithTechnician sets a concrete technician or AnyStaff
func (d BookingDraft) WithTechnician(staffID int64, now time.Time) (BookingDraft, error) {
	if d.ServiceID == nil {
		return d, fmt.Errorf("%w: service must be selected before technician", ErrValidation)
	}
	if staffID < 0 {
		return d, fmt.Errorf("%w: invalid technician id %d", ErrValidation, staffID)
	}
	next := d.clone()
	next.TechnicianID = &staffID
	if !(len(d.RescheduleStaffIDs) == 1 && d.RescheduleStaffIDs[0] == staffID) {
		next.RescheduleStaffIDs = nil
	}
	return next.advance(now), nil
}

// WithReschedule fills the draft from an appointment being moved and stops at the technician stage.
// A single technician is preselected; the appointment staff is kept until another one is chosen.
func (d BookingDraft) WithReschedule(appt *Appointment, now time.Time) (BookingDraft, error) {
	minutes := int(appt.Interval().Duration() / time.Minute)
	next, err := d.WithService(appt.ServiceID, minutes, now)
	if err != nil {
		return d, err
	}
	id := appt.ID
	next.RescheduleID = &id
	next.RescheduleStaffIDs = append([]int64(nil), appt.StaffIDs...)
	next.TechnicianID = nil
	if len(appt.StaffIDs) == 1 {
		staffID := appt.StaffIDs[0]
		next.TechnicianID = &staffID
	}
	next.CustomerID = copyInt64(appt.CustomerID)
	next.GuestName = copyString(appt.GuestName)
	next.Notes = copyString(appt.Notes)
	next.PackageID = copyInt64(appt.PackageID)
	next.PackageSessionID = copyInt64(appt.PackageSessionID)
	next.Stage = StageTechnician
	return next, nil
}

// WithStartTime sets the appointment start
func (d BookingDraft) WithStartTime(start time.Time, now time.Time) (BookingDraft, error) {
	if d.ServiceID == nil || !d.HasTechnician() {
		return d, fmt.Errorf("%w: service and technician must be selected before time", ErrValidation)
	}
	if start.IsZero() {
		return d, fmt.Errorf("%w: start time is required", ErrValidation)
	}
	next := d.clone()
	next.StartTime = &start
	return next.advance(now), nil
}

// WithoutStartTime invalidates the chosen time and returns to the date/time stage
func (d BookingDraft) WithoutStartTime(now time.Time) BookingDraft {
	next := d.clone()
	next.StartTime = nil
	next.Stage = StageDateTime
	next.UpdatedAt = now
	return next
}

// WithoutTechnician drops a technician that can no longer perform the service,
// together with the chosen time, and returns to the technician stage
func (d BookingDraft) WithoutTechnician(now time.Time) BookingDraft {
	next := d.clone()
	next.TechnicianID = nil
	next.RescheduleStaffIDs = nil
	next.StartTime = nil
	next.Stage = StageTechnician
	next.UpdatedAt = now
	return next
}

// WithCustomer sets a registered customer or a guest name
func (d BookingDraft) WithCustomer(customerID *int64, guestName, notes *string, now time.Time) (BookingDraft, error) {
	if d.StartTime == nil {
		return d, fmt.Errorf("%w: time must be selected before customer info", ErrValidation)
	}
	if customerID == nil && (guestName == nil || strings.TrimSpace(*guestName) == "") {
		return d, fmt.Errorf("%w: customer id or guest name is required", ErrValidation)
	}
	if customerID != nil && *customerID <= 0 {
		return d, fmt.Errorf("%w: invalid customer id %d", ErrValidation, *customerID)
	}
	if guestName != nil && len(*guestName) > MaxGuestNameLength {
		return d, fmt.Errorf("%w: guest name exceeds %d characters", ErrValidation, MaxGuestNameLength)
	}
	if notes != nil && len(*notes) > MaxNotesLength {
		return d, fmt.Errorf("%w: notes exceed %d characters", ErrValidation, MaxNotesLength)
	}
	next := d.clone()
	next.CustomerID = customerID
	next.GuestName = guestName
	next.Notes = notes
	return next.advance(now), nil
}

// WithError records a failed confirmation; the draft stays on the confirmation stage
func (d BookingDraft) WithError(err error, now time.Time) BookingDraft {
	next := d.clone()
	next.LastError = err.Error()
	next.UpdatedAt = now
	return next
}

// BackTo moves to an earlier stage keeping every collected field
func (d BookingDraft) BackTo(stage BookingStage, now time.Time) (BookingDraft, error) {
	if !stage.IsValid() {
		return d, fmt.Errorf("%w: unknown stage %d", ErrValidation, int(stage))
	}
	if stage > d.Stage {
		return d, fmt.Errorf("%w: cannot go forward from %s to %s", ErrValidation, d.Stage, stage)
	}
	next := d.clone()
	next.Stage = stage
	next.UpdatedAt = now
	return next, nil
}

// ValidateComplete checks every stage is filled before commit
func (d BookingDraft) ValidateComplete() error {
	switch {
	case d.ServiceID == nil:
		return fmt.Errorf("%w: service is not selected", ErrValidation)
	case !d.HasTechnician():
		return fmt.Errorf("%w: technician is not selected", ErrValidation)
	case d.StartTime == nil:
		return fmt.Errorf("%w: time is not selected", ErrValidation)
	case d.CustomerID == nil && d.GuestName == nil:
		return fmt.Errorf("%w: customer info is missing", ErrValidation)
	}
	if d.Stage != StageConfirmation {
		return fmt.Errorf("%w: draft is on %s stage", ErrValidation, d.Stage)
	}
	return nil
}

// firstIncomplete returns the earliest stage missing data
func (d BookingDraft) firstIncomplete() BookingStage {
	switch {
	case d.ServiceID == nil:
		return StageService
	case !d.HasTechnician():
		return StageTechnician
	case d.StartTime == nil:
		return StageDateTime
	case d.CustomerID == nil && d.GuestName == nil:
		return StageCustomerInfo
	default:
		return StageConfirmation
	}
}

func (d BookingDraft) advance(now time.Time) BookingDraft {
	d.Stage = d.firstIncomplete()
	d.LastError = ""
	d.UpdatedAt = now
	return d
}

func (d BookingDraft) clone() BookingDraft {
	next := d
	next.ServiceID = copyInt64(d.ServiceID)
	next.TechnicianID = copyInt64(d.TechnicianID)
	next.CustomerID = copyInt64(d.CustomerID)
	next.RescheduleID = copyInt64(d.RescheduleID)
	next.PackageID = copyInt64(d.PackageID)
	next.PackageSessionID = copyInt64(d.PackageSessionID)
	next.GuestName = copyString(d.GuestName)
	next.Notes = copyString(d.Notes)
	if d.RescheduleStaffIDs != nil {
		next.RescheduleStaffIDs = append([]int64(nil), d.RescheduleStaffIDs...)
	}
	if d.StartTime != nil {
		start := *d.StartTime
		next.StartTime = &start
	}
	return next
}

func copyInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
