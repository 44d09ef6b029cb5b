package domain

import (
	"fmt"
	"time"
)

// allowedTransitions lifecycle table. Anything not listed is rejected.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusUpcoming:   {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn:  {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusPaused, StatusCompleted},
	StatusPaused:     {StatusInProgress, StatusCompleted},
}

// CanTransition returns true if from → to is a listed transition
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrInvalidTransition for an unlisted transition
func ValidateTransition(from, to AppointmentStatus) error {
	if from.IsTerminal() {
		return fmt.Errorf("%w: appointment is already %s", ErrInvalidTransition, from)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// CheckInWindow returns [start - grace, end], inclusive on both sides
func (a *Appointment) CheckInWindow(grace time.Duration) (time.Time, time.Time) {
	return a.StartTime.Add(-grace), a.EndTime
}

// ValidateCheckIn checks status and the grace window at now
func (a *Appointment) ValidateCheckIn(now time.Time, grace time.Duration) error {
	if err := ValidateTransition(a.Status, StatusCheckedIn); err != nil {
		return err
	}
	opens, closes := a.CheckInWindow(grace)
	if now.Before(opens) {
		return fmt.Errorf("%w: check-in opens at %s", ErrInvalidTransition, opens.Format(time.RFC3339))
	}
	if now.After(closes) {
		return fmt.Errorf("%w: check-in closed at %s", ErrInvalidTransition, closes.Format(time.RFC3339))
	}
	return nil
}

// ValidateNoShow checks that the appointment ended without a check-in
func (a *Appointment) ValidateNoShow(now time.Time) error {
	if err := ValidateTransition(a.Status, StatusNoShow); err != nil {
		return err
	}
	if a.CheckedInAt != nil {
		return fmt.Errorf("%w: appointment was checked in", ErrInvalidTransition)
	}
	if !now.After(a.EndTime) {
		return fmt.Errorf("%w: no-show is allowed only after %s", ErrInvalidTransition, a.EndTime.Format(time.RFC3339))
	}
	return nil
}

// ValidateCancel checks status and the mandatory reason
func (a *Appointment) ValidateCancel(reason string) error {
	if err := ValidateTransition(a.Status, StatusCancelled); err != nil {
		return err
	}
	if reason == "" {
		return fmt.Errorf("%w: cancellation reason is required", ErrValidation)
	}
	if len(reason) > MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrValidation, MaxCancellationReasonLength)
	}
	return nil
}
