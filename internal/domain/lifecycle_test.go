package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []AppointmentStatus{
	StatusUpcoming, StatusCheckedIn, StatusInProgress, StatusPaused,
	StatusCompleted, StatusCancelled, StatusNoShow,
}

func TestValidateTransition_Matrix(t *testing.T) {
	allowed := map[[2]AppointmentStatus]bool{
		{StatusUpcoming, StatusCheckedIn}:   true,
		{StatusUpcoming, StatusCancelled}:   true,
		{StatusUpcoming, StatusNoShow}:      true,
		{StatusCheckedIn, StatusInProgress}: true,
		{StatusCheckedIn, StatusCompleted}:  true,
		{StatusCheckedIn, StatusCancelled}:  true,
		{StatusInProgress, StatusPaused}:    true,
		{StatusInProgress, StatusCompleted}: true,
		{StatusPaused, StatusInProgress}:    true,
		{StatusPaused, StatusCompleted}:     true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := ValidateTransition(from, to)
			if allowed[[2]AppointmentStatus{from, to}] {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", from, to)
			}
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range allStatuses {
		terminal := s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
		assert.Equal(t, terminal, s.IsTerminal(), s)
		assert.Equal(t, !terminal, s.IsActive(), s)
	}
}

func TestAppointment_ValidateCheckIn_GraceWindow(t *testing.T) {
	appt := &Appointment{Status: StatusUpcoming, StartTime: at(10, 0), EndTime: at(10, 30)}
	grace := 15 * time.Minute

	assert.ErrorIs(t, appt.ValidateCheckIn(at(9, 40), grace), ErrInvalidTransition)
	assert.NoError(t, appt.ValidateCheckIn(at(9, 45), grace))
	assert.NoError(t, appt.ValidateCheckIn(at(9, 50), grace))
	assert.NoError(t, appt.ValidateCheckIn(at(10, 30), grace))
	assert.ErrorIs(t, appt.ValidateCheckIn(at(10, 31), grace), ErrInvalidTransition)

	appt.Status = StatusCheckedIn
	assert.ErrorIs(t, appt.ValidateCheckIn(at(10, 0), grace), ErrInvalidTransition)
}

func TestAppointment_ValidateNoShow(t *testing.T) {
	appt := &Appointment{Status: StatusUpcoming, StartTime: at(10, 0), EndTime: at(10, 30)}

	assert.ErrorIs(t, appt.ValidateNoShow(at(10, 30)), ErrInvalidTransition)
	assert.NoError(t, appt.ValidateNoShow(at(10, 31)))

	checkedIn := at(9, 55)
	appt.CheckedInAt = &checkedIn
	assert.ErrorIs(t, appt.ValidateNoShow(at(11, 0)), ErrInvalidTransition)
}

func TestAppointment_ValidateCancel(t *testing.T) {
	appt := &Appointment{Status: StatusUpcoming}

	assert.ErrorIs(t, appt.ValidateCancel(""), ErrValidation)
	require.NoError(t, appt.ValidateCancel("client called"))

	appt.Status = StatusInProgress
	assert.ErrorIs(t, appt.ValidateCancel("client called"), ErrInvalidTransition)
}

func TestAppointment_Validate(t *testing.T) {
	guest := "Anna"
	appt := &Appointment{
		GuestName: &guest,
		ServiceID: 3,
		StaffIDs:  []int64{1, 2},
		StartTime: at(10, 0),
		EndTime:   at(11, 0),
	}
	require.NoError(t, appt.Validate())

	appt.StaffIDs = []int64{1, 1}
	assert.ErrorIs(t, appt.Validate(), ErrValidation)

	appt.StaffIDs = []int64{1}
	appt.EndTime = appt.StartTime
	assert.ErrorIs(t, appt.Validate(), ErrValidation)
}
