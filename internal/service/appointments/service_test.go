package appointments

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonScheduling/pkg/logger"
	"github.com/m04kA/SMC-SalonScheduling/pkg/ptr"
)

var slotStart = time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC)

type fakeAppointments struct {
	items    map[int64]*domain.Appointment
	workload map[int64]int
	filter   domain.AppointmentFilter
	err      error
}

func (f *fakeAppointments) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return a, nil
}

func (f *fakeAppointments) List(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	f.filter = filter
	var result []*domain.Appointment
	for _, a := range f.items {
		result = append(result, a)
	}
	return result, nil
}

func (f *fakeAppointments) CountActiveByStaff(_ context.Context, staffIDs []int64, _, _ time.Time) (map[int64]int, error) {
	result := make(map[int64]int, len(staffIDs))
	for _, id := range staffIDs {
		if n, ok := f.workload[id]; ok {
			result[id] = n
		}
	}
	return result, nil
}

// fakeHours рабочее окно 09:00-17:00 для всех, кроме offShift.
// hidden - интервалы, которые список слотов вычитает помимо детектора конфликтов.
type fakeHours struct {
	offShift map[int64]bool
	hidden   map[int64][]domain.Interval
	freeErr  error
}

func (f *fakeHours) IsFree(_ context.Context, staffID int64, interval domain.Interval, _ *int64) (bool, error) {
	if f.freeErr != nil {
		return false, f.freeErr
	}
	for _, h := range f.hidden[staffID] {
		if h.Overlaps(interval) {
			return false, nil
		}
	}
	return true, nil
}

func (f *fakeHours) IsWithinWorkingHours(_ context.Context, staffID int64, interval domain.Interval) (bool, error) {
	if f.offShift[staffID] {
		return false, nil
	}
	y, m, d := interval.Start.Date()
	window := domain.Interval{
		Start: time.Date(y, m, d, 9, 0, 0, 0, time.UTC),
		End:   time.Date(y, m, d, 17, 0, 0, 0, time.UTC),
	}
	return window.Contains(interval), nil
}

type fakeDetector struct {
	busy map[int64][]domain.Conflict
	err  error
}

func (f *fakeDetector) FindConflicts(_ context.Context, staffID int64, interval domain.Interval, exclude *int64) ([]domain.Conflict, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []domain.Conflict
	for _, c := range f.busy[staffID] {
		if exclude != nil && c.Kind == domain.ConflictAppointment && c.ID == *exclude {
			continue
		}
		if c.Interval().Overlaps(interval) {
			result = append(result, c)
		}
	}
	return result, nil
}

func newTestService(repo *fakeAppointments, hours *fakeHours, detector *fakeDetector) *Service {
	if repo == nil {
		repo = &fakeAppointments{}
	}
	if hours == nil {
		hours = &fakeHours{}
	}
	if detector == nil {
		detector = &fakeDetector{}
	}
	return NewService(repo, hours, detector, time.UTC, logger.NewWithWriter(io.Discard, logrus.InfoLevel))
}

func hour(start time.Time) domain.Interval {
	return domain.Interval{Start: start, End: start.Add(time.Hour)}
}

func TestGetByID(t *testing.T) {
	repo := &fakeAppointments{items: map[int64]*domain.Appointment{
		7: {ID: 7, ServiceID: 1, StaffIDs: []int64{3}, StartTime: slotStart, EndTime: slotStart.Add(90 * time.Minute),
			Status: domain.StatusUpcoming, PaymentStatus: domain.PaymentUnpaid},
	}}
	svc := newTestService(repo, nil, nil)

	resp, err := svc.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 90, resp.DurationMinutes)
	assert.Equal(t, "upcoming", resp.Status)
	assert.Equal(t, []int64{3}, resp.StaffIDs)

	_, err = svc.GetByID(context.Background(), 8)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	repo.err = errors.New("connection reset")
	_, err = svc.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestList(t *testing.T) {
	repo := &fakeAppointments{items: map[int64]*domain.Appointment{}}
	svc := newTestService(repo, nil, nil)

	resp, err := svc.List(context.Background(), &models.ListAppointmentsRequest{
		StaffID: ptr.Ptr(int64(4)),
		Status:  ptr.Ptr("checked-in"),
	})
	require.NoError(t, err)
	assert.NotNil(t, resp.Appointments)
	assert.Equal(t, []int64{4}, repo.filter.StaffIDs)
	assert.Equal(t, []domain.AppointmentStatus{domain.StatusCheckedIn}, repo.filter.Statuses)

	_, err = svc.List(context.Background(), &models.ListAppointmentsRequest{Status: ptr.Ptr("lost")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	from := slotStart
	to := slotStart.Add(-time.Hour)
	_, err = svc.List(context.Background(), &models.ListAppointmentsRequest{From: &from, To: &to})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestCheckAvailability(t *testing.T) {
	detector := &fakeDetector{busy: map[int64][]domain.Conflict{
		2: {{Kind: domain.ConflictAppointment, ID: 11, StaffID: 2, Start: slotStart, End: slotStart.Add(time.Hour)}},
	}}
	svc := newTestService(nil, nil, detector)
	ctx := context.Background()

	assert.NoError(t, svc.CheckAvailability(ctx, []int64{1}, hour(slotStart), nil))

	err := svc.CheckAvailability(ctx, []int64{1, 2}, hour(slotStart.Add(30*time.Minute)), nil)
	require.ErrorIs(t, err, domain.ErrConflict)
	conflicts, ok := domain.ConflictsFromError(err)
	require.True(t, ok)
	require.Len(t, conflicts, 1)
	assert.Equal(t, int64(11), conflicts[0].ID)

	// перенос той же записи не конфликтует сам с собой
	assert.NoError(t, svc.CheckAvailability(ctx, []int64{2}, hour(slotStart), ptr.Ptr(int64(11))))
}

func TestCheckAvailability_OffShift(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	err := svc.CheckAvailability(context.Background(), []int64{1}, hour(slotStart.Add(3*time.Hour)), nil)
	require.ErrorIs(t, err, domain.ErrConflict)
	conflicts, _ := domain.ConflictsFromError(err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, domain.ConflictOffShift, conflicts[0].Kind)
	assert.Equal(t, int64(1), conflicts[0].StaffID)
}

func TestCheckAvailability_DetectorFailure(t *testing.T) {
	svc := newTestService(nil, nil, &fakeDetector{err: errors.New("timeout")})

	err := svc.CheckAvailability(context.Background(), []int64{1}, hour(slotStart), nil)
	assert.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, domain.ErrConflict)
}

func TestPickStaff_LowestWorkload(t *testing.T) {
	repo := &fakeAppointments{workload: map[int64]int{3: 4, 5: 1, 8: 2}}
	svc := newTestService(repo, nil, nil)

	staffID, err := svc.PickStaff(context.Background(), []int64{8, 3, 5}, hour(slotStart), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), staffID)
}

func TestPickStaff_TieBrokenByLowestID(t *testing.T) {
	repo := &fakeAppointments{workload: map[int64]int{3: 1, 9: 1}}
	svc := newTestService(repo, nil, nil)

	staffID, err := svc.PickStaff(context.Background(), []int64{9, 3}, hour(slotStart), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), staffID)
}

func TestPickStaff_SkipsBusyAndOffShift(t *testing.T) {
	repo := &fakeAppointments{workload: map[int64]int{1: 0, 2: 0, 3: 6}}
	hours := &fakeHours{offShift: map[int64]bool{1: true}}
	detector := &fakeDetector{busy: map[int64][]domain.Conflict{
		2: {{Kind: domain.ConflictBlock, ID: 4, StaffID: 2, Start: slotStart, End: slotStart.Add(2 * time.Hour)}},
	}}
	svc := newTestService(repo, hours, detector)

	staffID, err := svc.PickStaff(context.Background(), []int64{1, 2, 3}, hour(slotStart), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), staffID)
}

func TestPickStaff_NoneFree(t *testing.T) {
	hours := &fakeHours{offShift: map[int64]bool{1: true, 2: true}}
	svc := newTestService(nil, hours, nil)

	_, err := svc.PickStaff(context.Background(), []int64{1, 2}, hour(slotStart), nil)
	require.ErrorIs(t, err, domain.ErrConflict)
	conflicts, _ := domain.ConflictsFromError(err)
	assert.Len(t, conflicts, 2)

	_, err = svc.PickStaff(context.Background(), nil, hour(slotStart), nil)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestPickStaff_SkipsStaffHiddenFromSlots(t *testing.T) {
	// у мастера 1 заявка на отсутствие в статусе PENDING 14:00-16:00 и меньшая загрузка
	repo := &fakeAppointments{workload: map[int64]int{1: 0, 2: 3}}
	hours := &fakeHours{hidden: map[int64][]domain.Interval{
		1: {{Start: slotStart, End: slotStart.Add(2 * time.Hour)}},
	}}
	svc := newTestService(repo, hours, nil)

	staffID, err := svc.PickStaff(context.Background(), []int64{1, 2}, hour(slotStart), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), staffID)
}

func TestCheckAvailability_HiddenFromSlots(t *testing.T) {
	hours := &fakeHours{hidden: map[int64][]domain.Interval{
		1: {{Start: slotStart, End: slotStart.Add(2 * time.Hour)}},
	}}
	svc := newTestService(nil, hours, nil)

	err := svc.CheckAvailability(context.Background(), []int64{1}, hour(slotStart.Add(time.Hour)), nil)
	require.ErrorIs(t, err, domain.ErrConflict)
	conflicts, _ := domain.ConflictsFromError(err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, domain.ConflictUnavailable, conflicts[0].Kind)

	assert.NoError(t, svc.CheckAvailability(context.Background(), []int64{1}, hour(slotStart.Add(2*time.Hour)), nil))
}

func TestCheckAvailability_FreeWindowsFailure(t *testing.T) {
	svc := newTestService(nil, &fakeHours{freeErr: errors.New("timeout")}, nil)

	err := svc.CheckAvailability(context.Background(), []int64{1}, hour(slotStart), nil)
	assert.ErrorIs(t, err, ErrInternal)
}
