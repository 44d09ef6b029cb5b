package reschedule_appointment

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonScheduling/pkg/logger"
)

var (
	now   = time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	tenAM = time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	items       map[int64]*domain.Appointment
	rescheduled *domain.Appointment
	err         error
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeRepo) Reschedule(_ context.Context, appt *domain.Appointment, at time.Time) error {
	if f.err != nil {
		return f.err
	}
	appt.UpdatedAt = at
	f.rescheduled = appt
	return nil
}

type fakeAssigner struct {
	busy     map[int64]bool
	excluded *int64
	checked  []int64
}

func (f *fakeAssigner) CheckAvailability(_ context.Context, staffIDs []int64, interval domain.Interval, exclude *int64) error {
	f.excluded = exclude
	f.checked = staffIDs
	for _, id := range staffIDs {
		if f.busy[id] {
			return domain.NewConflictError("requested time is not available", []domain.Conflict{
				{Kind: domain.ConflictTimeOff, ID: 4, StaffID: id, Start: interval.Start, End: interval.End},
			})
		}
	}
	return nil
}

func (f *fakeAssigner) PickStaff(_ context.Context, candidates []int64, _ domain.Interval, exclude *int64) (int64, error) {
	f.excluded = exclude
	for _, id := range candidates {
		if !f.busy[id] {
			return id, nil
		}
	}
	return 0, domain.NewConflictError("no technician is available at the requested time", nil)
}

type fakeCatalog struct{}

func (fakeCatalog) ListQualifiedStaff(_ context.Context, _ int64) ([]int64, error) {
	return []int64{3, 5, 8}, nil
}

type fakeMetrics struct{ conflicts []string }

func (f *fakeMetrics) ObserveBookingConflict(source string) { f.conflicts = append(f.conflicts, source) }

func newFixture(status domain.AppointmentStatus) (*UseCase, *fakeRepo, *fakeAssigner, *fakeMetrics) {
	repo := &fakeRepo{items: map[int64]*domain.Appointment{
		11: {
			ID: 11, GuestName: func() *string { s := "Anna"; return &s }(), ServiceID: 1,
			StaffIDs: []int64{3}, StartTime: tenAM, EndTime: tenAM.Add(45 * time.Minute),
			Status: status, PaymentStatus: domain.PaymentUnpaid,
		},
	}}
	assigner := &fakeAssigner{busy: map[int64]bool{}}
	metrics := &fakeMetrics{}
	uc := NewUseCase(repo, assigner, fakeCatalog{}, passthroughTx{}, metrics,
		logger.NewWithWriter(io.Discard, logrus.InfoLevel)).WithTimeProvider(fixedTime{now})
	return uc, repo, assigner, metrics
}

func TestExecute_KeepsDurationAndStaff(t *testing.T) {
	uc, repo, assigner, _ := newFixture(domain.StatusUpcoming)
	newStart := tenAM.Add(3 * time.Hour)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 11, StartTime: newStart})
	require.NoError(t, err)
	assert.Equal(t, newStart, resp.StartTime)
	assert.Equal(t, newStart.Add(45*time.Minute), resp.EndTime)
	assert.Equal(t, []int64{3}, resp.StaffIDs)
	require.NotNil(t, assigner.excluded)
	assert.Equal(t, int64(11), *assigner.excluded)
	assert.Equal(t, now, repo.rescheduled.UpdatedAt)
}

func TestExecute_NewStaffMustBeQualified(t *testing.T) {
	uc, _, assigner, _ := newFixture(domain.StatusUpcoming)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 11, StartTime: tenAM, StaffIDs: []int64{8}})
	require.NoError(t, err)
	assert.Equal(t, []int64{8}, resp.StaffIDs)
	assert.Equal(t, []int64{8}, assigner.checked)

	_, err = uc.Execute(context.Background(), &Request{AppointmentID: 11, StartTime: tenAM, StaffIDs: []int64{4}})
	assert.ErrorIs(t, err, ErrStaffNotQualified)
}

func TestExecute_AnyStaff(t *testing.T) {
	uc, _, assigner, _ := newFixture(domain.StatusUpcoming)
	assigner.busy[3] = true

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 11, StartTime: tenAM, StaffIDs: []int64{domain.AnyStaff}})
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, resp.StaffIDs)
}

func TestExecute_OnlyUpcoming(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{
		domain.StatusCheckedIn, domain.StatusInProgress, domain.StatusCompleted, domain.StatusCancelled, domain.StatusNoShow,
	} {
		t.Run(string(status), func(t *testing.T) {
			uc, repo, _, _ := newFixture(status)
			_, err := uc.Execute(context.Background(), &Request{AppointmentID: 11, StartTime: tenAM.Add(time.Hour)})
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			assert.Nil(t, repo.rescheduled)
		})
	}
}

func TestExecute_Conflict(t *testing.T) {
	uc, repo, assigner, metrics := newFixture(domain.StatusUpcoming)
	assigner.busy[3] = true

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 11, StartTime: tenAM.Add(time.Hour)})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Nil(t, repo.rescheduled)
	assert.Equal(t, []string{"time_off"}, metrics.conflicts)
}

func TestExecute_StorageErrors(t *testing.T) {
	uc, repo, _, metrics := newFixture(domain.StatusUpcoming)

	repo.err = appointmentRepo.ErrStaffBusy
	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 11, StartTime: tenAM.Add(time.Hour)})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, []string{"storage"}, metrics.conflicts)

	repo.err = appointmentRepo.ErrStatusChanged
	_, err = uc.Execute(context.Background(), &Request{AppointmentID: 11, StartTime: tenAM.Add(time.Hour)})
	assert.ErrorIs(t, err, ErrNotReschedulable)
}

func TestExecute_InputErrors(t *testing.T) {
	uc, _, _, _ := newFixture(domain.StatusUpcoming)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{AppointmentID: 12, StartTime: tenAM})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Execute(ctx, &Request{AppointmentID: 11, StartTime: now.Add(-time.Hour)})
	assert.ErrorIs(t, err, ErrStartInPast)

	_, err = uc.Execute(ctx, &Request{AppointmentID: 0, StartTime: tenAM})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
