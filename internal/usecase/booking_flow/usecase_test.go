package booking_flow

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/appointment"
	draftRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/draft"
	"github.com/m04kA/SMC-SalonScheduling/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonScheduling/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SalonScheduling/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-SalonScheduling/pkg/logger"
	"github.com/m04kA/SMC-SalonScheduling/pkg/ptr"
)

var (
	now   = time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	tenAM = time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type fakeAppointments struct {
	items map[int64]*domain.Appointment
}

func (f *fakeAppointments) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return a, nil
}

// fakeAvailability мастер 5 занят с 10:00 до 11:00
type fakeAvailability struct{}

func (fakeAvailability) busy(staffID int64, interval domain.Interval) bool {
	blocked := domain.Interval{Start: tenAM, End: tenAM.Add(time.Hour)}
	return staffID == 5 && blocked.Overlaps(interval)
}

func (f fakeAvailability) CheckAvailability(_ context.Context, staffIDs []int64, interval domain.Interval, _ *int64) error {
	for _, id := range staffIDs {
		if f.busy(id, interval) {
			return domain.NewConflictError("requested time is not available", []domain.Conflict{
				{Kind: domain.ConflictAppointment, ID: 50, StaffID: id, Start: tenAM, End: tenAM.Add(time.Hour)},
			})
		}
	}
	return nil
}

func (f fakeAvailability) PickStaff(_ context.Context, candidates []int64, interval domain.Interval, _ *int64) (int64, error) {
	for _, id := range candidates {
		if !f.busy(id, interval) {
			return id, nil
		}
	}
	return 0, domain.NewConflictError("no technician is available at the requested time", nil)
}

type fakeCatalog struct{}

func (fakeCatalog) GetService(_ context.Context, serviceID int64) (*catalogservice.Service, error) {
	switch serviceID {
	case 1:
		return &catalogservice.Service{ID: 1, Name: "Massage", DurationMinutes: 60, IsActive: true}, nil
	case 2:
		return &catalogservice.Service{ID: 2, Name: "Manicure", DurationMinutes: 30, IsActive: true}, nil
	}
	return nil, catalogservice.ErrServiceNotFound
}

func (fakeCatalog) ListQualifiedStaff(_ context.Context, serviceID int64) ([]int64, error) {
	if serviceID == 2 {
		return []int64{5}, nil
	}
	return []int64{3, 5}, nil
}

type fakeCreator struct {
	requests []*create_appointment.Request
	err      error
}

func (f *fakeCreator) Execute(_ context.Context, req *create_appointment.Request) (*models.AppointmentResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: 100, StaffIDs: req.StaffIDs, StartTime: req.StartTime}, nil
}

type fakeRescheduler struct {
	requests []*reschedule_appointment.Request
}

func (f *fakeRescheduler) Execute(_ context.Context, req *reschedule_appointment.Request) (*models.AppointmentResponse, error) {
	f.requests = append(f.requests, req)
	return &models.AppointmentResponse{ID: req.AppointmentID, StaffIDs: req.StaffIDs, StartTime: req.StartTime}, nil
}

type fixture struct {
	uc          *UseCase
	mr          *miniredis.Miniredis
	creator     *fakeCreator
	rescheduler *fakeRescheduler
	appts       *fakeAppointments
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &fixture{
		mr:          mr,
		creator:     &fakeCreator{},
		rescheduler: &fakeRescheduler{},
		appts:       &fakeAppointments{items: map[int64]*domain.Appointment{}},
	}
	f.uc = NewUseCase(
		draftRepo.NewRepository(client, 30*time.Minute),
		f.appts,
		fakeAvailability{},
		fakeCatalog{},
		f.creator,
		f.rescheduler,
		logger.NewWithWriter(io.Discard, logrus.InfoLevel),
	).WithTimeProvider(fixedTime{now})
	return f
}

// completeDraft проводит черновик до шага подтверждения
func completeDraft(t *testing.T, f *fixture, staffID int64, start time.Time) string {
	t.Helper()
	ctx := context.Background()

	d, err := f.uc.Start(ctx, &StartRequest{ServiceID: ptr.Ptr(int64(1))})
	require.NoError(t, err)
	_, err = f.uc.SetTechnician(ctx, &TechnicianRequest{DraftID: d.ID, StaffID: staffID})
	require.NoError(t, err)
	_, err = f.uc.SetTime(ctx, &TimeRequest{DraftID: d.ID, StartTime: start})
	require.NoError(t, err)
	resp, err := f.uc.SetCustomer(ctx, &CustomerRequest{DraftID: d.ID, GuestName: ptr.Ptr("Anna")})
	require.NoError(t, err)
	require.Equal(t, int(domain.StageConfirmation), resp.Stage)
	return d.ID
}

func TestFlow_StagesInOrderAndConfirm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.uc.Start(ctx, &StartRequest{})
	require.NoError(t, err)
	assert.Equal(t, int(domain.StageService), d.Stage)

	resp, err := f.uc.SetService(ctx, d.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "technician", resp.StageName)
	assert.Equal(t, 60, resp.DurationMinutes)

	resp, err = f.uc.SetTechnician(ctx, &TechnicianRequest{DraftID: d.ID, StaffID: 3})
	require.NoError(t, err)
	assert.Equal(t, int(domain.StageDateTime), resp.Stage)

	resp, err = f.uc.SetTime(ctx, &TimeRequest{DraftID: d.ID, StartTime: tenAM})
	require.NoError(t, err)
	assert.Equal(t, int(domain.StageCustomerInfo), resp.Stage)
	assert.Equal(t, tenAM.Add(time.Hour), *resp.EndTime)

	resp, err = f.uc.SetCustomer(ctx, &CustomerRequest{DraftID: d.ID, GuestName: ptr.Ptr("Anna")})
	require.NoError(t, err)
	assert.Equal(t, int(domain.StageConfirmation), resp.Stage)

	appt, err := f.uc.Confirm(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), appt.ID)

	require.Len(t, f.creator.requests, 1)
	req := f.creator.requests[0]
	assert.Equal(t, []int64{3}, req.StaffIDs)
	assert.Equal(t, tenAM, req.StartTime)
	assert.Equal(t, "Anna", *req.GuestName)

	_, err = f.uc.Get(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFlow_PreselectedServiceStartsAtTechnician(t *testing.T) {
	f := newFixture(t)

	d, err := f.uc.Start(context.Background(), &StartRequest{ServiceID: ptr.Ptr(int64(1))})
	require.NoError(t, err)
	assert.Equal(t, int(domain.StageTechnician), d.Stage)

	_, err = f.uc.Start(context.Background(), &StartRequest{ServiceID: ptr.Ptr(int64(9))})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFlow_SkippingStageIsRejected(t *testing.T) {
	f := newFixture(t)

	d, err := f.uc.Start(context.Background(), &StartRequest{})
	require.NoError(t, err)

	_, err = f.uc.SetTime(context.Background(), &TimeRequest{DraftID: d.ID, StartTime: tenAM})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.Confirm(context.Background(), d.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.creator.requests)
}

func TestFlow_ChangingTechnicianKeepsTimeWhenFree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := completeDraft(t, f, 3, tenAM.Add(2*time.Hour))

	_, err := f.uc.Back(ctx, &BackRequest{DraftID: id, Stage: int(domain.StageTechnician)})
	require.NoError(t, err)

	resp, err := f.uc.SetTechnician(ctx, &TechnicianRequest{DraftID: id, StaffID: 5})
	require.NoError(t, err)
	assert.Equal(t, int(domain.StageConfirmation), resp.Stage)
	assert.Equal(t, tenAM.Add(2*time.Hour), *resp.StartTime)
}

func TestFlow_ChangingTechnicianInvalidatesBusyTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := completeDraft(t, f, 3, tenAM)

	_, err := f.uc.Back(ctx, &BackRequest{DraftID: id, Stage: int(domain.StageTechnician)})
	require.NoError(t, err)

	resp, err := f.uc.SetTechnician(ctx, &TechnicianRequest{DraftID: id, StaffID: 5})
	require.NoError(t, err)
	assert.Equal(t, int(domain.StageDateTime), resp.Stage)
	assert.Nil(t, resp.StartTime)
	assert.Equal(t, "Anna", *resp.GuestName)
}

func TestFlow_ChangingServiceDropsUnqualifiedTechnician(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := completeDraft(t, f, 3, tenAM)

	resp, err := f.uc.SetService(ctx, id, 2)
	require.NoError(t, err)
	assert.Equal(t, int(domain.StageTechnician), resp.Stage)
	assert.Nil(t, resp.TechnicianID)
	assert.Equal(t, 30, resp.DurationMinutes)
}

func TestFlow_AnyTechnicianResolvedOnlyAtCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := completeDraft(t, f, domain.AnyStaff, tenAM)

	_, err := f.uc.Confirm(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []int64{domain.AnyStaff}, f.creator.requests[0].StaffIDs)
}

func TestFlow_BusyTimeRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.uc.Start(ctx, &StartRequest{ServiceID: ptr.Ptr(int64(1))})
	require.NoError(t, err)
	_, err = f.uc.SetTechnician(ctx, &TechnicianRequest{DraftID: d.ID, StaffID: 5})
	require.NoError(t, err)

	_, err = f.uc.SetTime(ctx, &TimeRequest{DraftID: d.ID, StartTime: tenAM.Add(30 * time.Minute)})
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.SetTime(ctx, &TimeRequest{DraftID: d.ID, StartTime: now.Add(-time.Hour)})
	assert.ErrorIs(t, err, ErrStartInPast)

	got, err := f.uc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, int(domain.StageDateTime), got.Stage)
	assert.Nil(t, got.StartTime)
}

func TestFlow_ConfirmFailureKeepsDraftOnConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := completeDraft(t, f, 3, tenAM)
	f.creator.err = domain.NewConflictError("staff was booked by a concurrent request", nil)

	_, err := f.uc.Confirm(ctx, id)
	require.ErrorIs(t, err, domain.ErrConflict)

	got, err := f.uc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int(domain.StageConfirmation), got.Stage)
	assert.Contains(t, got.LastError, "concurrent request")
	assert.Equal(t, tenAM, *got.StartTime)
	assert.Equal(t, "Anna", *got.GuestName)
}

func TestFlow_RescheduleDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.appts.items[7] = &domain.Appointment{
		ID: 7, CustomerID: ptr.Ptr(int64(42)), ServiceID: 1, StaffIDs: []int64{3},
		StartTime: tenAM, EndTime: tenAM.Add(45 * time.Minute), Status: domain.StatusUpcoming,
		PackageID: ptr.Ptr(int64(70)), PackageSessionID: ptr.Ptr(int64(701)),
	}
	f.appts.items[8] = &domain.Appointment{ID: 8, ServiceID: 1, StaffIDs: []int64{3}, Status: domain.StatusCompleted}

	d, err := f.uc.Start(ctx, &StartRequest{RescheduleID: ptr.Ptr(int64(7))})
	require.NoError(t, err)
	assert.Equal(t, int(domain.StageTechnician), d.Stage)
	assert.Equal(t, 45, d.DurationMinutes)
	require.NotNil(t, d.TechnicianID)
	assert.Equal(t, int64(3), *d.TechnicianID)
	assert.Equal(t, int64(42), *d.CustomerID)
	assert.Equal(t, int64(701), *d.PackageSessionID)

	_, err = f.uc.SetService(ctx, d.ID, 2)
	assert.ErrorIs(t, err, ErrServiceLocked)

	_, err = f.uc.SetTechnician(ctx, &TechnicianRequest{DraftID: d.ID, StaffID: 3})
	require.NoError(t, err)
	resp, err := f.uc.SetTime(ctx, &TimeRequest{DraftID: d.ID, StartTime: tenAM.Add(3 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, int(domain.StageConfirmation), resp.Stage)

	_, err = f.uc.Confirm(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, f.rescheduler.requests, 1)
	assert.Equal(t, int64(7), f.rescheduler.requests[0].AppointmentID)
	assert.Nil(t, f.rescheduler.requests[0].StaffIDs, "same technician keeps the current staff")
	assert.Empty(t, f.creator.requests)

	_, err = f.uc.Start(ctx, &StartRequest{RescheduleID: ptr.Ptr(int64(8))})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.Start(ctx, &StartRequest{RescheduleID: ptr.Ptr(int64(9))})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFlow_AbandonedDraftExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.uc.Start(ctx, &StartRequest{})
	require.NoError(t, err)

	f.mr.FastForward(31 * time.Minute)

	_, err = f.uc.Get(ctx, d.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestFlow_RescheduleDraftKeepsTwoStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.appts.items[11] = &domain.Appointment{
		ID: 11, GuestName: ptr.Ptr("Anna"), ServiceID: 1, StaffIDs: []int64{3, 5},
		StartTime: tenAM.Add(4 * time.Hour), EndTime: tenAM.Add(5 * time.Hour), Status: domain.StatusUpcoming,
	}

	d, err := f.uc.Start(ctx, &StartRequest{RescheduleID: ptr.Ptr(int64(11))})
	require.NoError(t, err)
	assert.Equal(t, int(domain.StageTechnician), d.Stage)
	assert.Nil(t, d.TechnicianID)
	assert.Equal(t, []int64{3, 5}, d.RescheduleStaff)

	// мастер 5 занят с 10:00, проверяется весь состав
	_, err = f.uc.SetTime(ctx, &TimeRequest{DraftID: d.ID, StartTime: tenAM.Add(30 * time.Minute)})
	assert.ErrorIs(t, err, domain.ErrConflict)

	resp, err := f.uc.SetTime(ctx, &TimeRequest{DraftID: d.ID, StartTime: tenAM.Add(2 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, int(domain.StageConfirmation), resp.Stage)

	_, err = f.uc.Confirm(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, f.rescheduler.requests, 1)
	assert.Nil(t, f.rescheduler.requests[0].StaffIDs)
	assert.True(t, f.rescheduler.requests[0].StartTime.Equal(tenAM.Add(2*time.Hour)))
}

func TestFlow_RescheduleDraftWithNewTechnician(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.appts.items[12] = &domain.Appointment{
		ID: 12, GuestName: ptr.Ptr("Anna"), ServiceID: 1, StaffIDs: []int64{3, 5},
		StartTime: tenAM.Add(4 * time.Hour), EndTime: tenAM.Add(5 * time.Hour), Status: domain.StatusUpcoming,
	}

	d, err := f.uc.Start(ctx, &StartRequest{RescheduleID: ptr.Ptr(int64(12))})
	require.NoError(t, err)

	resp, err := f.uc.SetTechnician(ctx, &TechnicianRequest{DraftID: d.ID, StaffID: 3})
	require.NoError(t, err)
	assert.Empty(t, resp.RescheduleStaff)

	// без мастера 5 время с 10:30 свободно
	_, err = f.uc.SetTime(ctx, &TimeRequest{DraftID: d.ID, StartTime: tenAM.Add(30 * time.Minute)})
	require.NoError(t, err)

	_, err = f.uc.Confirm(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, f.rescheduler.requests, 1)
	assert.Equal(t, []int64{3}, f.rescheduler.requests[0].StaffIDs)
}
