package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonScheduling/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SalonScheduling/internal/integrations/customerservice"
	"github.com/m04kA/SMC-SalonScheduling/pkg/logger"
	"github.com/m04kA/SMC-SalonScheduling/pkg/ptr"
)

var (
	now     = time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	tenAM   = time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
	guest   = ptr.Ptr("Anna")
	massage = int64(1)
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// commitFailTx выполняет fn и падает на COMMIT, как проигравшая SERIALIZABLE транзакция
type commitFailTx struct{}

func (commitFailTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return fmt.Errorf("txmanager: failed to commit transaction: %w", &pq.Error{Code: "40001"})
}

// fakeRepo эмулирует EXCLUDE ограничение appointment_staff
type fakeRepo struct {
	created []*domain.Appointment
}

func (f *fakeRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	for _, existing := range f.created {
		for _, staffID := range appt.StaffIDs {
			if existing.HasStaff(staffID) && existing.Interval().Overlaps(appt.Interval()) {
				return nil, appointmentRepo.ErrStaffBusy
			}
		}
	}
	created := *appt
	created.ID = int64(len(f.created) + 1)
	created.CreatedAt = now
	created.UpdatedAt = now
	f.created = append(f.created, &created)
	return &created, nil
}

type fakeAssigner struct {
	busy      map[int64]bool
	picked    int64
	checked   []int64
	pickCalls int
}

func (f *fakeAssigner) CheckAvailability(_ context.Context, staffIDs []int64, interval domain.Interval, _ *int64) error {
	f.checked = staffIDs
	var conflicts []domain.Conflict
	for _, id := range staffIDs {
		if f.busy[id] {
			conflicts = append(conflicts, domain.Conflict{Kind: domain.ConflictAppointment, ID: 99, StaffID: id, Start: interval.Start, End: interval.End})
		}
	}
	if len(conflicts) > 0 {
		return domain.NewConflictError("requested time is not available", conflicts)
	}
	return nil
}

func (f *fakeAssigner) PickStaff(_ context.Context, candidates []int64, interval domain.Interval, _ *int64) (int64, error) {
	f.pickCalls++
	for _, id := range candidates {
		if !f.busy[id] {
			f.picked = id
			return id, nil
		}
	}
	return 0, domain.NewConflictError("no technician is available at the requested time", []domain.Conflict{
		{Kind: domain.ConflictBlock, StaffID: candidates[0], Start: interval.Start, End: interval.End},
	})
}

type fakeCatalog struct {
	packages map[int64]*catalogservice.Package
	err      error
}

func (f *fakeCatalog) GetService(_ context.Context, serviceID int64) (*catalogservice.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	switch serviceID {
	case massage:
		return &catalogservice.Service{ID: massage, Name: "Massage", DurationMinutes: 30, Price: 50, IsActive: true}, nil
	case 2:
		return &catalogservice.Service{ID: 2, Name: "Retired", DurationMinutes: 30, IsActive: false}, nil
	}
	return nil, catalogservice.ErrServiceNotFound
}

func (f *fakeCatalog) ListQualifiedStaff(_ context.Context, _ int64) ([]int64, error) {
	return []int64{3, 5}, nil
}

func (f *fakeCatalog) GetPackage(_ context.Context, packageID int64) (*catalogservice.Package, error) {
	pkg, ok := f.packages[packageID]
	if !ok {
		return nil, catalogservice.ErrPackageNotFound
	}
	return pkg, nil
}

type fakeCustomers struct {
	err error
}

func (f *fakeCustomers) GetCustomerWithGracefulDegradation(_ context.Context, customerID int64) (*customerservice.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &customerservice.Customer{ID: customerID, FirstName: "Olga", IsActive: true}, nil
}

type fakeMetrics struct {
	created   []string
	conflicts []string
}

func (f *fakeMetrics) ObserveAppointmentCreated(mode string) { f.created = append(f.created, mode) }
func (f *fakeMetrics) ObserveBookingConflict(source string)  { f.conflicts = append(f.conflicts, source) }

type fixture struct {
	uc        *UseCase
	repo      *fakeRepo
	assigner  *fakeAssigner
	catalog   *fakeCatalog
	customers *fakeCustomers
	metrics   *fakeMetrics
}

func newFixture() *fixture {
	f := &fixture{
		repo:      &fakeRepo{},
		assigner:  &fakeAssigner{busy: map[int64]bool{}},
		catalog:   &fakeCatalog{packages: map[int64]*catalogservice.Package{}},
		customers: &fakeCustomers{},
		metrics:   &fakeMetrics{},
	}
	f.uc = NewUseCase(f.repo, f.assigner, f.catalog, f.customers, passthroughTx{}, f.metrics,
		logger.NewWithWriter(io.Discard, logrus.InfoLevel)).WithTimeProvider(fixedTime{now})
	return f
}

func TestExecute_ConcreteStaff(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		GuestName: guest,
		ServiceID: massage,
		StaffIDs:  []int64{5},
		StartTime: tenAM,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, resp.StaffIDs)
	assert.Equal(t, tenAM.Add(30*time.Minute), resp.EndTime)
	assert.Equal(t, "upcoming", resp.Status)
	assert.Equal(t, "unpaid", resp.PaymentStatus)
	assert.Equal(t, []int64{5}, f.assigner.checked)
	assert.Zero(t, f.assigner.pickCalls)
	assert.Equal(t, []string{modeStaff}, f.metrics.created)
}

func TestExecute_AnyStaffResolvedAtCommit(t *testing.T) {
	f := newFixture()
	f.assigner.busy[3] = true

	resp, err := f.uc.Execute(context.Background(), &Request{
		GuestName: guest,
		ServiceID: massage,
		StaffIDs:  []int64{domain.AnyStaff},
		StartTime: tenAM,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, resp.StaffIDs)
	assert.Equal(t, 1, f.assigner.pickCalls)
	assert.Equal(t, []string{modeAny}, f.metrics.created)
}

func TestExecute_ConflictSurfacesItems(t *testing.T) {
	f := newFixture()
	f.assigner.busy[5] = true

	_, err := f.uc.Execute(context.Background(), &Request{
		GuestName: guest,
		ServiceID: massage,
		StaffIDs:  []int64{5},
		StartTime: tenAM,
	})
	require.ErrorIs(t, err, domain.ErrConflict)
	conflicts, ok := domain.ConflictsFromError(err)
	require.True(t, ok)
	require.Len(t, conflicts, 1)
	assert.Equal(t, int64(99), conflicts[0].ID)
	assert.Equal(t, []string{"appointment"}, f.metrics.conflicts)
	assert.Empty(t, f.repo.created)
}

// Два подтверждения на один интервал: проверка второго видит устаревшие данные,
// и пересечение ловит хранилище.
func TestExecute_ConcurrentBookingRejectedByStorage(t *testing.T) {
	f := newFixture()
	req := &Request{GuestName: guest, ServiceID: massage, StaffIDs: []int64{3}, StartTime: tenAM}

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, f.repo.created, 1)
	assert.Equal(t, []string{"storage"}, f.metrics.conflicts)
}

func TestExecute_SerializationFailureOnCommit(t *testing.T) {
	f := newFixture()
	f.uc.txManager = commitFailTx{}

	_, err := f.uc.Execute(context.Background(), &Request{GuestName: guest, ServiceID: massage, StaffIDs: []int64{3}, StartTime: tenAM})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, []string{"storage"}, f.metrics.conflicts)
	assert.Empty(t, f.metrics.created)
}

func TestExecute_Package(t *testing.T) {
	f := newFixture()
	f.catalog.packages[7] = &catalogservice.Package{ID: 7, CustomerID: 42, ServiceID: massage, TotalSessions: 5, RemainingSessions: 2}
	f.catalog.packages[8] = &catalogservice.Package{ID: 8, CustomerID: 42, ServiceID: massage, TotalSessions: 5, RemainingSessions: 0}
	f.catalog.packages[9] = &catalogservice.Package{ID: 9, CustomerID: 43, ServiceID: massage, TotalSessions: 5, RemainingSessions: 3}
	ctx := context.Background()

	resp, err := f.uc.Execute(ctx, &Request{
		CustomerID: ptr.Ptr(int64(42)), ServiceID: massage, StaffIDs: []int64{3}, StartTime: tenAM,
		PackageID: ptr.Ptr(int64(7)), PackageSessionID: ptr.Ptr(int64(71)),
	})
	require.NoError(t, err)
	assert.Equal(t, "package", resp.PaymentStatus)
	assert.Equal(t, int64(71), *resp.PackageSessionID)

	_, err = f.uc.Execute(ctx, &Request{CustomerID: ptr.Ptr(int64(42)), ServiceID: massage, StartTime: tenAM, PackageID: ptr.Ptr(int64(8))})
	assert.ErrorIs(t, err, ErrPackageExhausted)

	_, err = f.uc.Execute(ctx, &Request{CustomerID: ptr.Ptr(int64(42)), ServiceID: massage, StartTime: tenAM, PackageID: ptr.Ptr(int64(9))})
	assert.ErrorIs(t, err, ErrPackageMismatch)

	_, err = f.uc.Execute(ctx, &Request{CustomerID: ptr.Ptr(int64(42)), ServiceID: massage, StartTime: tenAM, PackageID: ptr.Ptr(int64(10))})
	assert.ErrorIs(t, err, ErrPackageNotFound)
}

func TestExecute_CustomerServiceDegraded(t *testing.T) {
	f := newFixture()
	f.customers.err = customerservice.ErrServiceDegraded

	_, err := f.uc.Execute(context.Background(), &Request{
		CustomerID: ptr.Ptr(int64(42)), ServiceID: massage, StaffIDs: []int64{3}, StartTime: tenAM,
	})
	require.NoError(t, err)

	f.customers.err = customerservice.ErrCustomerNotFound
	_, err = f.uc.Execute(context.Background(), &Request{
		CustomerID: ptr.Ptr(int64(42)), ServiceID: massage, StaffIDs: []int64{3}, StartTime: tenAM.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{"no customer", &Request{ServiceID: massage, StartTime: tenAM}, domain.ErrValidation},
		{"start in past", &Request{GuestName: guest, ServiceID: massage, StartTime: now.Add(-time.Minute)}, ErrStartInPast},
		{"unknown service", &Request{GuestName: guest, ServiceID: 77, StartTime: tenAM}, ErrServiceNotFound},
		{"inactive service", &Request{GuestName: guest, ServiceID: 2, StartTime: tenAM}, ErrServiceNotFound},
		{"unqualified staff", &Request{GuestName: guest, ServiceID: massage, StaffIDs: []int64{4}, StartTime: tenAM}, ErrStaffNotQualified},
		{"package without customer", &Request{GuestName: guest, ServiceID: massage, StartTime: tenAM, PackageID: ptr.Ptr(int64(7))}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.repo.created)
}

func TestExecute_CatalogUnavailable(t *testing.T) {
	f := newFixture()
	f.catalog.err = errors.New("dial tcp: connection refused")

	_, err := f.uc.Execute(context.Background(), &Request{GuestName: guest, ServiceID: massage, StartTime: tenAM})
	assert.ErrorIs(t, err, ErrInternal)
}
