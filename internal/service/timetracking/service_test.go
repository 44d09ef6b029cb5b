package timetracking

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	shiftRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/shift"
	timeentryRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/timeentry"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/timetracking/models"
	"github.com/m04kA/SMC-SalonScheduling/pkg/logger"
)

var shiftStart = time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

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

type fakeEntries struct {
	entries []*domain.TimeEntry
	nextID  int64
}

func (f *fakeEntries) Open(_ context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	for _, e := range f.entries {
		if e.StaffID == entry.StaffID && e.IsOpen() {
			return nil, timeentryRepo.ErrOpenEntryExists
		}
	}
	f.nextID++
	created := *entry
	created.ID = f.nextID
	f.entries = append(f.entries, &created)
	result := created
	return &result, nil
}

func (f *fakeEntries) GetOpen(_ context.Context, staffID int64) (*domain.TimeEntry, error) {
	for _, e := range f.entries {
		if e.StaffID == staffID && e.IsOpen() {
			result := *e
			return &result, nil
		}
	}
	return nil, timeentryRepo.ErrNoOpenEntry
}

func (f *fakeEntries) Close(_ context.Context, staffID int64, at time.Time, location *string) error {
	for _, e := range f.entries {
		if e.StaffID == staffID && e.IsOpen() {
			e.CheckOutTime = &at
			e.CheckOutLocation = location
			return nil
		}
	}
	return timeentryRepo.ErrNoOpenEntry
}

func (f *fakeEntries) List(_ context.Context, staffID int64, _, _ time.Time) ([]domain.TimeEntry, error) {
	var result []domain.TimeEntry
	for _, e := range f.entries {
		if e.StaffID == staffID {
			result = append(result, *e)
		}
	}
	return result, nil
}

type fakeShifts struct {
	shifts []domain.FlexibleShift
}

func (f *fakeShifts) ListFlexibleShifts(_ context.Context, filter shiftRepo.FlexibleShiftFilter) ([]domain.FlexibleShift, error) {
	var result []domain.FlexibleShift
	for _, s := range f.shifts {
		if s.StaffID != *filter.StaffID || s.Status != *filter.Status {
			continue
		}
		if !s.EndTime.After(*filter.From) || !s.StartTime.Before(*filter.To) {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

type fakeDetector struct {
	conflicts []domain.Conflict
}

func (f *fakeDetector) FindConflicts(_ context.Context, _ int64, interval domain.Interval, _ *int64) ([]domain.Conflict, error) {
	var result []domain.Conflict
	for _, c := range f.conflicts {
		if c.Interval().Overlaps(interval) {
			result = append(result, c)
		}
	}
	return result, nil
}

type fixture struct {
	clock    *clock
	entries  *fakeEntries
	detector *fakeDetector
	service  *Service
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		clock:    &clock{now: now},
		entries:  &fakeEntries{},
		detector: &fakeDetector{},
	}
	shifts := &fakeShifts{shifts: []domain.FlexibleShift{
		{ID: 50, StaffID: 5, StartTime: shiftStart, EndTime: shiftStart.Add(6 * time.Hour), Status: domain.FlexibleShiftApproved},
		{ID: 51, StaffID: 5, StartTime: shiftStart.AddDate(0, 0, 1), EndTime: shiftStart.AddDate(0, 0, 1).Add(time.Hour), Status: domain.FlexibleShiftPending},
	}}
	f.service = NewService(f.entries, shifts, f.detector, passthroughTx{}, 15*time.Minute,
		logger.NewWithWriter(io.Discard, logrus.InfoLevel)).WithTimeProvider(f.clock)
	return f
}

func TestCheckIn_GraceWindow(t *testing.T) {
	ctx := context.Background()

	_, err := newFixture(shiftStart.Add(-16*time.Minute)).service.CheckIn(ctx, &models.CheckRequest{StaffID: 5})
	assert.ErrorIs(t, err, ErrNoShiftToCheckIn)

	entry, err := newFixture(shiftStart.Add(-15*time.Minute)).service.CheckIn(ctx, &models.CheckRequest{StaffID: 5})
	require.NoError(t, err)
	require.NotNil(t, entry.ScheduleID)
	assert.Equal(t, int64(50), *entry.ScheduleID)
	assert.True(t, entry.IsOpen)

	_, err = newFixture(shiftStart.AddDate(0, 0, 1)).service.CheckIn(ctx, &models.CheckRequest{StaffID: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCheckIn_IdempotentRetry(t *testing.T) {
	f := newFixture(shiftStart)
	ctx := context.Background()

	first, err := f.service.CheckIn(ctx, &models.CheckRequest{StaffID: 5})
	require.NoError(t, err)

	f.clock.now = shiftStart.Add(time.Minute)
	second, err := f.service.CheckIn(ctx, &models.CheckRequest{StaffID: 5})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.entries.entries, 1)
}

func TestCheckIn_RejectedDuringBlock(t *testing.T) {
	f := newFixture(shiftStart.Add(time.Hour))
	f.detector.conflicts = []domain.Conflict{
		{Kind: domain.ConflictBlock, ID: 9, StaffID: 5, Start: shiftStart, End: shiftStart.Add(2 * time.Hour)},
	}

	_, err := f.service.CheckIn(context.Background(), &models.CheckRequest{StaffID: 5})
	require.ErrorIs(t, err, domain.ErrConflict)
	conflicts, ok := domain.ConflictsFromError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ConflictBlock, conflicts[0].Kind)
	assert.Empty(t, f.entries.entries)
}

func TestCheckIn_RejectedWhileAppointmentEntryOpen(t *testing.T) {
	f := newFixture(shiftStart)
	ctx := context.Background()

	_, err := f.service.OpenForAppointment(ctx, 5, shiftStart.Add(-time.Hour))
	require.NoError(t, err)

	_, err = f.service.CheckIn(ctx, &models.CheckRequest{StaffID: 5})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCheckOut(t *testing.T) {
	f := newFixture(shiftStart)
	ctx := context.Background()
	location := "front desk"

	_, err := f.service.CheckOut(ctx, &models.CheckRequest{StaffID: 5})
	assert.ErrorIs(t, err, ErrNoOpenTimeEntry)

	_, err = f.service.CheckIn(ctx, &models.CheckRequest{StaffID: 5})
	require.NoError(t, err)

	f.clock.now = shiftStart.Add(6 * time.Hour)
	closed, err := f.service.CheckOut(ctx, &models.CheckRequest{StaffID: 5, Location: &location})
	require.NoError(t, err)
	assert.False(t, closed.IsOpen)
	require.NotNil(t, closed.CheckOutTime)
	assert.Equal(t, shiftStart.Add(6*time.Hour), *closed.CheckOutTime)
	assert.Equal(t, &location, closed.CheckOutLocation)
}

func TestAppointmentEntries(t *testing.T) {
	f := newFixture(shiftStart)
	ctx := context.Background()

	// без покрывающей смены отметка открывается без привязки
	entry, err := f.service.OpenForAppointment(ctx, 5, shiftStart.Add(-2*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, entry.ScheduleID)

	_, err = f.service.OpenForAppointment(ctx, 5, shiftStart.Add(-2*time.Hour))
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, f.service.CloseForAppointment(ctx, 5, shiftStart.Add(-time.Hour)))
	assert.False(t, f.entries.entries[0].IsOpen())

	// отметка на смену переиспользуется и не закрывается вместе с записью
	_, err = f.service.CheckIn(ctx, &models.CheckRequest{StaffID: 5})
	require.NoError(t, err)
	entry, err = f.service.OpenForAppointment(ctx, 5, shiftStart.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), entry.ID)

	require.NoError(t, f.service.CloseForAppointment(ctx, 5, shiftStart.Add(2*time.Hour)))
	assert.True(t, f.entries.entries[1].IsOpen())

	require.NoError(t, f.service.CloseForAppointment(ctx, 6, shiftStart))
}

func TestCheckInOut_SerializationFailureIsConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(shiftStart)
	f.service.txManager = commitFailTx{}

	_, err := f.service.CheckIn(ctx, &models.CheckRequest{StaffID: 5})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.NotErrorIs(t, err, ErrInternal)

	_, err = f.service.CheckOut(ctx, &models.CheckRequest{StaffID: 5})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.NotErrorIs(t, err, ErrInternal)
}
