package appointment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/pkg/ptr"
)

var (
	start = time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
	end   = start.Add(30 * time.Minute)
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func appointmentRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "customer_id", "guest_name", "service_id", "staff_ids", "start_time", "end_time",
		"status", "payment_status", "package_id", "package_session_id", "notes",
		"cancellation_reason", "cancelled_at", "checked_in_at", "completed_at", "created_at", "updated_at",
	}).AddRow(
		int64(42), nil, "Anna", int64(7), "{3,5}", start, end,
		"upcoming", "unpaid", int64(11), int64(12), nil,
		nil, nil, nil, nil, start.Add(-time.Hour), start.Add(-time.Hour),
	)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newRepo(t)
	appt := &domain.Appointment{
		GuestName:     ptr.Ptr("Anna"),
		ServiceID:     7,
		StaffIDs:      []int64{3, 5},
		StartTime:     start,
		EndTime:       end,
		Status:        domain.StatusUpcoming,
		PaymentStatus: domain.PaymentUnpaid,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), start, start))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO appointment_staff (appointment_id,staff_id,during) VALUES ($1,$2,tstzrange($3, $4, '[)')),($5,$6,tstzrange($7, $8, '[)'))")).
		WithArgs(int64(42), int64(3), start, end, int64(42), int64(5), start, end).
		WillReturnResult(sqlmock.NewResult(0, 2))

	created, err := repo.Create(context.Background(), appt)
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, start, created.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_ExclusionViolation(t *testing.T) {
	repo, mock := newRepo(t)
	appt := &domain.Appointment{
		GuestName: ptr.Ptr("Anna"),
		ServiceID: 7,
		StaffIDs:  []int64{3},
		StartTime: start,
		EndTime:   end,
		Status:    domain.StatusUpcoming,
	}

	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(43), start, start))
	mock.ExpectExec("INSERT INTO appointment_staff").
		WillReturnError(&pq.Error{Code: "23P01", Constraint: "appointment_staff_no_overlap"})

	_, err := repo.Create(context.Background(), appt)
	assert.ErrorIs(t, err, ErrStaffBusy)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM appointments a WHERE a.id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(appointmentRow())

	appt, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 5}, appt.StaffIDs)
	assert.Equal(t, domain.StatusUpcoming, appt.Status)
	assert.Equal(t, "Anna", *appt.GuestName)
	assert.Nil(t, appt.CustomerID)
	assert.Equal(t, int64(12), *appt.PackageSessionID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM appointments a").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_List_ByStaffAndRange(t *testing.T) {
	repo, mock := newRepo(t)
	from := start.Add(-10 * time.Hour)
	to := from.Add(24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("s.staff_id = ANY($1)) AND a.end_time > $2 AND a.start_time < $3 AND a.status IN ($4,$5) ORDER BY a.start_time ASC, a.id ASC")).
		WithArgs(sqlmock.AnyArg(), from, to, "upcoming", "checked-in").
		WillReturnRows(appointmentRow())

	list, err := repo.List(context.Background(), domain.AppointmentFilter{
		StaffIDs: []int64{3},
		From:     &from,
		To:       &to,
		Statuses: []domain.AppointmentStatus{domain.StatusUpcoming, domain.StatusCheckedIn},
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(42), list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountActiveByStaff(t *testing.T) {
	repo, mock := newRepo(t)
	from := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY s.staff_id")).
		WillReturnRows(sqlmock.NewRows([]string{"staff_id", "count"}).
			AddRow(int64(3), 2).
			AddRow(int64(5), 1))

	counts, err := repo.CountActiveByStaff(context.Background(), []int64{3, 5, 9}, from, to)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{3: 2, 5: 1}, counts)
}

func TestRepository_UpdateStatus_Conditional(t *testing.T) {
	repo, mock := newRepo(t)
	now := start.Add(-10 * time.Minute)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET status = $1, updated_at = $2, checked_in_at = $3 WHERE id = $4 AND status = $5")).
		WithArgs("checked-in", now, now, int64(42), "upcoming").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), 42, domain.StatusUpcoming, domain.StatusCheckedIn, now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_StatusChanged(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec("UPDATE appointments").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 42, domain.StatusPaused, domain.StatusInProgress, start)
	assert.ErrorIs(t, err, ErrStatusChanged)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_TerminalReleasesStaff(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec("UPDATE appointments SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointment_staff SET released = $1 WHERE appointment_id = $2")).
		WithArgs(true, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.UpdateStatus(context.Background(), 42, domain.StatusInProgress, domain.StatusCompleted, end))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Cancel(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET status = $1, cancellation_reason = $2, cancelled_at = $3, updated_at = $4 WHERE id = $5 AND status = $6")).
		WithArgs("cancelled", "client called", start, start, int64(42), "upcoming").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE appointment_staff SET released").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Cancel(context.Background(), 42, domain.StatusUpcoming, "client called", start))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Reschedule(t *testing.T) {
	repo, mock := newRepo(t)
	newStart := start.Add(2 * time.Hour)
	appt := &domain.Appointment{ID: 42, StaffIDs: []int64{5}, StartTime: newStart, EndTime: newStart.Add(30 * time.Minute)}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET start_time = $1, end_time = $2, updated_at = $3 WHERE id = $4 AND status = $5")).
		WithArgs(newStart, appt.EndTime, start, int64(42), "upcoming").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM appointment_staff WHERE appointment_id = $1")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO appointment_staff").
		WithArgs(int64(42), int64(5), newStart, appt.EndTime).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Reschedule(context.Background(), appt, start))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Reschedule_SerializationFailure(t *testing.T) {
	repo, mock := newRepo(t)
	appt := &domain.Appointment{ID: 42, StaffIDs: []int64{5}, StartTime: start, EndTime: end}

	mock.ExpectExec("UPDATE appointments").
		WillReturnError(&pq.Error{Code: "40001"})

	err := repo.Reschedule(context.Background(), appt, start)
	assert.ErrorIs(t, err, ErrStaffBusy)
}
