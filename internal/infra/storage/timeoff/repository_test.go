package timeoff

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

var start = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestRepository_Create_StoresConflicts(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO time_off_requests (staff_id,start_time,end_time,reason,status,conflicting_appointment_ids)")).
		WithArgs(int64(3), start, start.Add(8*time.Hour), "vacation", "PENDING", "{41,42}").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), start, start))

	req, err := repo.Create(context.Background(), &domain.TimeOffRequest{
		StaffID:                   3,
		StartTime:                 start,
		EndTime:                   start.Add(8 * time.Hour),
		Reason:                    "vacation",
		Status:                    domain.TimeOffPending,
		ConflictingAppointmentIDs: []int64{41, 42},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), req.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	repo, mock := newRepo(t)
	from := start
	to := start.Add(24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE staff_id IN ($1) AND end_time > $2 AND start_time < $3 AND status IN ($4,$5)")).
		WithArgs(int64(3), from, to, "PENDING", "APPROVED").
		WillReturnRows(sqlmock.NewRows(selectColumns).
			AddRow(int64(1), int64(3), start, start.Add(time.Hour), "dentist", "APPROVED", "{}", int64(9), start, start, start))

	list, err := repo.List(context.Background(), Filter{
		StaffIDs: []int64{3},
		From:     &from,
		To:       &to,
		Statuses: []domain.TimeOffStatus{domain.TimeOffPending, domain.TimeOffApproved},
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.TimeOffApproved, list[0].Status)
	assert.Empty(t, list[0].ConflictingAppointmentIDs)
	assert.NotNil(t, list[0].ConflictingAppointmentIDs)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM time_off_requests").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestRepository_Decide(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE time_off_requests SET status = $1, conflicting_appointment_ids = $2, decided_by = $3, decided_at = $4, updated_at = $5 WHERE id = $6 AND status = $7")).
		WithArgs("APPROVED", "{}", int64(9), start, start, int64(1), "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE time_off_requests").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Decide(context.Background(), 1, domain.TimeOffApproved, 9, nil, start))
	assert.ErrorIs(t, repo.Decide(context.Background(), 1, domain.TimeOffRejected, 9, nil, start), ErrAlreadyDecided)
}
