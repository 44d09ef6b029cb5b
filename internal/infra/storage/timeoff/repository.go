package timeoff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduling/pkg/psqlbuilder"
)

var selectColumns = []string{
	"id",
	"staff_id",
	"start_time",
	"end_time",
	"reason",
	"status",
	"conflicting_appointment_ids",
	"decided_by",
	"decided_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий заявок на отсутствие
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет заявку вместе с вычисленным списком конфликтующих записей
func (r *Repository) Create(ctx context.Context, req *domain.TimeOffRequest) (*domain.TimeOffRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	conflicts := req.ConflictingAppointmentIDs
	if conflicts == nil {
		conflicts = []int64{}
	}

	query, args, err := psqlbuilder.Insert("time_off_requests").
		Columns("staff_id", "start_time", "end_time", "reason", "status", "conflicting_appointment_ids").
		Values(req.StaffID, req.StartTime, req.EndTime, req.Reason, req.Status, pq.Array(conflicts)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	req.ConflictingAppointmentIDs = conflicts
	return req, nil
}

// GetByID получает заявку по ID (внутри транзакции - с блокировкой строки)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TimeOffRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(selectColumns...).
		From("time_off_requests").
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	req, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan row: %v", ErrScanRow, err)
	}

	return req, nil
}

// List получает заявки по фильтру, упорядоченные по началу
func (r *Repository) List(ctx context.Context, filter Filter) ([]domain.TimeOffRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(selectColumns...).
		From("time_off_requests").
		OrderBy("start_time ASC", "id ASC")

	if len(filter.StaffIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": filter.StaffIDs})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_time": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": *filter.To})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statuses})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	requests := make([]domain.TimeOffRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return requests, nil
}

// Decide одобряет или отклоняет заявку в статусе PENDING.
// conflicts - пересчитанный на момент решения список конфликтующих записей.
func (r *Repository) Decide(ctx context.Context, id int64, status domain.TimeOffStatus, decidedBy int64, conflicts []int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if conflicts == nil {
		conflicts = []int64{}
	}

	query, args, err := psqlbuilder.Update("time_off_requests").
		Set("status", status).
		Set("conflicting_appointment_ids", pq.Array(conflicts)).
		Set("decided_by", decidedBy).
		Set("decided_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "status": domain.TimeOffPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Decide - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Decide - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Decide - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAlreadyDecided
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*domain.TimeOffRequest, error) {
	var req domain.TimeOffRequest
	var conflicts pq.Int64Array

	err := row.Scan(
		&req.ID,
		&req.StaffID,
		&req.StartTime,
		&req.EndTime,
		&req.Reason,
		&req.Status,
		&conflicts,
		&req.DecidedBy,
		&req.DecidedAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.ConflictingAppointmentIDs = []int64(conflicts)
	if req.ConflictingAppointmentIDs == nil {
		req.ConflictingAppointmentIDs = []int64{}
	}
	return &req, nil
}
