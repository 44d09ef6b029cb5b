package shift

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduling/pkg/psqlbuilder"
)

// Repository репозиторий расписаний: недельный шаблон, исключения и гибкие смены
type Repository struct {
	db  DBExecutor
	loc *time.Location
}

// NewRepository создает репозиторий. loc - часовой пояс салона,
// в котором интерпретируются даты (DATE) и время суток (TIME).
func NewRepository(db DBExecutor, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{db: db, loc: loc}
}

// ============================================================
// Недельный шаблон
// ============================================================

// GetDefaultShifts получает шаблон сотрудника, упорядоченный по дню недели
func (r *Repository) GetDefaultShifts(ctx context.Context, staffID int64) ([]domain.DefaultShift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"staff_id",
		"weekday",
		"is_active",
		"start_time",
		"end_time",
		"created_at",
		"updated_at",
	).
		From("default_shifts").
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDefaultShifts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetDefaultShifts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	shifts := make([]domain.DefaultShift, 0, domain.DaysInWeek)
	for rows.Next() {
		var s domain.DefaultShift
		if err := rows.Scan(&s.StaffID, &s.Weekday, &s.IsActive, &s.StartTime, &s.EndTime, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: GetDefaultShifts - scan row: %v", ErrScanRow, err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetDefaultShifts - rows error: %v", ErrScanRow, err)
	}

	return shifts, nil
}

// GetDefaultShift получает шаблон на конкретный день недели (1 = понедельник)
func (r *Repository) GetDefaultShift(ctx context.Context, staffID int64, weekday int) (*domain.DefaultShift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"staff_id",
		"weekday",
		"is_active",
		"start_time",
		"end_time",
		"created_at",
		"updated_at",
	).
		From("default_shifts").
		Where(squirrel.Eq{"staff_id": staffID, "weekday": weekday}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDefaultShift - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.DefaultShift
	err = executor.QueryRowContext(ctx, query, args...).
		Scan(&s.StaffID, &s.Weekday, &s.IsActive, &s.StartTime, &s.EndTime, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDefaultShiftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDefaultShift - scan row: %v", ErrScanRow, err)
	}

	return &s, nil
}

// UpsertDefaultShifts создает или обновляет записи шаблона (по ключу staff_id + weekday)
func (r *Repository) UpsertDefaultShifts(ctx context.Context, shifts []domain.DefaultShift) error {
	if len(shifts) == 0 {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("default_shifts").
		Columns("staff_id", "weekday", "is_active", "start_time", "end_time")
	for _, s := range shifts {
		insertBuilder = insertBuilder.Values(s.StaffID, s.Weekday, s.IsActive, s.StartTime, s.EndTime)
	}

	query, args, err := insertBuilder.
		Suffix("ON CONFLICT (staff_id, weekday) DO UPDATE SET " +
			"is_active = EXCLUDED.is_active, start_time = EXCLUDED.start_time, " +
			"end_time = EXCLUDED.end_time, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertDefaultShifts - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertDefaultShifts - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// ============================================================
// Исключения из расписания
// ============================================================

// CreateOverride создает исключение. Исключения не изменяются: новое замещает старое.
func (r *Repository) CreateOverride(ctx context.Context, o *domain.ScheduleOverride) (*domain.ScheduleOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("schedule_overrides").
		Columns("staff_id", "override_date", "start_time", "end_time", "kind", "note", "created_by").
		Values(o.StaffID, o.Date.Format(domain.DateFormat), o.StartTime, o.EndTime, o.Kind, o.Note, o.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateOverride - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateOverride - execute insert: %v", ErrExecQuery, err)
	}

	return o, nil
}

// ListOverrides получает исключения сотрудника за период дат [from, to] включительно.
// Порядок: дата, затем порядок создания (последнее - самое актуальное).
func (r *Repository) ListOverrides(ctx context.Context, staffID int64, from, to time.Time) ([]domain.ScheduleOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"override_date",
		"start_time",
		"end_time",
		"kind",
		"note",
		"created_by",
		"created_at",
		"updated_at",
	).
		From("schedule_overrides").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.GtOrEq{"override_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"override_date": to.Format(domain.DateFormat)}).
		OrderBy("override_date ASC", "created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]domain.ScheduleOverride, 0)
	for rows.Next() {
		var o domain.ScheduleOverride
		err := rows.Scan(&o.ID, &o.StaffID, &o.Date, &o.StartTime, &o.EndTime, &o.Kind, &o.Note, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: ListOverrides - scan row: %v", ErrScanRow, err)
		}
		o.Date = r.localDate(o.Date)
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - rows error: %v", ErrScanRow, err)
	}

	return overrides, nil
}

// ============================================================
// Гибкие смены
// ============================================================

var flexibleShiftColumns = []string{
	"id",
	"staff_id",
	"start_time",
	"end_time",
	"status",
	"decided_by",
	"decided_at",
	"created_at",
	"updated_at",
}

// CreateFlexibleShift сохраняет смену, предложенную сотрудником
func (r *Repository) CreateFlexibleShift(ctx context.Context, f *domain.FlexibleShift) (*domain.FlexibleShift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("flexible_shifts").
		Columns("staff_id", "start_time", "end_time", "status").
		Values(f.StaffID, f.StartTime, f.EndTime, f.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateFlexibleShift - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateFlexibleShift - execute insert: %v", ErrExecQuery, err)
	}

	return f, nil
}

// GetFlexibleShift получает смену по ID (внутри транзакции - с блокировкой строки)
func (r *Repository) GetFlexibleShift(ctx context.Context, id int64) (*domain.FlexibleShift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(flexibleShiftColumns...).
		From("flexible_shifts").
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetFlexibleShift - build select query: %v", ErrBuildQuery, err)
	}

	f, err := r.scanFlexibleShift(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFlexibleShiftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetFlexibleShift - scan row: %v", ErrScanRow, err)
	}

	return f, nil
}

// ListFlexibleShifts получает смены по фильтру, упорядоченные по началу
func (r *Repository) ListFlexibleShifts(ctx context.Context, filter FlexibleShiftFilter) ([]domain.FlexibleShift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(flexibleShiftColumns...).
		From("flexible_shifts").
		OrderBy("start_time ASC", "id ASC")

	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_time": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": *filter.To})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListFlexibleShifts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListFlexibleShifts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	shifts := make([]domain.FlexibleShift, 0)
	for rows.Next() {
		f, err := r.scanFlexibleShift(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListFlexibleShifts - scan row: %v", ErrScanRow, err)
		}
		shifts = append(shifts, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListFlexibleShifts - rows error: %v", ErrScanRow, err)
	}

	return shifts, nil
}

// DecideFlexibleShift одобряет или отклоняет смену в статусе pending.
// Повторное решение возвращает ErrAlreadyDecided.
func (r *Repository) DecideFlexibleShift(ctx context.Context, id int64, status domain.FlexibleShiftStatus, decidedBy int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("flexible_shifts").
		Set("status", status).
		Set("decided_by", decidedBy).
		Set("decided_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "status": domain.FlexibleShiftPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DecideFlexibleShift - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DecideFlexibleShift - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DecideFlexibleShift - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAlreadyDecided
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanFlexibleShift(row rowScanner) (*domain.FlexibleShift, error) {
	var f domain.FlexibleShift
	err := row.Scan(&f.ID, &f.StaffID, &f.StartTime, &f.EndTime, &f.Status, &f.DecidedBy, &f.DecidedAt, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	f.StartTime = f.StartTime.In(r.loc)
	f.EndTime = f.EndTime.In(r.loc)
	return &f, nil
}

// localDate переносит календарную дату из БД в часовой пояс салона
func (r *Repository) localDate(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.loc)
}
