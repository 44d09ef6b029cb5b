package timeentry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/pgerr"
	"github.com/m04kA/SMC-SalonScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduling/pkg/psqlbuilder"
)

var selectColumns = []string{
	"id",
	"staff_id",
	"schedule_id",
	"check_in_time",
	"check_out_time",
	"check_in_location",
	"check_out_location",
	"created_at",
	"updated_at",
}

// Repository репозиторий отметок прихода/ухода
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория отметок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Open открывает отметку прихода. Условная запись: если у сотрудника уже есть
// открытая отметка, строка не вставляется и возвращается ErrOpenEntryExists.
func (r *Repository) Open(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_entries").
		Columns("staff_id", "schedule_id", "check_in_time", "check_in_location").
		Values(entry.StaffID, entry.ScheduleID, entry.CheckInTime, entry.CheckInLocation).
		Suffix("ON CONFLICT (staff_id) WHERE check_out_time IS NULL DO NOTHING RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Open - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) || pgerr.IsUniqueViolation(err) {
		return nil, ErrOpenEntryExists
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Open - execute insert: %v", ErrExecQuery, err)
	}

	return entry, nil
}

// GetOpen получает незакрытую отметку сотрудника
func (r *Repository) GetOpen(ctx context.Context, staffID int64) (*domain.TimeEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns...).
		From("time_entries").
		Where(squirrel.Eq{"staff_id": staffID, "check_out_time": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOpen - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := scanEntry(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoOpenEntry
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOpen - scan row: %v", ErrScanRow, err)
	}

	return entry, nil
}

// Close закрывает открытую отметку сотрудника
func (r *Repository) Close(ctx context.Context, staffID int64, at time.Time, location *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_entries").
		Set("check_out_time", at).
		Set("check_out_location", location).
		Set("updated_at", at).
		Where(squirrel.Eq{"staff_id": staffID, "check_out_time": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Close - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Close - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Close - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrNoOpenEntry
	}

	return nil
}

// List получает отметки сотрудника, начатые в периоде [from, to)
func (r *Repository) List(ctx context.Context, staffID int64, from, to time.Time) ([]domain.TimeEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns...).
		From("time_entries").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.GtOrEq{"check_in_time": from}).
		Where(squirrel.Lt{"check_in_time": to}).
		OrderBy("check_in_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]domain.TimeEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*domain.TimeEntry, error) {
	var e domain.TimeEntry
	err := row.Scan(
		&e.ID,
		&e.StaffID,
		&e.ScheduleID,
		&e.CheckInTime,
		&e.CheckOutTime,
		&e.CheckInLocation,
		&e.CheckOutLocation,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
