package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/pgerr"
	"github.com/m04kA/SMC-SalonScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduling/pkg/psqlbuilder"
)

// staffIDsColumn назначенные сотрудники одной колонкой (bigint[])
const staffIDsColumn = "ARRAY(SELECT s.staff_id FROM appointment_staff s WHERE s.appointment_id = a.id ORDER BY s.staff_id) AS staff_ids"

var selectColumns = []string{
	"a.id",
	"a.customer_id",
	"a.guest_name",
	"a.service_id",
	staffIDsColumn,
	"a.start_time",
	"a.end_time",
	"a.status",
	"a.payment_status",
	"a.package_id",
	"a.package_session_id",
	"a.notes",
	"a.cancellation_reason",
	"a.cancelled_at",
	"a.checked_in_at",
	"a.completed_at",
	"a.created_at",
	"a.updated_at",
}

// Repository репозиторий записей клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись и занимает интервал каждого назначенного сотрудника.
// Должен вызываться внутри транзакции: вставка в appointment_staff защищена
// EXCLUDE ограничением, и при пересечении вся транзакция откатывается.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"customer_id",
			"guest_name",
			"service_id",
			"start_time",
			"end_time",
			"status",
			"payment_status",
			"package_id",
			"package_session_id",
			"notes",
		).
		Values(
			appt.CustomerID,
			appt.GuestName,
			appt.ServiceID,
			appt.StartTime,
			appt.EndTime,
			appt.Status,
			appt.PaymentStatus,
			appt.PackageID,
			appt.PackageSessionID,
			appt.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&appt.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	if err := r.occupyStaff(ctx, executor, appt); err != nil {
		return nil, err
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(selectColumns...).
		From("appointments a").
		Where(squirrel.Eq{"a.id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF a")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// List получает записи по фильтру, упорядоченные по времени начала.
// Период задается как пересечение: запись попадает, если end_time > From и start_time < To.
// Внутри транзакции строки блокируются (FOR UPDATE), как при проверке слота перед вставкой.
func (r *Repository) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(selectColumns...).
		From("appointments a").
		OrderBy("a.start_time ASC", "a.id ASC")

	if len(filter.StaffIDs) > 0 {
		selectBuilder = selectBuilder.Where(
			"EXISTS (SELECT 1 FROM appointment_staff s WHERE s.appointment_id = a.id AND s.staff_id = ANY(?))",
			pq.Array(filter.StaffIDs),
		)
	}
	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.customer_id": *filter.CustomerID})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"a.end_time": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"a.start_time": *filter.To})
	}
	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.status": statusStrings(filter.Statuses)})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF a")
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

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan appointment: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// CountActiveByStaff возвращает количество активных записей каждого сотрудника в периоде.
// Сотрудники без записей в результат не попадают.
func (r *Repository) CountActiveByStaff(ctx context.Context, staffIDs []int64, from, to time.Time) (map[int64]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("s.staff_id", "COUNT(*)").
		From("appointment_staff s").
		Join("appointments a ON a.id = s.appointment_id").
		Where("s.staff_id = ANY(?)", pq.Array(staffIDs)).
		Where(squirrel.Eq{"a.status": statusStrings(domain.ActiveStatuses)}).
		Where(squirrel.Lt{"a.start_time": to}).
		Where(squirrel.Gt{"a.end_time": from}).
		GroupBy("s.staff_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveByStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveByStaff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[int64]int, len(staffIDs))
	for rows.Next() {
		var staffID int64
		var count int
		if err := rows.Scan(&staffID, &count); err != nil {
			return nil, fmt.Errorf("%w: CountActiveByStaff - scan row: %v", ErrScanRow, err)
		}
		counts[staffID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountActiveByStaff - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// UpdateStatus условно переводит запись из статуса from в статус to.
// Если запись уже не в статусе from, возвращает ErrStatusChanged и ничего не меняет.
// Терминальные статусы освобождают интервал сотрудников.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("status", to).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "status": from})

	switch to {
	case domain.StatusCheckedIn:
		updateBuilder = updateBuilder.Set("checked_in_at", at)
	case domain.StatusCompleted:
		updateBuilder = updateBuilder.Set("completed_at", at)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	if err := r.execConditional(ctx, executor, "UpdateStatus", query, args); err != nil {
		return err
	}

	if to.IsTerminal() {
		return r.releaseStaff(ctx, executor, id)
	}
	return nil
}

// Cancel условно отменяет запись с указанием причины и освобождает интервал
func (r *Repository) Cancel(ctx context.Context, id int64, from domain.AppointmentStatus, reason string, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	if err := r.execConditional(ctx, executor, "Cancel", query, args); err != nil {
		return err
	}

	return r.releaseStaff(ctx, executor, id)
}

// Reschedule переносит запись в статусе upcoming: новое время и состав сотрудников.
// Старые интервалы удаляются и занимаются заново под защитой EXCLUDE ограничения.
func (r *Repository) Reschedule(ctx context.Context, appt *domain.Appointment, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("start_time", appt.StartTime).
		Set("end_time", appt.EndTime).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": appt.ID, "status": domain.StatusUpcoming}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	if err := r.execConditional(ctx, executor, "Reschedule", query, args); err != nil {
		return err
	}

	query, args, err = psqlbuilder.Delete("appointment_staff").
		Where(squirrel.Eq{"appointment_id": appt.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Reschedule - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Reschedule - delete staff intervals: %v", ErrExecQuery, err)
	}

	if err := r.occupyStaff(ctx, executor, appt); err != nil {
		return err
	}

	appt.UpdatedAt = at
	return nil
}

func (r *Repository) occupyStaff(ctx context.Context, executor DBExecutor, appt *domain.Appointment) error {
	insertBuilder := psqlbuilder.Insert("appointment_staff").
		Columns("appointment_id", "staff_id", "during")
	for _, staffID := range appt.StaffIDs {
		insertBuilder = insertBuilder.Values(
			appt.ID,
			staffID,
			squirrel.Expr("tstzrange(?, ?, '[)')", appt.StartTime, appt.EndTime),
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: occupyStaff - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if pgerr.IsConcurrentConflict(err) {
			return fmt.Errorf("%w: occupyStaff - %v", ErrStaffBusy, err)
		}
		return fmt.Errorf("%w: occupyStaff - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) releaseStaff(ctx context.Context, executor DBExecutor, id int64) error {
	query, args, err := psqlbuilder.Update("appointment_staff").
		Set("released", true).
		Where(squirrel.Eq{"appointment_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: releaseStaff - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: releaseStaff - execute update: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) execConditional(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pgerr.IsConcurrentConflict(err) {
			return fmt.Errorf("%w: %s - %v", ErrStaffBusy, op, err)
		}
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var staffIDs pq.Int64Array
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.CustomerID,
		&appt.GuestName,
		&appt.ServiceID,
		&staffIDs,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Status,
		&appt.PaymentStatus,
		&appt.PackageID,
		&appt.PackageSessionID,
		&appt.Notes,
		&appt.CancellationReason,
		&appt.CancelledAt,
		&appt.CheckedInAt,
		&appt.CompletedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.StaffIDs = []int64(staffIDs)
	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

func statusStrings(statuses []domain.AppointmentStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
