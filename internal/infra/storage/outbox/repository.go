package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduling/pkg/psqlbuilder"
)

// Repository outbox событий по записям.
// Insert вызывается в той же транзакции, что и смена статуса записи.
type Repository struct {
	db    DBExecutor
	newID func() uuid.UUID
}

// NewRepository создает новый экземпляр outbox репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db, newID: uuid.New}
}

// Insert сохраняет событие
func (r *Repository) Insert(ctx context.Context, appointmentID int64, eventType string, payload interface{}) (uuid.UUID, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	data, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: Insert - %v", ErrMarshalPayload, err)
	}

	id := r.newID()
	query, args, err := psqlbuilder.Insert("appointment_events").
		Columns("id", "appointment_id", "event_type", "payload").
		Values(id.String(), appointmentID, eventType, data).
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: Insert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return uuid.Nil, fmt.Errorf("%w: Insert - execute insert: %v", ErrExecQuery, err)
	}

	return id, nil
}

// FetchPending получает недоставленные события в порядке создания
func (r *Repository) FetchPending(ctx context.Context, limit uint64) ([]domain.AppointmentEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "appointment_id", "event_type", "payload", "created_at").
		From("appointment_events").
		Where(squirrel.Eq{"delivered_at": nil}).
		OrderBy("created_at ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FetchPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FetchPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]domain.AppointmentEvent, 0)
	for rows.Next() {
		var e domain.AppointmentEvent
		var id string
		var payload []byte
		if err := rows.Scan(&id, &e.AppointmentID, &e.Type, &payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: FetchPending - scan row: %v", ErrScanRow, err)
		}
		e.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("%w: FetchPending - parse id: %v", ErrScanRow, err)
		}
		e.Payload = append([]byte(nil), payload...)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FetchPending - rows error: %v", ErrScanRow, err)
	}

	return events, nil
}

// MarkDelivered подтверждает доставку события.
// Повторное подтверждение возвращает ErrEventNotFound.
func (r *Repository) MarkDelivered(ctx context.Context, id uuid.UUID, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointment_events").
		Set("delivered_at", at).
		Where(squirrel.Eq{"id": id.String(), "delivered_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkDelivered - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkDelivered - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkDelivered - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}
