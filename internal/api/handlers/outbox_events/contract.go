package outbox_events

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduling/internal/service/events/models"
)

type EventService interface {
	ListPending(ctx context.Context, limit int) (*models.EventListResponse, error)
	Ack(ctx context.Context, eventID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
