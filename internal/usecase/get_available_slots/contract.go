package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/integrations/catalogservice"
)

// ScheduleService интерфейс сервиса расписания
type ScheduleService interface {
	GetAvailableSlotsAny(ctx context.Context, staffIDs []int64, date time.Time, durationMinutes, granularityMinutes int) ([]domain.Slot, error)
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
	ListQualifiedStaff(ctx context.Context, serviceID int64) ([]int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
