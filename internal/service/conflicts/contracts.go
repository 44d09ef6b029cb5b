package conflicts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	timeoffRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/timeoff"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// OverrideRepository интерфейс репозитория исключений из расписания
type OverrideRepository interface {
	ListOverrides(ctx context.Context, staffID int64, from, to time.Time) ([]domain.ScheduleOverride, error)
}

// TimeOffRepository интерфейс репозитория заявок на отсутствие
type TimeOffRepository interface {
	List(ctx context.Context, filter timeoffRepo.Filter) ([]domain.TimeOffRequest, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
