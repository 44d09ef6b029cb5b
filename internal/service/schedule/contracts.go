package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	shiftRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/shift"
	timeoffRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/timeoff"
)

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	GetDefaultShift(ctx context.Context, staffID int64, weekday int) (*domain.DefaultShift, error)
	ListOverrides(ctx context.Context, staffID int64, from, to time.Time) ([]domain.ScheduleOverride, error)
	ListFlexibleShifts(ctx context.Context, filter shiftRepo.FlexibleShiftFilter) ([]domain.FlexibleShift, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// TimeOffRepository интерфейс репозитория заявок на отсутствие
type TimeOffRepository interface {
	List(ctx context.Context, filter timeoffRepo.Filter) ([]domain.TimeOffRequest, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
