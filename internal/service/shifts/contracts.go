package shifts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	shiftRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/shift"
)

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	GetDefaultShifts(ctx context.Context, staffID int64) ([]domain.DefaultShift, error)
	UpsertDefaultShifts(ctx context.Context, shifts []domain.DefaultShift) error
	CreateOverride(ctx context.Context, o *domain.ScheduleOverride) (*domain.ScheduleOverride, error)
	ListOverrides(ctx context.Context, staffID int64, from, to time.Time) ([]domain.ScheduleOverride, error)
	CreateFlexibleShift(ctx context.Context, f *domain.FlexibleShift) (*domain.FlexibleShift, error)
	GetFlexibleShift(ctx context.Context, id int64) (*domain.FlexibleShift, error)
	ListFlexibleShifts(ctx context.Context, filter shiftRepo.FlexibleShiftFilter) ([]domain.FlexibleShift, error)
	DecideFlexibleShift(ctx context.Context, id int64, status domain.FlexibleShiftStatus, decidedBy int64, at time.Time) error
}

// ConflictDetector интерфейс детектора конфликтов
type ConflictDetector interface {
	FindConflicts(ctx context.Context, staffID int64, interval domain.Interval, excludeAppointmentID *int64) ([]domain.Conflict, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
