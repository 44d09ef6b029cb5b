package timetracking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	shiftRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/shift"
)

// TimeEntryRepository интерфейс репозитория отметок рабочего времени
type TimeEntryRepository interface {
	Open(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error)
	GetOpen(ctx context.Context, staffID int64) (*domain.TimeEntry, error)
	Close(ctx context.Context, staffID int64, at time.Time, location *string) error
	List(ctx context.Context, staffID int64, from, to time.Time) ([]domain.TimeEntry, error)
}

// FlexibleShiftRepository интерфейс репозитория гибких смен
type FlexibleShiftRepository interface {
	ListFlexibleShifts(ctx context.Context, filter shiftRepo.FlexibleShiftFilter) ([]domain.FlexibleShift, error)
}

// ConflictDetector интерфейс детектора конфликтов
type ConflictDetector interface {
	FindConflicts(ctx context.Context, staffID int64, interval domain.Interval, excludeAppointmentID *int64) ([]domain.Conflict, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
